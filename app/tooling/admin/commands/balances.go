// Package commands holds the admin subcommands that run against a
// snapshot of the chain.
package commands

import (
	"fmt"

	"github.com/ardanlabs/conf/v3"
	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
)

// Balances prints the derived balances, all accounts or just one.
func Balances(args conf.Args, ledger *chain.Chain) error {
	onlyAct := args.Num(1)

	fmt.Printf("LatestBlockHash: %s\n\n", ledger.RetrieveLatestBlock().Hash)

	if onlyAct != "" {
		fmt.Printf("Account: %s  Balance: %g\n", onlyAct, ledger.QueryBalance(onlyAct))
		return nil
	}

	for act, bal := range ledger.QueryBalances() {
		fmt.Printf("Account: %s  Balance: %g\n", act, bal)
	}

	return nil
}
