package commands

import (
	"fmt"

	"github.com/ardanlabs/conf/v3"
	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
)

// Transactions prints the sealed transactions, all of them or just the
// ones touching one account.
func Transactions(args conf.Args, ledger *chain.Chain) error {
	onlyAct := args.Num(1)

	fmt.Printf("LatestBlockHash: %s\n\n", ledger.RetrieveLatestBlock().Hash)

	for _, block := range ledger.QueryBlocksByNumber(0, chain.QueryLastest) {
		for _, tx := range block.Transactions {
			if onlyAct != "" && onlyAct != tx.Sender && onlyAct != tx.Recipient {
				continue
			}

			fmt.Printf("Block: %d  ID: %s  Type: %s  Sender: %s  Recipient: %s  Amount: %g  DataMB: %g\n",
				block.Index, tx.ID, tx.Kind, tx.Sender, tx.Recipient, tx.Amount, tx.DataValue)
		}
	}

	return nil
}
