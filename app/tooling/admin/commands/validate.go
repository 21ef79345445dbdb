package commands

import (
	"fmt"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
)

// Validate re-checks every hash and link in the snapshot and reports
// the result.
func Validate(ledger *chain.Chain) error {
	latest := ledger.RetrieveLatestBlock()

	if err := ledger.Validate(); err != nil {
		return err
	}

	fmt.Printf("Chain is valid through block %d [%s]\n", latest.Index, latest.Hash)

	return nil
}
