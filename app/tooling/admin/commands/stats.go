package commands

import (
	"fmt"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
)

// Stats prints the aggregate numbers for the snapshot.
func Stats(ledger *chain.Chain) error {
	stats := ledger.QueryStats()

	fmt.Println("Total Blocks:       ", stats.TotalBlocks)
	fmt.Println("Total Transactions: ", stats.TotalTransactions)
	fmt.Println("Current Difficulty: ", stats.CurrentDifficulty)
	fmt.Println("Data Converted (MB):", stats.TotalDataConverted)
	for entity, shares := range stats.CorporateShares {
		fmt.Printf("Shares: %-20s %d\n", entity, shares)
	}

	return nil
}
