package chain

import "github.com/datacoin-network/datacoin/foundation/ledger/genesis"

// QueryLastest represents to query the latest block in the chain.
const QueryLastest = ^uint64(0) >> 1

// =============================================================================

// Stats summarizes the state of the chain for reporting.
type Stats struct {
	TotalBlocks         int            `json:"total_blocks"`
	TotalTransactions   int            `json:"total_transactions"`
	CurrentDifficulty   uint           `json:"current_difficulty"`
	TotalDataConverted  float64        `json:"total_data_converted_mb"`
	CorporateShares     map[string]int `json:"corporate_shares"`
	PendingTransactions int            `json:"pending_transactions"`
}

// =============================================================================

// QueryBalance derives the balance for the account by replaying every
// sealed transaction. Queued transactions don't count until they are
// mined. Accounts that spent more than they received derive negative.
func (c *Chain) QueryBalance(account string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var balance float64
	for _, block := range c.blocks {
		for _, tx := range block.Transactions {
			if tx.Sender == account {
				balance -= tx.Amount
			}
			if tx.Recipient == account {
				balance += tx.Amount
			}
		}
	}

	return balance
}

// QueryBalances derives the balance of every account that appears in
// the chain, the bookkeeping accounts included.
func (c *Chain) QueryBalances() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	balances := make(map[string]float64)
	for _, block := range c.blocks {
		for _, tx := range block.Transactions {
			balances[tx.Sender] -= tx.Amount
			balances[tx.Recipient] += tx.Amount
		}
	}

	return balances
}

// QueryPending returns a copy of the queued transactions in submission
// order.
func (c *Chain) QueryPending() []Tx {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pending := make([]Tx, len(c.pending))
	copy(pending, c.pending)

	return pending
}

// QueryPendingLength returns the number of queued transactions.
func (c *Chain) QueryPendingLength() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.pending)
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
// This function reads the blockchain from the beginning of the range to
// the end, inclusive. Pass QueryLastest for both to get the last block.
func (c *Chain) QueryBlocksByNumber(from uint64, to uint64) []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	latest := uint64(len(c.blocks) - 1)
	if from == QueryLastest {
		from = latest
		to = latest
	}
	if to > latest {
		to = latest
	}
	if from > to {
		return nil
	}

	blocks := make([]Block, 0, to-from+1)
	for i := from; i <= to; i++ {
		blocks = append(blocks, c.blocks[i].clone())
	}

	return blocks
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (c *Chain) RetrieveLatestBlock() Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.blocks[len(c.blocks)-1].clone()
}

// RetrieveGenesis returns a copy of the genesis information.
func (c *Chain) RetrieveGenesis() genesis.Genesis {
	return c.genesis
}

// QueryDifficulty returns the difficulty the next mining round will use.
func (c *Chain) QueryDifficulty() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.difficulty
}

// QueryMiningReward returns the reward paid for sealing a block.
func (c *Chain) QueryMiningReward() float64 {
	return c.genesis.MiningReward
}

// QueryShares returns a copy of the corporate share holdings.
func (c *Chain) QueryShares() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	shares := make(map[string]int, len(c.shares))
	for entity, holdings := range c.shares {
		shares[entity] = holdings
	}

	return shares
}

// QueryShareTotal returns the sum of all corporate share holdings.
func (c *Chain) QueryShareTotal() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total int
	for _, holdings := range c.shares {
		total += holdings
	}

	return total
}

// QueryStats aggregates the reporting numbers for the chain in one
// consistent read.
func (c *Chain) QueryStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		TotalBlocks:         len(c.blocks),
		CurrentDifficulty:   c.difficulty,
		CorporateShares:     make(map[string]int, len(c.shares)),
		PendingTransactions: len(c.pending),
	}

	for entity, holdings := range c.shares {
		stats.CorporateShares[entity] = holdings
	}

	for _, block := range c.blocks {
		stats.TotalTransactions += len(block.Transactions)
		for _, tx := range block.Transactions {
			if tx.Kind == TxTypeDataConversion {
				stats.TotalDataConverted += tx.DataValue
			}
		}
	}

	return stats
}
