// Package chain implements an append-only, hash-linked ledger with
// proof-of-work sequencing. The chain holds the block sequence, the
// queue of transactions waiting for a block, and the governance values
// that gate block creation. It lives entirely in memory; persisting
// blocks is the caller's concern.
package chain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/datacoin-network/datacoin/foundation/ledger/genesis"
	"github.com/datacoin-network/datacoin/foundation/ledger/policy"
)

// zeroHash is the previous hash value carried by a genesis block.
const zeroHash = "0"

// EventHandler defines a function that is called when events
// occur in the processing of mining and submitting transactions.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the chain.
type Config struct {

	// Genesis carries the governance values the chain starts with.
	Genesis genesis.Genesis

	// Blocks restores a previously sealed sequence, genesis block
	// first. Leave empty to start a fresh chain.
	Blocks []Block

	// Policy names the difficulty adjustment strategy to use. Defaults
	// to the share threshold policy.
	Policy string

	// EvHandler receives running events about chain activity.
	EvHandler EventHandler
}

// Chain manages the ledger. All exported methods are safe for
// concurrent use.
type Chain struct {
	mu     sync.RWMutex
	mineMu sync.Mutex // Serializes mining rounds.

	genesis   genesis.Genesis
	policyFn  policy.Func
	evHandler EventHandler

	blocks     []Block
	pending    []Tx
	difficulty uint
	shares     map[string]int
}

// New constructs a chain from its genesis values, either fresh or
// restored from a stored block sequence.
func New(cfg Config) (*Chain, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Genesis.Difficulty < 1 {
		return nil, errors.New("genesis difficulty must be at least 1")
	}

	policyName := cfg.Policy
	if policyName == "" {
		policyName = policy.StrategyShareThreshold
	}
	policyFn, err := policy.Retrieve(policyName)
	if err != nil {
		return nil, err
	}

	// The chain owns its own copy of the share holdings so the genesis
	// value stays what it was.
	shares := make(map[string]int, len(cfg.Genesis.Shares))
	for entity, holdings := range cfg.Genesis.Shares {
		shares[entity] = holdings
	}

	var blocks []Block
	switch {
	case len(cfg.Blocks) > 0:
		if err := validateRestore(cfg.Blocks); err != nil {
			return nil, err
		}
		blocks = make([]Block, len(cfg.Blocks))
		for i, block := range cfg.Blocks {
			blocks[i] = block.clone()
		}

	default:
		tx := NewTx(GenesisAccount, SystemAccount, 0, 0, TxTypeGenesis)
		blocks = []Block{NewBlock(0, []Tx{tx}, zeroHash)}
	}

	c := Chain{
		genesis:    cfg.Genesis,
		policyFn:   policyFn,
		evHandler:  ev,
		blocks:     blocks,
		difficulty: cfg.Genesis.Difficulty,
		shares:     shares,
	}

	ev("chain: new: blocks[%d] difficulty[%d] latest[%s]", len(blocks), c.difficulty, blocks[len(blocks)-1].Hash)

	return &c, nil
}

// =============================================================================

// Submit runs the structural checks against the transaction and queues
// it for the next mining round. It reports whether the transaction was
// accepted. The queue keeps submission order.
func (c *Chain) Submit(tx Tx) bool {
	if !tx.IsValid() {
		c.evHandler("chain: submit: tx[%s] kind[%s]: rejected", tx.ID, tx.Kind)
		return false
	}

	c.mu.Lock()
	c.pending = append(c.pending, tx)
	queued := len(c.pending)
	c.mu.Unlock()

	c.evHandler("chain: submit: tx[%s] kind[%s]: queued: pending[%d]", tx.ID, tx.Kind, queued)

	return true
}

// ConvertData mints currency for a quantity of collected data at the
// genesis conversion rate. The minted coins move from the data network
// account to the recipient once the transaction is mined.
func (c *Chain) ConvertData(dataSizeMB float64, recipient string) (Tx, bool) {
	amount := dataSizeMB * c.genesis.ConversionRate

	tx := NewTx(DataNetworkAccount, recipient, amount, dataSizeMB, TxTypeDataConversion)
	if !c.Submit(tx) {
		return Tx{}, false
	}

	return tx, true
}

// removePending drops the first queued transaction carrying the id.
// Used to take back the reward queued for a mining round that was
// abandoned.
func (c *Chain) removePending(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, tx := range c.pending {
		if tx.ID == id {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// validateRestore checks a stored block sequence is a usable chain
// before adopting it.
func validateRestore(blocks []Block) error {
	if blocks[0].Index != 0 || blocks[0].PrevHash != zeroHash {
		return errors.New("restore: first block is not a genesis block")
	}

	for i, block := range blocks {
		if block.Index != uint64(i) {
			return fmt.Errorf("restore: block %d found at position %d", block.Index, i)
		}
	}

	if err := validateSequence(blocks); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	return nil
}
