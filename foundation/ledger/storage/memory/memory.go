// Package memory implements block snapshot storage in memory. Useful
// for tests and throwaway nodes that don't need to survive a restart.
package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage"
)

// Memory manages storage of blocks in an in-memory slice.
type Memory struct {
	mu     sync.RWMutex
	blocks []chain.Block
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do.
func (m *Memory) Close() error {
	return nil
}

// Write stores the block at its index. Blocks must arrive in order.
func (m *Memory) Write(block chain.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if block.Index != uint64(len(m.blocks)) {
		return fmt.Errorf("block %d out of order, expecting %d", block.Index, len(m.blocks))
	}
	m.blocks = append(m.blocks, block)

	return nil
}

// GetBlock returns the block stored at the specified index.
func (m *Memory) GetBlock(index uint64) (chain.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if index >= uint64(len(m.blocks)) {
		return chain.Block{}, fmt.Errorf("block %d does not exist", index)
	}

	return m.blocks[index], nil
}

// ForEach returns an iterator to walk through all the stored blocks
// starting with the genesis block.
func (m *Memory) ForEach() storage.Iterator {
	return &memoryIterator{storage: m}
}

// Reset drops every stored block.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil

	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through the stored blocks.
type memoryIterator struct {
	storage *Memory // Access to the Memory storage API.
	current uint64  // Current block index being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block in index order.
func (mi *memoryIterator) Next() (chain.Block, error) {
	if mi.eoc {
		return chain.Block{}, errors.New("end of chain")
	}

	block, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
		return chain.Block{}, nil
	}

	mi.current++

	return block, nil
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
