// Package storage declares the contracts for persisting and restoring
// snapshots of the chain's sealed blocks.
package storage

import "github.com/datacoin-network/datacoin/foundation/ledger/chain"

// Serializer represents the behavior required to persist the block
// sequence, genesis block included, keyed by block index.
type Serializer interface {
	Write(block chain.Block) error
	GetBlock(index uint64) (chain.Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator represents the walk over stored blocks in index order.
type Iterator interface {
	Next() (chain.Block, error)
	Done() bool
}

// ReadAll walks the store and returns the full block sequence. A store
// that was never written to yields an empty sequence and no error.
func ReadAll(serializer Serializer) ([]chain.Block, error) {
	var blocks []chain.Block

	iter := serializer.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}
