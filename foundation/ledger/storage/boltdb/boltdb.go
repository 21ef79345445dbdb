// Package boltdb implements block snapshot storage inside a single
// bolt database file. Unlike the disk store everything lives in one
// file and writes are transactional.
package boltdb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/boltdb/bolt"
	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage"
)

// blocksBucket is the bucket holding the block sequence.
const blocksBucket = "blocks"

// Bolt manages storage of blocks inside a bolt database.
type Bolt struct {
	db *bolt.DB
}

// New constructs a Bolt value for use, opening or creating the database
// file and its bucket.
func New(dbPath string) (*Bolt, error) {
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	update := func(btx *bolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists([]byte(blocksBucket))
		return err
	}
	if err := db.Update(update); err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Write stores the block under its index inside one transaction.
func (b *Bolt) Write(block chain.Block) error {
	data, err := json.Marshal(block)
	if err != nil {
		return err
	}

	update := func(btx *bolt.Tx) error {
		return btx.Bucket([]byte(blocksBucket)).Put(itob(block.Index), data)
	}

	return b.db.Update(update)
}

// GetBlock searches the database for the specified block.
func (b *Bolt) GetBlock(index uint64) (chain.Block, error) {
	var block chain.Block

	view := func(btx *bolt.Tx) error {
		data := btx.Bucket([]byte(blocksBucket)).Get(itob(index))
		if data == nil {
			return fmt.Errorf("block %d does not exist", index)
		}
		return json.Unmarshal(data, &block)
	}
	if err := b.db.View(view); err != nil {
		return chain.Block{}, err
	}

	return block, nil
}

// ForEach returns an iterator to walk through all the stored blocks
// starting with the genesis block.
func (b *Bolt) ForEach() storage.Iterator {
	return &boltIterator{storage: b}
}

// Reset drops the bucket and starts the snapshot over.
func (b *Bolt) Reset() error {
	update := func(btx *bolt.Tx) error {
		if err := btx.DeleteBucket([]byte(blocksBucket)); err != nil {
			return err
		}
		_, err := btx.CreateBucketIfNotExists([]byte(blocksBucket))
		return err
	}

	return b.db.Update(update)
}

// itob encodes a block index as a big endian key so the bucket keeps
// the blocks in index order.
func itob(v uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, v)
	return key
}

// =============================================================================

// boltIterator represents the iteration implementation for walking
// through the stored blocks.
type boltIterator struct {
	storage *Bolt  // Access to the Bolt storage API.
	current uint64 // Current block index being iterated over.
	eoc     bool   // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block in index order.
func (bi *boltIterator) Next() (chain.Block, error) {
	if bi.eoc {
		return chain.Block{}, errors.New("end of chain")
	}

	block, err := bi.storage.GetBlock(bi.current)
	if err != nil {
		bi.eoc = true
		return chain.Block{}, nil
	}

	bi.current++

	return block, nil
}

// Done returns the end of chain value.
func (bi *boltIterator) Done() bool {
	return bi.eoc
}
