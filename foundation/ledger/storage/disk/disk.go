// Package disk implements block snapshot storage using a traditional
// file system, one JSON file per block.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage"
)

// Disk manages storage of blocks as individual files on disk.
type Disk struct {
	dbPath string
}

// New constructs a Disk value for use, creating the snapshot directory
// if it does not exist yet.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since blocks are
// written to disk in individual files.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified block and stores it on disk in a file
// labeled with the block index. The file is readable by humans.
func (d *Disk) Write(block chain.Block) error {
	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(d.getPath(block.Index), os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}

// GetBlock searches the snapshot directory for the specified block.
func (d *Disk) GetBlock(index uint64) (chain.Block, error) {
	f, err := os.OpenFile(d.getPath(index), os.O_RDONLY, 0600)
	if err != nil {
		return chain.Block{}, err
	}
	defer f.Close()

	var block chain.Block
	if err := json.NewDecoder(f).Decode(&block); err != nil {
		return chain.Block{}, err
	}

	return block, nil
}

// ForEach returns an iterator to walk through all the blocks on disk
// starting with the genesis block.
func (d *Disk) ForEach() storage.Iterator {
	return &diskIterator{storage: d}
}

// Reset removes every stored block and starts the snapshot over.
func (d *Disk) Reset() error {
	if err := os.RemoveAll(d.dbPath); err != nil {
		return err
	}

	return os.MkdirAll(d.dbPath, 0755)
}

// getPath forms the path to the specified block file.
func (d *Disk) getPath(index uint64) string {
	name := strconv.FormatUint(index, 10)
	return path.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// diskIterator represents the iteration implementation for walking
// through and reading blocks on disk.
type diskIterator struct {
	storage *Disk  // Access to the Disk storage API.
	current uint64 // Current block index being iterated over.
	eoc     bool   // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from disk. A missing file marks the end
// of the chain, any other failure is reported to the caller.
func (di *diskIterator) Next() (chain.Block, error) {
	if di.eoc {
		return chain.Block{}, errors.New("end of chain")
	}

	block, err := di.storage.GetBlock(di.current)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			di.eoc = true
			return chain.Block{}, nil
		}
		return chain.Block{}, err
	}

	di.current++

	return block, nil
}

// Done returns the end of chain value.
func (di *diskIterator) Done() bool {
	return di.eoc
}
