package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/datacoin-network/datacoin/foundation/ledger/signature"
)

// zeroPrefix covers the maximum difficulty a sha256 hex hash supports.
const zeroPrefix = "0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Block is a batch of transactions sealed by proof of work and linked
// to its parent by hash.
type Block struct {
	Index        uint64 `json:"index"`
	Transactions []Tx   `json:"transactions"`
	PrevHash     string `json:"previous_hash"`
	TimeStamp    uint64 `json:"timestamp"`
	Nonce        uint64 `json:"nonce"`
	Hash         string `json:"hash"`
}

// blockContent is the canonical serialization a block hash is computed
// over. The stored hash itself is excluded, everything else, including
// the order of the transactions, is covered.
type blockContent struct {
	Index        uint64 `json:"index"`
	Transactions []Tx   `json:"transactions"`
	PrevHash     string `json:"previous_hash"`
	TimeStamp    uint64 `json:"timestamp"`
	Nonce        uint64 `json:"nonce"`
}

// NewBlock constructs a block for the transactions and computes its
// initial hash. The initial hash rarely meets any difficulty target;
// Mine searches for the nonce that does.
func NewBlock(index uint64, txs []Tx, prevHash string) Block {
	b := Block{
		Index:        index,
		Transactions: txs,
		PrevHash:     prevHash,
		TimeStamp:    uint64(time.Now().UTC().Unix()),
	}
	b.Hash = b.ComputeHash()

	return b
}

// clone returns a copy of the block whose transaction list shares no
// memory with the original. Handing out references would let a caller
// silently invalidate the sealed hashes.
func (b Block) clone() Block {
	txs := make([]Tx, len(b.Transactions))
	copy(txs, b.Transactions)
	b.Transactions = txs

	return b
}

// ComputeHash hashes the block contents. Recomputing the hash for a
// stored block and comparing it to the stored value is how tampering
// is detected.
func (b Block) ComputeHash() string {
	content := blockContent{
		Index:        b.Index,
		Transactions: b.Transactions,
		PrevHash:     b.PrevHash,
		TimeStamp:    b.TimeStamp,
		Nonce:        b.Nonce,
	}

	return signature.Hash(content)
}

// Mine performs the proof of work by incrementing the nonce and
// rehashing until the hash carries the required number of leading zero
// hex characters. The search runs until solved or until the context is
// cancelled; a cancelled block must be discarded, never appended.
func (b *Block) Mine(ctx context.Context, difficulty uint) error {
	if difficulty < 1 {
		return fmt.Errorf("difficulty must be at least 1, got %d", difficulty)
	}
	if difficulty > uint(len(zeroPrefix)) {
		return fmt.Errorf("difficulty %d exceeds the %d hex characters of a hash", difficulty, len(zeroPrefix))
	}

	for !isHashSolved(b.Hash, difficulty) {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.Nonce++
		b.Hash = b.ComputeHash()
	}

	// A solution found after cancellation is still discarded.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return nil
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules.
func isHashSolved(hash string, difficulty uint) bool {
	if difficulty > uint(len(zeroPrefix)) || uint(len(hash)) < difficulty {
		return false
	}

	return hash[:difficulty] == zeroPrefix[:difficulty]
}
