package chain_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
)

func Test_BlockHash(t *testing.T) {
	t.Log("Given the need to hash blocks deterministically.")
	{
		txs := []chain.Tx{
			chain.NewTx("bill", "pavel", 10, 0, chain.TxTypeTransfer),
			chain.NewTx("pavel", "cory", 5, 0, chain.TxTypeTransfer),
		}

		t.Logf("\tTest 0:\tWhen recomputing the hash of an untouched block.")
		{
			block := chain.NewBlock(1, txs, "aabb")
			if block.ComputeHash() != block.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould recompute to the stored hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould recompute to the stored hash.", success)

			if block.ComputeHash() != block.ComputeHash() {
				t.Fatalf("\t%s\tTest 0:\tShould produce the same hash twice.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould produce the same hash twice.", success)
		}

		t.Logf("\tTest 1:\tWhen a sealed field changes.")
		{
			block := chain.NewBlock(1, txs, "aabb")
			stored := block.Hash

			block.Transactions[0].Amount = 1000
			if block.ComputeHash() == stored {
				t.Fatalf("\t%s\tTest 1:\tShould hash differently after editing a transaction.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould hash differently after editing a transaction.", success)
		}

		t.Logf("\tTest 2:\tWhen the transaction order changes.")
		{
			block := chain.NewBlock(1, txs, "aabb")
			stored := block.Hash

			block.Transactions[0], block.Transactions[1] = block.Transactions[1], block.Transactions[0]
			if block.ComputeHash() == stored {
				t.Fatalf("\t%s\tTest 2:\tShould hash differently after reordering transactions.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould hash differently after reordering transactions.", success)
		}
	}
}

func Test_BlockMining(t *testing.T) {
	t.Log("Given the need to seal blocks with proof of work.")
	{
		for _, difficulty := range []uint{1, 2, 3, 4} {
			t.Logf("\tTest %d:\tWhen mining at difficulty %d.", difficulty-1, difficulty)
			{
				txs := []chain.Tx{chain.NewTx("bill", "pavel", 10, 0, chain.TxTypeTransfer)}
				block := chain.NewBlock(1, txs, "aabb")

				if err := block.Mine(context.Background(), difficulty); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %v", failed, difficulty-1, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, difficulty-1)

				if !strings.HasPrefix(block.Hash, strings.Repeat("0", int(difficulty))) {
					t.Fatalf("\t%s\tTest %d:\tShould carry %d leading zeros: got %s", failed, difficulty-1, difficulty, block.Hash)
				}
				t.Logf("\t%s\tTest %d:\tShould carry %d leading zeros.", success, difficulty-1, difficulty)

				if block.ComputeHash() != block.Hash {
					t.Fatalf("\t%s\tTest %d:\tShould keep the hash consistent with the nonce.", failed, difficulty-1)
				}
				t.Logf("\t%s\tTest %d:\tShould keep the hash consistent with the nonce.", success, difficulty-1)
			}
		}
	}
}

func Test_BlockMiningGuards(t *testing.T) {
	t.Log("Given the need to guard the proof of work search.")
	{
		t.Logf("\tTest 0:\tWhen the difficulty is out of range.")
		{
			block := chain.NewBlock(1, nil, "aabb")

			if err := block.Mine(context.Background(), 0); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject difficulty 0.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject difficulty 0.", success)

			if err := block.Mine(context.Background(), 65); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a difficulty past the hash length.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a difficulty past the hash length.", success)
		}

		t.Logf("\tTest 1:\tWhen the context is cancelled mid search.")
		{
			block := chain.NewBlock(1, nil, "aabb")

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			if err := block.Mine(ctx, 12); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould give up when the context expires.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould give up when the context expires.", success)
		}
	}
}
