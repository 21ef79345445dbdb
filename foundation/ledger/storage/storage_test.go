package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/genesis"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage/boltdb"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage/disk"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Date:           time.Now().UTC(),
		Difficulty:     1,
		MiningReward:   10,
		ConversionRate: 0.001,
		SharePrice:     1000,
		Shares:         map[string]int{"Google": 0},
	}
}

func Test_Serializers(t *testing.T) {
	type table struct {
		name string
		strg func(t *testing.T) storage.Serializer
	}

	tt := []table{
		{
			name: "disk",
			strg: func(t *testing.T) storage.Serializer {
				s, err := disk.New(t.TempDir())
				if err != nil {
					t.Fatalf("\t%s\tShould be able to open the disk store: %v", failed, err)
				}
				return s
			},
		},
		{
			name: "memory",
			strg: func(t *testing.T) storage.Serializer {
				s, err := memory.New()
				if err != nil {
					t.Fatalf("\t%s\tShould be able to open the memory store: %v", failed, err)
				}
				return s
			},
		},
		{
			name: "boltdb",
			strg: func(t *testing.T) storage.Serializer {
				s, err := boltdb.New(filepath.Join(t.TempDir(), "blocks.db"))
				if err != nil {
					t.Fatalf("\t%s\tShould be able to open the bolt store: %v", failed, err)
				}
				return s
			},
		},
	}

	t.Log("Given the need to persist and restore the block sequence.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen using the %s store.", testID, tst.name)
				{
					strg := tst.strg(t)
					defer strg.Close()

					// Mine a couple of real blocks to store.
					c, err := chain.New(chain.Config{Genesis: testGenesis()})
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct a chain: %v", failed, testID, err)
					}
					c.Submit(chain.NewTx("bill", "pavel", 100, 0, chain.TxTypeTransfer))
					if _, err := c.MineNewBlock(context.Background(), "miner1"); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %v", failed, testID, err)
					}
					c.Submit(chain.NewTx("pavel", "cory", 25, 0, chain.TxTypeTransfer))
					if _, err := c.MineNewBlock(context.Background(), "miner1"); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %v", failed, testID, err)
					}

					blocks := c.QueryBlocksByNumber(0, chain.QueryLastest)
					for _, block := range blocks {
						if err := strg.Write(block); err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to write block %d: %v", failed, testID, block.Index, err)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to write the sequence.", success, testID)

					block, err := strg.GetBlock(1)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to read block 1 back: %v", failed, testID, err)
					}
					if block.Hash != blocks[1].Hash {
						t.Fatalf("\t%s\tTest %d:\tShould read back the same block 1.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould read back the same block 1.", success, testID)

					if _, err := strg.GetBlock(99); err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould get an error for a missing block.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get an error for a missing block.", success, testID)

					restored, err := storage.ReadAll(strg)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to read the sequence: %v", failed, testID, err)
					}
					if len(restored) != len(blocks) {
						t.Fatalf("\t%s\tTest %d:\tShould read %d blocks: got %d", failed, testID, len(blocks), len(restored))
					}
					t.Logf("\t%s\tTest %d:\tShould read the whole sequence back.", success, testID)

					c2, err := chain.New(chain.Config{Genesis: testGenesis(), Blocks: restored})
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould restore a chain from the store: %v", failed, testID, err)
					}
					if got, exp := c2.QueryBalance("pavel"), c.QueryBalance("pavel"); got != exp {
						t.Fatalf("\t%s\tTest %d:\tShould derive the same balances: got %v exp %v", failed, testID, got, exp)
					}
					t.Logf("\t%s\tTest %d:\tShould restore a chain that derives the same balances.", success, testID)

					if err := strg.Reset(); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to reset the store: %v", failed, testID, err)
					}
					empty, err := storage.ReadAll(strg)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to read after a reset: %v", failed, testID, err)
					}
					if len(empty) != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be empty after a reset: got %d", failed, testID, len(empty))
					}
					t.Logf("\t%s\tTest %d:\tShould be empty after a reset.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_MemoryOrder(t *testing.T) {
	t.Log("Given the need to keep the in-memory sequence gapless.")
	{
		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open the memory store: %v", failed, err)
		}

		block := chain.NewBlock(5, nil, "aabb")
		if err := strg.Write(block); err == nil {
			t.Fatalf("\t%s\tShould reject a block written out of order.", failed)
		}
		t.Logf("\t%s\tShould reject a block written out of order.", success)
	}
}
