package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/genesis"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage/memory"
	"github.com/datacoin-network/datacoin/foundation/ledger/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Worker(t *testing.T) {
	t.Log("Given the need to mine in the background and snapshot blocks.")
	{
		gen := genesis.Genesis{
			Date:           time.Now().UTC(),
			Difficulty:     1,
			MiningReward:   10,
			ConversionRate: 0.001,
			SharePrice:     1000,
			Shares:         map[string]int{"Google": 0},
		}

		c, err := chain.New(chain.Config{Genesis: gen})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a chain: %v", failed, err)
		}

		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open the memory store: %v", failed, err)
		}

		// A fresh chain snapshots its genesis block before mining starts.
		if err := strg.Write(c.RetrieveLatestBlock()); err != nil {
			t.Fatalf("\t%s\tShould be able to snapshot the genesis block: %v", failed, err)
		}

		w := worker.Run(worker.Config{
			Chain:       c,
			Storage:     strg,
			Beneficiary: "miner1",
		})
		defer w.Shutdown()

		t.Logf("\tTest 0:\tWhen signaling a mining round.")
		{
			c.Submit(chain.NewTx("bill", "pavel", 10, 0, chain.TxTypeTransfer))
			w.SignalStartMining()

			deadline := time.Now().Add(10 * time.Second)
			for c.RetrieveLatestBlock().Index < 1 {
				if time.Now().After(deadline) {
					t.Fatalf("\t%s\tTest 0:\tShould seal a block before the deadline.", failed)
				}
				time.Sleep(10 * time.Millisecond)
			}
			t.Logf("\t%s\tTest 0:\tShould seal a block before the deadline.", success)

			// The snapshot write happens inside the same mining round.
			deadline = time.Now().Add(10 * time.Second)
			for {
				if _, err := strg.GetBlock(1); err == nil {
					break
				}
				if time.Now().After(deadline) {
					t.Fatalf("\t%s\tTest 0:\tShould snapshot the sealed block.", failed)
				}
				time.Sleep(10 * time.Millisecond)
			}
			t.Logf("\t%s\tTest 0:\tShould snapshot the sealed block.", success)

			if got := c.QueryBalance("miner1"); got != gen.MiningReward {
				t.Fatalf("\t%s\tTest 0:\tShould pay the worker's beneficiary: got %v", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould pay the worker's beneficiary.", success)
		}

		t.Logf("\tTest 1:\tWhen mining synchronously for another account.")
		{
			c.Submit(chain.NewTx("pavel", "cory", 5, 0, chain.TxTypeTransfer))

			block, err := w.MineNow(context.Background(), "miner2")
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine on demand: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to mine on demand.", success)

			if block.Transactions[len(block.Transactions)-1].Recipient != "miner2" {
				t.Fatalf("\t%s\tTest 1:\tShould pay the requested beneficiary.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould pay the requested beneficiary.", success)

			if _, err := strg.GetBlock(block.Index); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould snapshot the on demand block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould snapshot the on demand block.", success)
		}

		t.Logf("\tTest 2:\tWhen restoring from the snapshot.")
		{
			blocks, err := storage.ReadAll(strg)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould read the snapshot: %v", failed, err)
			}

			restored, err := chain.New(chain.Config{Genesis: gen, Blocks: blocks})
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould restore from the snapshot: %v", failed, err)
			}

			if got, exp := restored.QueryBalance("miner1"), c.QueryBalance("miner1"); got != exp {
				t.Fatalf("\t%s\tTest 2:\tShould derive the same balances: got %v exp %v", failed, got, exp)
			}
			t.Logf("\t%s\tTest 2:\tShould restore from the snapshot with the same balances.", success)
		}
	}
}
