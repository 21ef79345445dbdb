package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation takes all the transactions from the queue and seals
// a new block into the chain.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// Make sure there are transactions in the queue.
	length := w.chain.QueryPendingLength()
	if length == 0 {
		w.evHandler("worker: runMiningOperation: MINING: no transactions to mine: Txs[%d]", length)
		return
	}

	// After running a mining operation, check if a new operation should
	// be signaled again.
	defer func() {
		length := w.chain.QueryPendingLength()
		if length > 0 {
			w.evHandler("worker: runMiningOperation: MINING: signal new mining operation: Txs[%d]", length)
			w.SignalStartMining()
		}
	}()

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
		case <-ctx.Done():
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		if _, err := w.mineAndPersist(ctx, w.beneficiary); err != nil {
			switch {
			case errors.Is(err, context.Canceled):
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: completed")
			default:
				w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
			}
		}
	}()

	// Wait for both G's to terminate.
	wg.Wait()
}

// mineAndPersist runs one mining round and snapshots the sealed block.
// Ticker rounds, signaled rounds, and MineNow calls all pass through
// here so the snapshot receives blocks in index order.
func (w *Worker) mineAndPersist(ctx context.Context, beneficiary string) (chain.Block, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	block, err := w.chain.MineNewBlock(ctx, beneficiary)
	if err != nil {
		return chain.Block{}, err
	}

	// The block is part of the chain either way; a failed snapshot only
	// costs durability, so report it and keep going.
	if err := w.storage.Write(block); err != nil {
		w.evHandler("worker: mineAndPersist: block[%d]: snapshot failed: %s", block.Index, err)
	}

	return block, nil
}

// MineNow runs a mining round synchronously for the beneficiary and
// returns the sealed block. It lines up behind any round already in
// flight. An empty beneficiary mines for the worker's own account.
func (w *Worker) MineNow(ctx context.Context, beneficiary string) (chain.Block, error) {
	if beneficiary == "" {
		beneficiary = w.beneficiary
	}

	return w.mineAndPersist(ctx, beneficiary)
}
