package chain

import (
	"context"
	"time"
)

// MineNewBlock gathers the queued transactions plus a mining reward for
// the beneficiary into a candidate block and performs the proof of work.
// The queue is only touched under the lock to snapshot it; the search
// itself runs unlocked, so transactions submitted while mining keep
// queueing and wait for a later block. Cancelling the context abandons
// the candidate and takes the reward back out of the queue.
func (c *Chain) MineNewBlock(ctx context.Context, beneficiary string) (Block, error) {

	// One round at a time. A second caller lines up here instead of
	// racing to extend the same parent.
	c.mineMu.Lock()
	defer c.mineMu.Unlock()

	reward := NewTx(SystemAccount, beneficiary, c.genesis.MiningReward, 0, TxTypeMiningReward)

	c.mu.Lock()
	c.pending = append(c.pending, reward)
	snapshot := make([]Tx, len(c.pending))
	copy(snapshot, c.pending)
	parent := c.blocks[len(c.blocks)-1]
	difficulty := c.difficulty
	c.mu.Unlock()

	block := NewBlock(parent.Index+1, snapshot, parent.Hash)

	c.evHandler("chain: mine: block[%d] txs[%d] difficulty[%d]: started", block.Index, len(snapshot), difficulty)

	t := time.Now()
	if err := block.Mine(ctx, difficulty); err != nil {
		c.removePending(reward.ID)
		c.evHandler("chain: mine: block[%d]: abandoned: %s", block.Index, err)
		return Block{}, err
	}

	// Append the sealed block and drop exactly the mined snapshot from
	// the queue. Anything submitted during the search sits past the
	// snapshot length and stays.
	c.mu.Lock()
	c.blocks = append(c.blocks, block)
	c.pending = append([]Tx{}, c.pending[len(snapshot):]...)
	c.mu.Unlock()

	c.evHandler("chain: mine: block[%d] nonce[%d] duration[%v]: sealed", block.Index, block.Nonce, time.Since(t))

	return block.clone(), nil
}
