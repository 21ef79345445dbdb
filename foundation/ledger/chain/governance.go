package chain

// corporateAccount is the ledger account that receives the payment for
// an entity's shares.
func corporateAccount(entity string) string {
	return "corporate_" + entity
}

// AdjustShares moves the holdings for a known entity by delta, which
// may be negative. Unknown entities and adjustments that would leave
// negative holdings are rejected.
func (c *Chain) AdjustShares(entity string, delta int) bool {
	c.mu.Lock()
	current, exists := c.shares[entity]
	ok := exists && current+delta >= 0
	if ok {
		c.shares[entity] = current + delta
	}
	c.mu.Unlock()

	if !ok {
		c.evHandler("chain: adjust shares: entity[%s] delta[%d]: rejected", entity, delta)
		return false
	}

	c.evHandler("chain: adjust shares: entity[%s] delta[%d]: holdings[%d]", entity, delta, current+delta)

	return true
}

// BuyShares exchanges coins for holdings in one of the corporate
// entities. The payment is queued as a share purchase transaction and
// the holdings take effect immediately. The purchase is rejected when
// the entity is unknown or the buyer's derived balance cannot cover the
// cost at the genesis share price.
func (c *Chain) BuyShares(entity string, count int, buyer string) bool {
	c.mu.RLock()
	_, exists := c.shares[entity]
	c.mu.RUnlock()

	if !exists {
		c.evHandler("chain: buy shares: entity[%s]: unknown entity", entity)
		return false
	}

	cost := float64(count) * c.genesis.SharePrice
	if c.QueryBalance(buyer) < cost {
		c.evHandler("chain: buy shares: entity[%s] buyer[%s]: insufficient balance for %.2f", entity, buyer, cost)
		return false
	}

	tx := NewTx(buyer, corporateAccount(entity), cost, float64(count), TxTypeSharePurchase)
	if !c.Submit(tx) {
		return false
	}

	c.mu.Lock()
	c.shares[entity] += count
	holdings := c.shares[entity]
	c.mu.Unlock()

	c.evHandler("chain: buy shares: entity[%s] buyer[%s] count[%d]: holdings[%d]", entity, buyer, count, holdings)

	return true
}

// AdjustDifficulty runs the configured policy against the current share
// total and installs the result as the difficulty for the next mining
// rounds. It returns the difficulty before and after the move. Blocks
// already sealed keep whatever difficulty they were mined at.
func (c *Chain) AdjustDifficulty() (before uint, after uint) {
	c.mu.Lock()
	var total int
	for _, holdings := range c.shares {
		total += holdings
	}
	before = c.difficulty
	after = c.policyFn(total, before)
	c.difficulty = after
	c.mu.Unlock()

	c.evHandler("chain: adjust difficulty: shares[%d] difficulty[%d -> %d]", total, before, after)

	return before, after
}
