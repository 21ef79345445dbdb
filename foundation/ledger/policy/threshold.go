package policy

// Bounds the share threshold policy keeps the difficulty inside.
const (
	minDifficulty = 2
	maxDifficulty = 6
)

// Share totals that trigger an adjustment. Heavy corporate participation
// makes mining easier, light participation makes it harder.
const (
	highShareMark = 1000
	lowShareMark  = 100
)

// shareThresholdPolicy moves the difficulty one step at a time based on
// the total number of corporate shares held. Totals between the marks
// leave the difficulty alone. The result is clamped to the bounds even
// when the current difficulty started outside them.
func shareThresholdPolicy(totalShares int, difficulty uint) uint {
	switch {
	case totalShares > highShareMark:
		d := int(difficulty) - 1
		if d < minDifficulty {
			d = minDifficulty
		}
		return uint(d)

	case totalShares < lowShareMark:
		d := int(difficulty) + 1
		if d > maxDifficulty {
			d = maxDifficulty
		}
		return uint(d)
	}

	return difficulty
}

// fixedPolicy never changes the difficulty. Useful for test networks
// and benchmarking where a stable proof of work cost is needed.
func fixedPolicy(totalShares int, difficulty uint) uint {
	return difficulty
}
