// Package policy provides the strategies used to adjust the mining
// difficulty from the governance state of the chain.
package policy

import "fmt"

// List of supported policies.
const (
	StrategyShareThreshold = "ShareThreshold"
	StrategyFixed          = "Fixed"
)

// Func defines a function that takes the current share total and mining
// difficulty and returns the difficulty to use from now on. Policies
// must be pure so repeated calls with the same inputs agree.
type Func func(totalShares int, difficulty uint) uint

// strategies holds the set of registered policies.
var strategies = map[string]Func{
	StrategyShareThreshold: shareThresholdPolicy,
	StrategyFixed:          fixedPolicy,
}

// Retrieve returns the specified difficulty policy.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}
