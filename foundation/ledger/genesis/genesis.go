// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Genesis represents the genesis file, which holds the governance values
// the chain starts with. Difficulty, reward, and the share counters can
// drift from these values at runtime; the conversion rate and the share
// price are fixed for the life of the chain.
type Genesis struct {
	Date           time.Time      `json:"date"`
	Difficulty     uint           `json:"difficulty"`      // How many leading zero hex characters a block hash needs.
	MiningReward   float64        `json:"mining_reward"`   // Coins paid for mining a block.
	ConversionRate float64        `json:"conversion_rate"` // Coins minted per MB of converted data.
	SharePrice     float64        `json:"share_price"`     // Coins per corporate share.
	Shares         map[string]int `json:"corporate_shares"`
}

// Default returns the stock governance values used when no genesis
// file is provided.
func Default() Genesis {
	return Genesis{
		Date:           time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
		Difficulty:     4,
		MiningReward:   10,
		ConversionRate: 0.001,
		SharePrice:     1000,
		Shares: map[string]int{
			"Google":        0,
			"Microsoft":     0,
			"NBC Universal": 0,
		},
	}
}

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("unable to read genesis file: %w", err)
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("unable to decode genesis file: %w", err)
	}

	return genesis, nil
}

// Save writes the genesis values to the specified path.
func Save(path string, genesis Genesis) error {
	data, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("unable to write genesis file: %w", err)
	}

	return nil
}
