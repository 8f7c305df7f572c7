// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date           time.Time         `json:"date"`
	ChainID        uint16            `json:"chain_id"`        // The chain id represents an unique id for this running instance.
	Difficulty     uint              `json:"difficulty"`      // How difficult it needs to be to solve the work problem.
	AdjustInterval uint64            `json:"adjust_interval"` // Number of blocks between difficulty retarget checks.
	BlockSeconds   uint64            `json:"block_seconds"`   // Expected number of seconds to mine a block.
	MiningReward   uint64            `json:"mining_reward"`   // Reward for mining a block.
	Stakes         map[string]uint64 `json:"stakes"`          // Stake held by each miner.
}

// Default returns the genesis information used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:           time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:        1,
		Difficulty:     2,
		AdjustInterval: 5,
		BlockSeconds:   10,
		MiningReward:   1,
		Stakes: map[string]uint64{
			"Node1": 1,
			"Node2": 2,
		},
	}
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
