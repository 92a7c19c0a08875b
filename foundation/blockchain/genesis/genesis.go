// Package genesis maintains access to the genesis file and the protocol
// parameters it freezes for the life of the chain.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Genesis represents the genesis file. These values seed a new chain and
// must never change once the first block has been mined.
type Genesis struct {
	Date           time.Time `json:"date"`            // Timestamp of the genesis block; fixed so the genesis hash is stable.
	ChainID        uint16    `json:"chain_id"`        // Unique id for this running chain instance.
	Difficulty     int       `json:"difficulty"`      // Leading zero bytes a proof digest must open with.
	BaseReward     int64     `json:"base_reward"`     // Subsidy minted by every block on top of transaction slack.
	RewardMaturity uint64    `json:"reward_maturity"` // Blocks that must pass before a reward output may be spent.
}

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("parsing genesis file: %w", err)
	}

	return genesis, nil
}
