package state

import (
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// AdjustDifficulty retargets the difficulty every adjust interval blocks.
// The time between the latest block and the block an interval back is
// compared to the expected time for that many blocks. A chain that is too
// fast gets one more leading zero, otherwise it loses one, never going
// below 1. It returns the current difficulty and whether a retarget check
// took place. Callers invoke it after a block is added.
func (s *State) AdjustDifficulty() (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interval := s.genesis.AdjustInterval
	length := uint64(len(s.blocks))

	if length%interval != 0 {
		return s.difficulty, false
	}

	latestBlock := s.blocks[length-1]
	prevAdjustmentBlock := s.blocks[length-interval]

	var taken time.Duration
	if latestBlock.TimeStamp > prevAdjustmentBlock.TimeStamp {
		taken = time.Duration(latestBlock.TimeStamp-prevAdjustmentBlock.TimeStamp) * time.Millisecond
	}
	expected := time.Duration(s.genesis.BlockSeconds*interval) * time.Second

	switch {
	case taken < expected:
		if s.difficulty < database.MaxDifficulty {
			s.difficulty++
		}
	case s.difficulty > 1:
		s.difficulty--
	}

	s.evHandler("state: AdjustDifficulty: taken[%v]: expected[%v]: difficulty[%d]", taken, expected, s.difficulty)

	return s.difficulty, true
}
