package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// UpdateStake sets the stake held by a participant. A zero stake keeps the
// participant in the table but it will never be selected to mine. A stake
// that would overflow the total is refused with stake.ErrStakeOverflow.
func (s *State) UpdateStake(name string, stake uint64) error {
	s.evHandler("state: UpdateStake: name[%s]: stake[%d]", name, stake)

	if err := s.stakes.Update(name, stake); err != nil {
		return fmt.Errorf("updating stake: %w", err)
	}

	return nil
}

// SubmitBlock queues the transactions with the worker so a new block is
// mined in the background. The result is delivered on the returned channel.
func (s *State) SubmitBlock(trans []database.Tx) <-chan MineResult {
	return s.Worker.SignalMineBlock(trans)
}
