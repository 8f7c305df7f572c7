// Package stake maintains the stake held by participants and selects the
// miner of a block with probability proportional to stake.
package stake

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"maps"
	"math/big"
	"math/bits"
	"slices"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Set of errors returned by stake selection.
var (
	ErrNoStake       = errors.New("no participant holds stake")
	ErrStakeOverflow = errors.New("total stake overflows")
)

// Stakes manages the stake table of a chain.
type Stakes struct {
	stakes map[string]uint64
	mu     sync.RWMutex
}

// New constructs a stake table from the genesis stakes.
func New(genesis genesis.Genesis) *Stakes {
	s := Stakes{
		stakes: make(map[string]uint64),
	}

	for name, stake := range genesis.Stakes {
		s.stakes[name] = stake
	}

	return &s
}

// Update sets the stake for the participant. A participant with a zero
// stake stays in the table but is never selected. An update that would
// overflow the total stake is refused and the table is left unchanged.
func (s *Stakes) Update(name string, stake uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := stake
	for other, amount := range s.stakes {
		if other == name {
			continue
		}

		var carry uint64
		total, carry = bits.Add64(total, amount, 0)
		if carry != 0 {
			return fmt.Errorf("%w: name[%s]: stake[%d]", ErrStakeOverflow, name, stake)
		}
	}

	s.stakes[name] = stake

	return nil
}

// Copy makes a copy of the current stakes.
func (s *Stakes) Copy() map[string]uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.stakes)
}

// Total returns the sum of all stakes.
func (s *Stakes) Total() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.total()
}

// Select draws a uniform point in [1, total] using the random source and
// returns the participant owning that point.
func (s *Stakes) Select(r io.Reader) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total, err := s.total()
	if err != nil {
		return "", err
	}

	n, err := rand.Int(r, new(big.Int).SetUint64(total))
	if err != nil {
		return "", fmt.Errorf("drawing selection point: %w", err)
	}

	return s.pick(n.Uint64() + 1)
}

// Pick walks the participants in name order accumulating stake and returns
// the first one whose cumulative stake reaches the point. The point must be
// in the range [1, total].
func (s *Stakes) Pick(point uint64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pick(point)
}

// =============================================================================

func (s *Stakes) total() (uint64, error) {
	var total uint64
	for _, stake := range s.stakes {
		var carry uint64
		total, carry = bits.Add64(total, stake, 0)
		if carry != 0 {
			return 0, ErrStakeOverflow
		}
	}

	if total == 0 {
		return 0, ErrNoStake
	}

	return total, nil
}

func (s *Stakes) pick(point uint64) (string, error) {
	total, err := s.total()
	if err != nil {
		return "", err
	}

	if point == 0 || point > total {
		return "", fmt.Errorf("selection point %d outside of [1, %d]", point, total)
	}

	var current uint64
	for _, name := range slices.Sorted(maps.Keys(s.stakes)) {
		current += s.stakes[name]
		if current >= point {
			return name, nil
		}
	}

	return "", ErrNoStake
}
