package state

import (
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrBlockNotFound is returned when a block number is past the latest block.
var ErrBlockNotFound = errors.New("block not found")

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// QueryBlock returns the block with the specified number.
func (s *State) QueryBlock(number uint64) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if number == QueryLatest {
		return s.blocks[len(s.blocks)-1], nil
	}

	if number >= uint64(len(s.blocks)) {
		return database.Block{}, ErrBlockNotFound
	}

	return s.blocks[number], nil
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := uint64(len(s.blocks) - 1)
	if from == QueryLatest {
		from = latest
	}
	if to == QueryLatest || to > latest {
		to = latest
	}

	var out []database.Block
	for i := from; i <= to; i++ {
		out = append(out, s.blocks[i])
	}

	return out
}

// QueryBlocksByIdentity returns the set of blocks holding a transaction
// sent or received by the identity.
func (s *State) QueryBlocksByIdentity(id string) []database.Block {
	var out []database.Block

	for _, block := range s.RetrieveBlocks() {
		for _, tx := range block.Trans {
			if tx.From.String() == id || tx.To.String() == id {
				out = append(out, block)
				break
			}
		}
	}

	return out
}
