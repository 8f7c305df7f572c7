package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ValidateChain checks every block hash, every link between blocks, and
// every transfer signature. The first violation found is returned as a
// *database.ValidationError.
func (s *State) ValidateChain() error {
	s.evHandler("state: ValidateChain: started")
	defer s.evHandler("state: ValidateChain: completed")

	return database.ValidateChain(s.provider, s.RetrieveBlocks(), s.evHandler)
}

// IsChainValid reports whether ValidateChain succeeds.
func (s *State) IsChainValid() bool {
	return s.ValidateChain() == nil
}
