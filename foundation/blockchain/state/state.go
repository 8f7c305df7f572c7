// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/blockchain/stake"
)

// Set of configuration errors returned by New.
var (
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 64")
	ErrInvalidInterval   = errors.New("difficulty adjustment interval must be positive")
	ErrInvalidBlockTime  = errors.New("expected block time must be positive")
	ErrMissingProvider   = errors.New("signature provider is required")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// MineResult is delivered by a worker when a requested block has been mined
// or the request failed.
type MineResult struct {
	Block database.Block
	Err   error
}

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining blocks in the background.
type Worker interface {
	Shutdown()
	SignalMineBlock(trans []database.Tx) <-chan MineResult
	SignalCancelMining() (done func())
}

// =============================================================================

// Config represents the configuration required to start a chain.
type Config struct {
	Genesis   genesis.Genesis
	Provider  signature.Provider
	Rand      io.Reader        // Source used to select miners, crypto/rand when nil.
	Now       func() time.Time // Clock used to timestamp blocks, time.Now when nil.
	EvHandler EventHandler
}

// State manages the chain of blocks.
type State struct {
	writeMu sync.Mutex
	mu      sync.RWMutex

	genesis   genesis.Genesis
	provider  signature.Provider
	rand      io.Reader
	now       func() time.Time
	evHandler EventHandler

	blocks     []database.Block
	difficulty uint
	stakes     *stake.Stakes

	Worker Worker
}

// New constructs a new chain holding only the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := validateGenesis(cfg.Genesis); err != nil {
		return nil, fmt.Errorf("validating genesis: %w", err)
	}

	if cfg.Provider == nil {
		return nil, ErrMissingProvider
	}

	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.Reader
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	// The genesis block is not mined, its hash is accepted as is.
	genesisBlock := database.NewGenesisBlock(now())
	ev("state: New: genesis: blk[%d]: hash[%s]", genesisBlock.Number, genesisBlock.Hash)

	state := State{
		genesis:   cfg.Genesis,
		provider:  cfg.Provider,
		rand:      rnd,
		now:       now,
		evHandler: ev,

		blocks:     []database.Block{genesisBlock},
		difficulty: cfg.Genesis.Difficulty,
		stakes:     stake.New(cfg.Genesis),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the chain.

	return &state, nil
}

// Shutdown cleanly brings the chain down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all mining activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// validateGenesis checks the genesis values that configure the chain.
func validateGenesis(gen genesis.Genesis) error {
	if gen.Difficulty < 1 || gen.Difficulty > database.MaxDifficulty {
		return ErrInvalidDifficulty
	}

	if gen.AdjustInterval < 1 {
		return ErrInvalidInterval
	}

	if gen.BlockSeconds < 1 {
		return ErrInvalidBlockTime
	}

	return nil
}
