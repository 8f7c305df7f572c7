// Package worker implements background mining for the ledger. Batches of
// transactions are queued and mined into blocks one at a time.
package worker

import (
	"errors"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// DefaultQueueDepth represents the max number of pending mining requests
// that can be outstanding before new requests are rejected.
const DefaultQueueDepth = 100

// Set of errors delivered as mining results.
var (
	ErrQueueFull = errors.New("mining queue is full")
	ErrShutdown  = errors.New("worker is shutting down")
)

// =============================================================================

// Config represents the configuration for the worker.
type Config struct {
	QueueDepth   int
	AutoRetarget bool // Retarget the difficulty after every mined block.
	EvHandler    state.EventHandler
}

// request represents a batch of transactions waiting to be mined.
type request struct {
	trans  []database.Tx
	result chan state.MineResult
}

// Worker manages the mining workflow for a chain.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	mu           sync.RWMutex
	closed       bool
	shut         chan struct{}
	requests     chan request
	cancelMining chan chan struct{}
	autoRetarget bool
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config) *Worker {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = DefaultQueueDepth
	}

	w := Worker{
		state:        st,
		shut:         make(chan struct{}),
		requests:     make(chan request, depth),
		cancelMining: make(chan chan struct{}, 1),
		autoRetarget: cfg.AutoRetarget,
		evHandler:    ev,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.miningOperations()
	}()

	<-hasStarted

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work. Requests still in the
// queue receive ErrShutdown.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.mu.Lock()
	alreadyClosed := w.closed
	w.closed = true
	w.mu.Unlock()

	if alreadyClosed {
		return
	}

	w.evHandler("worker: shutdown: signal cancel mining")
	done := w.SignalCancelMining()
	done()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalMineBlock queues the transactions to be mined into a new block. The
// outcome is delivered on the returned channel exactly once.
func (w *Worker) SignalMineBlock(trans []database.Tx) <-chan state.MineResult {
	result := make(chan state.MineResult, 1)

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		result <- state.MineResult{Err: ErrShutdown}
		return result
	}

	select {
	case w.requests <- request{trans: trans, result: result}:
		w.evHandler("worker: SignalMineBlock: mining signaled: Txs[%d]", len(trans))
	default:
		w.evHandler("worker: SignalMineBlock: queue full, block won't be mined")
		result <- state.MineResult{Err: ErrQueueFull}
	}

	return result
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately. That G will not return from the function until done
// is called. This allows the caller to complete any state changes before a
// new mining operation takes place.
func (w *Worker) SignalCancelMining() (done func()) {
	wait := make(chan struct{})

	select {
	case w.cancelMining <- wait:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")

	return func() { close(wait) }
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
