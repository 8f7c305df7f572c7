package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case req := <-w.requests:
			if w.isShutdown() {
				req.result <- state.MineResult{Err: ErrShutdown}
				continue
			}
			w.runMiningOperation(req)

		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			w.drainRequests()
			return
		}
	}
}

// drainRequests fails every request left in the queue.
func (w *Worker) drainRequests() {
	for {
		select {
		case req := <-w.requests:
			req.result <- state.MineResult{Err: ErrShutdown}
		default:
			return
		}
	}
}

// runMiningOperation mines the requested transactions into a new block and
// delivers the outcome to the requester.
func (w *Worker) runMiningOperation(req request) {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// If mining is signalled to be cancelled, this G can't terminate until
	// it is told it can.
	var wait chan struct{}
	defer func() {
		if wait != nil {
			w.evHandler("worker: runMiningOperation: MINING: termination signal: waiting")
			<-wait
			w.evHandler("worker: runMiningOperation: MINING: termination signal: received")
		}
	}()

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.evHandler("worker: runMiningOperation: MINING: perform mining: Txs[%d]", len(req.trans))

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case wait = <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
		case <-w.shut:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: shutdown")
		case <-ctx.Done():
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		block, err := w.state.AddBlock(ctx, req.trans)
		duration := time.Since(t)

		w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

		if err != nil {
			switch {
			case ctx.Err() != nil:
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
			default:
				w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
			}

			req.result <- state.MineResult{Err: err}
			return
		}

		if w.autoRetarget {
			if difficulty, adjusted := w.state.AdjustDifficulty(); adjusted {
				w.evHandler("viewer: difficulty: blk[%d]: difficulty[%d]", block.Number, difficulty)
			}
		}

		req.result <- state.MineResult{Block: block}
	}()

	// Wait for both G's to terminate.
	wg.Wait()
}
