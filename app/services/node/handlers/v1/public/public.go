// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide chain events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID, "viewer:")
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Blocks returns the chain. An identity query parameter narrows the list to
// the blocks holding a transaction for that identity.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var blocks []database.Block

	switch id := r.URL.Query().Get("identity"); id {
	case "":
		blocks = h.State.RetrieveBlocks()
	default:
		blocks = h.State.QueryBlocksByIdentity(id)
	}

	return web.Respond(ctx, w, toBlocks(h.NS, blocks), http.StatusOK)
}

// BlockByNumber returns a single block. The number latest returns the tip.
func (h Handlers) BlockByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	param := web.Param(r, "number")

	number := state.QueryLatest
	if param != "latest" {
		var err error
		number, err = strconv.ParseUint(param, 10, 64)
		if err != nil {
			return errs.NewTrusted(fmt.Errorf("invalid block number %q", param), http.StatusBadRequest)
		}
	}

	blk, err := h.State.QueryBlock(number)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, toBlock(h.NS, blk), http.StatusOK)
}

// ValidateChain checks the integrity of the chain and reports the first
// violation found.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toValidation(h.State.ValidateChain()), http.StatusOK)
}

// Stakes returns the stake held by every participant in name order.
func (h Handlers) Stakes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	table := h.State.RetrieveStakes()

	stakes := make([]stake, 0, len(table))
	for name, amount := range table {
		stakes = append(stakes, stake{Name: name, Stake: amount})
	}
	sort.Slice(stakes, func(i, j int) bool { return stakes[i].Name < stakes[j].Name })

	return web.Respond(ctx, w, stakes, http.StatusOK)
}

// UpdateStake changes the stake held by a participant. Blocks mined after
// the update use the new table.
func (h Handlers) UpdateStake(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var us UpdateStake
	if err := web.Decode(r, &us); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := h.State.UpdateStake(us.Name, us.Stake); err != nil {
		return errs.FromLedger(err)
	}

	return h.Stakes(ctx, w, r)
}

// Difficulty returns the difficulty the next block will be mined at.
func (h Handlers) Difficulty(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := difficulty{
		Difficulty:  h.State.RetrieveDifficulty(),
		LatestBlock: h.State.RetrieveLatestBlock().Number,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransactions mines a batch of signed transfers into a new block.
func (h Handlers) SubmitTransactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req SubmitRequest
	if err := web.Decode(r, &req); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	trans := make([]database.Tx, len(req.Transactions))
	for i, st := range req.Transactions {
		tx, err := toDatabaseTx(h.State.RetrieveProvider(), st)
		if err != nil {
			return err
		}
		trans[i] = tx
	}

	h.Log.Infow("submit transactions", "traceid", v.TraceID, "Txs", len(trans))

	select {
	case res := <-h.State.SubmitBlock(trans):
		if res.Err != nil {
			return errs.FromLedger(res.Err)
		}

		metrics.SetChain(res.Block.Number, h.State.RetrieveDifficulty())

		return web.Respond(ctx, w, toBlock(h.NS, res.Block), http.StatusCreated)

	case <-ctx.Done():
		return errs.NewTrusted(errors.New("block still being mined"), http.StatusAccepted)
	}
}
