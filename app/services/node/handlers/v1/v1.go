// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/ledger/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	cors := mid.Cors("*")

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis, cors)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.Blocks, cors)
	app.Handle(http.MethodGet, version, "/blocks/:number", pbl.BlockByNumber, cors)
	app.Handle(http.MethodGet, version, "/chain/validate", pbl.ValidateChain, cors)
	app.Handle(http.MethodGet, version, "/stakes/list", pbl.Stakes, cors)
	app.Handle(http.MethodPost, version, "/stakes/update", pbl.UpdateStake, cors)
	app.Handle(http.MethodGet, version, "/difficulty", pbl.Difficulty, cors)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransactions, cors)
}
