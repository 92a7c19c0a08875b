// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/placecoin/placecoin/app/services/node/handlers/v1/public"
	"github.com/placecoin/placecoin/foundation/blockchain/state"
	"github.com/placecoin/placecoin/foundation/events"
	"github.com/placecoin/placecoin/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/accounts/balance/:address", pbl.Balance)
	app.Handle(http.MethodGet, version, "/outputs/list/:address", pbl.UnspentOutputs)
	app.Handle(http.MethodGet, version, "/blocks/list/:from/:to", pbl.BlocksByHeight)
	app.Handle(http.MethodGet, version, "/tx/uncommitted/list", pbl.Mempool)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/pixels/list", pbl.Canvas)
	app.Handle(http.MethodGet, version, "/pixels/cost/:address/:x/:y", pbl.PixelCost)
	app.Handle(http.MethodGet, version, "/mining/signal", pbl.SignalMining)
}
