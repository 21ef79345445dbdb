// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/datacoin-network/datacoin/app/services/node/handlers/v1/private"
	"github.com/datacoin-network/datacoin/app/services/node/handlers/v1/public"
	"github.com/datacoin-network/datacoin/business/core/converter"
	"github.com/datacoin-network/datacoin/foundation/events"
	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/worker"
	"github.com/datacoin-network/datacoin/foundation/nameservice"
	"github.com/datacoin-network/datacoin/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log       *zap.SugaredLogger
	Chain     *chain.Chain
	Worker    *worker.Worker
	Converter *converter.Converter
	NS        *nameservice.NameService
	Evts      *events.Events
	Verify    bool
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:       cfg.Log,
		Chain:     cfg.Chain,
		Worker:    cfg.Worker,
		Converter: cfg.Converter,
		NS:        cfg.NS,
		WS:        websocket.Upgrader{},
		Evts:      cfg.Evts,
		Verify:    cfg.Verify,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/stats", pbl.Stats)
	app.Handle(http.MethodGet, version, "/chain/validate", pbl.Validate)
	app.Handle(http.MethodGet, version, "/balances/list", pbl.Balances)
	app.Handle(http.MethodGet, version, "/balances/list/:account", pbl.Balances)
	app.Handle(http.MethodGet, version, "/blocks/list/:from/:to", pbl.BlocksByNumber)
	app.Handle(http.MethodGet, version, "/tx/pending/list", pbl.Pending)
	app.Handle(http.MethodGet, version, "/tx/pending/list/:account", pbl.Pending)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitWalletTransaction)
	app.Handle(http.MethodGet, version, "/mining/signal", pbl.SignalMining)
	app.Handle(http.MethodGet, version, "/shares/list", pbl.Shares)
	app.Handle(http.MethodPost, version, "/shares/buy", pbl.BuyShares)
	app.Handle(http.MethodGet, version, "/converter/sources/list", pbl.Sources)
	app.Handle(http.MethodPost, version, "/converter/sources/add", pbl.AddSource)
	app.Handle(http.MethodPost, version, "/converter/collect", pbl.Collect)
	app.Handle(http.MethodPost, version, "/converter/convert", pbl.Convert)
	app.Handle(http.MethodGet, version, "/converter/stats", pbl.ConverterStats)
	app.Handle(http.MethodPost, version, "/converter/auto/start", pbl.StartAutoConvert)
	app.Handle(http.MethodPost, version, "/converter/auto/stop", pbl.StopAutoConvert)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:    cfg.Log,
		Chain:  cfg.Chain,
		Worker: cfg.Worker,
		NS:     cfg.NS,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/block/list/:from/:to", prv.BlocksByNumber)
	app.Handle(http.MethodPost, version, "/node/mine", prv.Mine)
	app.Handle(http.MethodPost, version, "/node/shares/adjust", prv.AdjustShares)
	app.Handle(http.MethodPost, version, "/node/difficulty/adjust", prv.AdjustDifficulty)
}
