// Package public maintains the group of handlers for public node access.
package public

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/placecoin/placecoin/business/sys/validate"
	"github.com/placecoin/placecoin/business/web/errs"
	"github.com/placecoin/placecoin/foundation/blockchain/address"
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/state"
	"github.com/placecoin/placecoin/foundation/events"
	"github.com/placecoin/placecoin/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide ledger events to a client. The
// canvas viewer repaints pixels from this stream.
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

	ch := h.Evts.Acquire(v.TraceID)
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

// SubmitTransaction adds a new signed transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var app newTx
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(app); err != nil {
		return err
	}

	dbTx := toDatabaseTx(app)

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", dbTx)
	if err := h.State.SubmitTransaction(dbTx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}{
		Status: "transaction added to mempool",
		Hash:   dbTx.Hash().String(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.RetrieveMempool()

	trans := make([]tx, len(mempool))
	for i, dbTx := range mempool {
		trans[i] = toTx(dbTx)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Balance returns the sum of the unspent outputs owned by an address.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr := address.Parse(web.Param(r, "address"))

	publicKeyHash, err := addr.PublicKeyHash()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	bal := balance{
		Address:     addr.String(),
		Balance:     h.State.QueryBalance(publicKeyHash),
		LatestBlock: h.State.RetrieveLatestBlock().Hash().String(),
		Uncommitted: h.State.QueryMempoolLength(),
	}

	return web.Respond(ctx, w, bal, http.StatusOK)
}

// UnspentOutputs returns the unspent outputs owned by an address. A wallet
// funds and signs its transactions from this set.
func (h Handlers) UnspentOutputs(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr := address.Parse(web.Param(r, "address"))

	publicKeyHash, err := addr.PublicKeyHash()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	unspents := h.State.QueryUnspentByAddress(publicKeyHash)

	outs := make([]unspent, len(unspents))
	for i, uo := range unspents {
		outs[i] = unspent{
			TxHash:   uo.Tx.Hash().String(),
			Index:    uo.Index,
			Value:    uo.Output.Value,
			LockTime: uo.Tx.LockTime,
		}
	}

	return web.Respond(ctx, w, outs, http.StatusOK)
}

// BlocksByHeight returns the blocks in the specified inclusive range.
func (h Handlers) BlocksByHeight(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fromStr := web.Param(r, "from")
	if fromStr == "latest" || fromStr == "" {
		latest := h.State.QueryHeight()
		fromStr = strconv.FormatUint(latest, 10)
	}

	toStr := web.Param(r, "to")
	if toStr == "latest" || toStr == "" {
		toStr = fromStr
	}

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	dbBlocks := h.State.QueryBlocksByHeight(from, to)
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, dbBlock := range dbBlocks {
		blocks[i] = toBlock(dbBlock)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Canvas returns the current owner, color, and last sale price of every
// purchased pixel.
func (h Handlers) Canvas(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pixels := h.State.QueryCanvas()

	view := make([]pixel, len(pixels))
	for i, px := range pixels {
		view[i] = pixel{
			Position: px.Position,
			Color:    px.Color,
			Owner:    px.Owner.String(),
			Value:    px.Value,
			Height:   px.Height,
		}
	}

	return web.Respond(ctx, w, view, http.StatusOK)
}

// PixelCost prices a pixel for the specified buyer at the current height.
func (h Handlers) PixelCost(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr := address.Parse(web.Param(r, "address"))

	publicKeyHash, err := addr.PublicKeyHash()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	x, err := strconv.ParseInt(web.Param(r, "x"), 10, 32)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	y, err := strconv.ParseInt(web.Param(r, "y"), 10, 32)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	position := database.Point{X: int32(x), Y: int32(y)}

	cost := pixelCost{
		Position: position,
		Cost:     h.State.QueryPixelCost(publicKeyHash, position),
		Height:   h.State.QueryHeight(),
	}

	return web.Respond(ctx, w, cost, http.StatusOK)
}

// SignalMining signals the node to mine the pending pool into a block.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.Worker.SignalStartMining()

	resp := []string{"mining signalled"}
	return web.Respond(ctx, w, resp, http.StatusOK)
}
