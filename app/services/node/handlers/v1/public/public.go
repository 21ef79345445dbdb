// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/datacoin-network/datacoin/business/core/converter"
	"github.com/datacoin-network/datacoin/business/sys/validate"
	v1 "github.com/datacoin-network/datacoin/business/web/v1"
	"github.com/datacoin-network/datacoin/foundation/events"
	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/worker"
	"github.com/datacoin-network/datacoin/foundation/nameservice"
	"github.com/datacoin-network/datacoin/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log       *zap.SugaredLogger
	Chain     *chain.Chain
	Worker    *worker.Worker
	Converter *converter.Converter
	NS        *nameservice.NameService
	WS        websocket.Upgrader
	Evts      *events.Events
	Verify    bool
}

// Events handles a web socket to provide events to a client.
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
	gen := h.Chain.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Stats returns the aggregate numbers for the chain.
func (h Handlers) Stats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	stats := h.Chain.QueryStats()
	return web.Respond(ctx, w, stats, http.StatusOK)
}

// Validate walks the chain and reports whether every hash and link
// still holds. Corruption is reported, never repaired.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Valid        bool   `json:"valid"`
		LastestBlock string `json:"lastest_block"`
		Reason       string `json:"reason,omitempty"`
	}{
		Valid:        true,
		LastestBlock: h.Chain.RetrieveLatestBlock().Hash,
	}

	if err := h.Chain.Validate(); err != nil {
		resp.Valid = false
		resp.Reason = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitWalletTransaction queues a new transaction for the next block.
func (h Handlers) SubmitWalletTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req submitTx
	if err := web.Decode(r, &req); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(req); err != nil {
		return err
	}

	sub := chain.Submission{
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Amount:    req.Amount,
		DataValue: req.DataValue,
		Kind:      req.Kind,
	}

	if h.Verify {
		if req.Signature == "" {
			return v1.NewRequestError(errors.New("submission signature required"), http.StatusBadRequest)
		}
		if err := sub.VerifySender(req.Signature); err != nil {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}
	}

	cTx := sub.ToTx()

	h.Log.Infow("add user tran", "traceid", v.TraceID, "tx", cTx.ID, "sender", cTx.Sender, "recipient", cTx.Recipient, "amount", cTx.Amount)
	if !h.Chain.Submit(cTx) {
		return v1.NewRequestError(errors.New("transaction rejected"), http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		Tx     tx     `json:"tx"`
	}{
		Status: "transaction queued",
		Tx:     h.toTx(cTx),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pending returns the set of transactions waiting for a block, oldest
// first. An account in the path filters to that sender or recipient.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	trans := []tx{}
	for _, cTx := range h.Chain.QueryPending() {
		if account != "" && account != cTx.Sender && account != cTx.Recipient {
			continue
		}
		trans = append(trans, h.toTx(cTx))
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Balances returns the derived balances for all accounts or one.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	var balances []balance
	switch account {
	case "":
		all := h.Chain.QueryBalances()
		balances = make([]balance, 0, len(all))
		for act, bal := range all {
			balances = append(balances, balance{Account: act, Name: h.NS.Lookup(act), Balance: bal})
		}

	default:
		balances = []balance{{Account: account, Name: h.NS.Lookup(account), Balance: h.Chain.QueryBalance(account)}}
	}

	ai := actInfo{
		LastestBlock: h.Chain.RetrieveLatestBlock().Hash,
		Uncommitted:  h.Chain.QueryPendingLength(),
		Balances:     balances,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// BlocksByNumber returns the blocks in the specified from/to range. The
// token "latest" stands in for the last block on either side.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, to, err := blockRange(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	cBlocks := h.Chain.QueryBlocksByNumber(from, to)
	if len(cBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(cBlocks))
	for i, cBlock := range cBlocks {
		blocks[i] = h.toBlock(cBlock)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// SignalMining asks the background worker to run a round now instead of
// waiting for its ticker.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Shares returns the corporate share ledger.
func (h Handlers) Shares(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	info := sharesInfo{
		Shares:     h.Chain.QueryShares(),
		Total:      h.Chain.QueryShareTotal(),
		SharePrice: h.Chain.RetrieveGenesis().SharePrice,
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// BuyShares exchanges a funded account's coins for corporate shares.
func (h Handlers) BuyShares(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req buySharesRequest
	if err := web.Decode(r, &req); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(req); err != nil {
		return err
	}

	if !h.Chain.BuyShares(req.Entity, req.Count, req.Buyer) {
		return v1.NewRequestError(errors.New("share purchase rejected"), http.StatusBadRequest)
	}

	resp := struct {
		Status string         `json:"status"`
		Shares map[string]int `json:"corporate_shares"`
	}{
		Status: "shares purchased",
		Shares: h.Chain.QueryShares(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Sources returns the data sources registered with the converter.
func (h Handlers) Sources(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sources := h.Converter.QuerySources()
	if sources == nil {
		sources = []converter.Source{}
	}

	return web.Respond(ctx, w, sources, http.StatusOK)
}

// AddSource registers a new data source with the converter.
func (h Handlers) AddSource(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req addSourceRequest
	if err := web.Decode(r, &req); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(req); err != nil {
		return err
	}

	src := converter.Source{
		ID:     req.ID,
		Type:   req.Type,
		URL:    req.URL,
		Weight: req.Weight,
	}
	if err := h.Converter.AddSource(src); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		ID     string `json:"source_id"`
	}{
		Status: "source registered",
		ID:     req.ID,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Collect pulls one source now and queues the conversion for the
// recipient.
func (h Handlers) Collect(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req collectRequest
	if err := web.Decode(r, &req); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(req); err != nil {
		return err
	}

	cTx, err := h.Converter.Collect(ctx, req.SourceID, req.Recipient)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		Tx     tx     `json:"tx"`
	}{
		Status: "conversion queued",
		Tx:     h.toTx(cTx),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Convert mints currency for data measured outside the engine.
func (h Handlers) Convert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req convertRequest
	if err := web.Decode(r, &req); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(req); err != nil {
		return err
	}

	cTx, ok := h.Chain.ConvertData(req.DataSizeMB, req.Recipient)
	if !ok {
		return v1.NewRequestError(errors.New("conversion rejected"), http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		Tx     tx     `json:"tx"`
	}{
		Status: "conversion queued",
		Tx:     h.toTx(cTx),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ConverterStats returns the data engine's bookkeeping.
func (h Handlers) ConverterStats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	stats := h.Converter.QueryStats()
	return web.Respond(ctx, w, stats, http.StatusOK)
}

// StartAutoConvert begins collecting from every source on an interval.
func (h Handlers) StartAutoConvert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req autoConvertRequest
	if err := web.Decode(r, &req); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(req); err != nil {
		return err
	}

	interval := time.Duration(req.IntervalSeconds) * time.Second
	if interval == 0 {
		interval = time.Hour
	}

	if err := h.Converter.StartAuto(req.Recipient, interval); err != nil {
		return v1.NewRequestError(err, http.StatusConflict)
	}

	resp := struct {
		Status   string `json:"status"`
		Interval string `json:"interval"`
	}{
		Status:   "auto conversion started",
		Interval: interval.String(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// StopAutoConvert stops the automatic collection loop.
func (h Handlers) StopAutoConvert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Converter.StopAuto()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "auto conversion stopped",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// toTx decorates a chain transaction with nameservice lookups.
func (h Handlers) toTx(cTx chain.Tx) tx {
	return tx{
		ID:            cTx.ID,
		Sender:        cTx.Sender,
		SenderName:    h.NS.Lookup(cTx.Sender),
		Recipient:     cTx.Recipient,
		RecipientName: h.NS.Lookup(cTx.Recipient),
		Amount:        cTx.Amount,
		DataValue:     cTx.DataValue,
		Kind:          cTx.Kind,
		TimeStamp:     cTx.TimeStamp,
	}
}

// toBlock decorates a chain block with nameservice lookups.
func (h Handlers) toBlock(cBlock chain.Block) block {
	trans := make([]tx, len(cBlock.Transactions))
	for i, cTx := range cBlock.Transactions {
		trans[i] = h.toTx(cTx)
	}

	return block{
		Index:        cBlock.Index,
		Transactions: trans,
		PrevHash:     cBlock.PrevHash,
		TimeStamp:    cBlock.TimeStamp,
		Nonce:        cBlock.Nonce,
		Hash:         cBlock.Hash,
	}
}

// blockRange parses the from/to path parameters, accepting the token
// "latest" for either side.
func blockRange(r *http.Request) (uint64, uint64, error) {
	fromStr := web.Param(r, "from")
	if fromStr == "" || fromStr == "latest" {
		fromStr = strconv.FormatUint(chain.QueryLastest, 10)
	}

	toStr := web.Param(r, "to")
	if toStr == "" || toStr == "latest" {
		toStr = strconv.FormatUint(chain.QueryLastest, 10)
	}

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid from block: %w", err)
	}

	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid to block: %w", err)
	}

	if from > to {
		return 0, 0, errors.New("from block greater than to block")
	}

	return from, to, nil
}
