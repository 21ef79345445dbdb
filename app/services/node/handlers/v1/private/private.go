// Package private maintains the group of handlers for operator access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/datacoin-network/datacoin/business/sys/validate"
	v1 "github.com/datacoin-network/datacoin/business/web/v1"
	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/worker"
	"github.com/datacoin-network/datacoin/foundation/nameservice"
	"github.com/datacoin-network/datacoin/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of operator node endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	Chain  *chain.Chain
	Worker *worker.Worker
	NS     *nameservice.NameService
}

// nodeStatus is what the operator sees when asking where the node is.
type nodeStatus struct {
	LatestBlockHash   string  `json:"latest_block_hash"`
	LatestBlockNumber uint64  `json:"latest_block_number"`
	TotalBlocks       int     `json:"total_blocks"`
	Difficulty        uint    `json:"current_difficulty"`
	MiningReward      float64 `json:"mining_reward"`
	PendingTrans      int     `json:"pending_transactions"`
}

// mineRequest optionally overrides the beneficiary for one round.
type mineRequest struct {
	Beneficiary string `json:"beneficiary"`
}

// adjustSharesRequest moves an entity's share count by delta.
type adjustSharesRequest struct {
	Entity string `json:"entity" validate:"required"`
	Delta  int    `json:"delta" validate:"required"`
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock := h.Chain.RetrieveLatestBlock()

	status := nodeStatus{
		LatestBlockHash:   latestBlock.Hash,
		LatestBlockNumber: latestBlock.Index,
		TotalBlocks:       h.Chain.QueryStats().TotalBlocks,
		Difficulty:        h.Chain.QueryDifficulty(),
		MiningReward:      h.Chain.QueryMiningReward(),
		PendingTrans:      h.Chain.QueryPendingLength(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// BlocksByNumber returns raw blocks for the specified to/from range.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fromStr := web.Param(r, "from")
	if fromStr == "latest" || fromStr == "" {
		fromStr = fmt.Sprintf("%d", chain.QueryLastest)
	}

	toStr := web.Param(r, "to")
	if toStr == "latest" || toStr == "" {
		toStr = fmt.Sprintf("%d", chain.QueryLastest)
	}

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if from > to {
		return v1.NewRequestError(errors.New("from block greater than to block"), http.StatusBadRequest)
	}

	blocks := h.Chain.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Mine runs a mining round right now and responds with the sealed
// block. The round lines up behind any round already in flight.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req mineRequest
	if r.ContentLength != 0 {
		if err := web.Decode(r, &req); err != nil {
			return fmt.Errorf("unable to decode payload: %w", err)
		}
	}

	block, err := h.Worker.MineNow(ctx, req.Beneficiary)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("mining round failed: %w", err), http.StatusInternalServerError)
	}

	h.Log.Infow("mined block", "traceid", v.TraceID, "block", block.Index, "txs", len(block.Transactions), "hash", block.Hash)

	return web.Respond(ctx, w, block, http.StatusOK)
}

// AdjustShares moves an entity's corporate share count. The share
// ledger is bookkeeping only; difficulty moves when AdjustDifficulty
// is called.
func (h Handlers) AdjustShares(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req adjustSharesRequest
	if err := web.Decode(r, &req); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(req); err != nil {
		return err
	}

	if !h.Chain.AdjustShares(req.Entity, req.Delta) {
		return v1.NewRequestError(errors.New("share adjustment rejected"), http.StatusBadRequest)
	}

	resp := struct {
		Status     string         `json:"status"`
		Shares     map[string]int `json:"corporate_shares"`
		Difficulty uint           `json:"current_difficulty"`
	}{
		Status:     "shares adjusted",
		Shares:     h.Chain.QueryShares(),
		Difficulty: h.Chain.QueryDifficulty(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AdjustDifficulty re-runs the difficulty policy against the current
// share ledger and reports the move.
func (h Handlers) AdjustDifficulty(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	before, after := h.Chain.AdjustDifficulty()

	resp := struct {
		Before  uint `json:"before"`
		After   uint `json:"after"`
		Changed bool `json:"changed"`
	}{
		Before:  before,
		After:   after,
		Changed: before != after,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
