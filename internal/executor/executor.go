// Package executor submits swap transactions. The core never builds or
// signs transactions itself; it hands a fully-sized trade to a Swapper and
// consumes only success/failure and the transaction id.
package executor

import (
	"context"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

// Request is one swap submission.
type Request struct {
	AccountID   string          `json:"account"`
	Side        model.TradeSide `json:"side"`
	Amount      int64           `json:"amount"`
	PriorityFee int64           `json:"priority_fee"`
	RPCEndpoint string          `json:"rpc_endpoint"`
}

// Result reports a confirmed swap.
type Result struct {
	TxID string `json:"tx_id"`
}

// Swapper resolves pool metadata, builds, signs, submits and confirms a
// swap. Implementations must respect ctx cancellation: the orchestrator
// bounds every submission with a timeout and treats expiry as failure.
type Swapper interface {
	Swap(ctx context.Context, req Request) (Result, error)
}
