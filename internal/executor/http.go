package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPSwapper delegates swap execution to an external swap service that
// holds the account keys and the AMM SDK. The bot ships it everything the
// trade needs; pool parameters are fixed per run.
type HTTPSwapper struct {
	serviceURL   string
	poolID       string
	slippagePct  float64
	computeUnits int
	client       *http.Client
}

// NewHTTPSwapper creates a swapper posting to serviceURL. No client-side
// timeout is set; the per-request context carries the deadline.
func NewHTTPSwapper(serviceURL, poolID string, slippagePct float64, computeUnits int) *HTTPSwapper {
	return &HTTPSwapper{
		serviceURL:   serviceURL,
		poolID:       poolID,
		slippagePct:  slippagePct,
		computeUnits: computeUnits,
		client:       &http.Client{},
	}
}

type swapPayload struct {
	Request
	PoolID       string  `json:"pool_id"`
	SlippagePct  float64 `json:"slippage_pct"`
	ComputeUnits int     `json:"compute_units"`
}

type swapResponse struct {
	Success bool   `json:"success"`
	TxID    string `json:"tx_id"`
	Error   string `json:"error"`
}

// Swap posts the trade and waits for the service's confirmation.
func (h *HTTPSwapper) Swap(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(swapPayload{
		Request:      req,
		PoolID:       h.poolID,
		SlippagePct:  h.slippagePct,
		ComputeUnits: h.computeUnits,
	})
	if err != nil {
		return Result{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.serviceURL+"/swap", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("submit swap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("submit swap: status %d, body: %s", resp.StatusCode, string(b))
	}

	var out swapResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("decode swap response: %w", err)
	}
	if !out.Success {
		return Result{}, fmt.Errorf("swap rejected: %s", out.Error)
	}
	return Result{TxID: out.TxID}, nil
}
