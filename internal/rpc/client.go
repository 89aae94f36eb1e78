// Package rpc provides the bot's view of the chain: a cooldown-aware
// endpoint selector and a thin JSON-RPC client for balance queries.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Client queries account balances over Solana JSON-RPC. It holds no cache;
// callers that need a stable snapshot record one themselves.
type Client struct {
	endpoints *Endpoints
	tokenMint string
	http      *http.Client
}

// NewClient creates a balance client that spreads requests across the
// endpoint set.
func NewClient(endpoints *Endpoints, tokenMint string) *Client {
	return &Client{
		endpoints: endpoints,
		tokenMint: tokenMint,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SolBalance returns the account's lamport balance.
func (c *Client) SolBalance(ctx context.Context, pubkey string) (int64, error) {
	var result struct {
		Value int64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []any{pubkey}, &result); err != nil {
		return 0, fmt.Errorf("getBalance %s: %w", pubkey, err)
	}
	return result.Value, nil
}

// TokenBalance returns the account's raw token units for the configured
// mint. Accounts that never held the token have no token account; that is
// reported as a zero balance, not an error.
func (c *Client) TokenBalance(ctx context.Context, pubkey string) (int64, error) {
	var result struct {
		Value []struct {
			Account struct {
				Data struct {
					Parsed struct {
						Info struct {
							TokenAmount struct {
								Amount string `json:"amount"`
							} `json:"tokenAmount"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"data"`
			} `json:"account"`
		} `json:"value"`
	}
	params := []any{
		pubkey,
		map[string]string{"mint": c.tokenMint},
		map[string]string{"encoding": "jsonParsed"},
	}
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return 0, fmt.Errorf("getTokenAccountsByOwner %s: %w", pubkey, err)
	}

	var total int64
	for _, v := range result.Value {
		amt, err := strconv.ParseInt(v.Account.Data.Parsed.Info.TokenAmount.Amount, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse token amount: %w", err)
		}
		total += amt
	}
	return total, nil
}

// TokenDecimals fetches the mint's decimal count.
func (c *Client) TokenDecimals(ctx context.Context) (int, error) {
	var result struct {
		Value struct {
			Decimals int `json:"decimals"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getTokenSupply", []any{c.tokenMint}, &result); err != nil {
		return 0, fmt.Errorf("getTokenSupply %s: %w", c.tokenMint, err)
	}
	return result.Value.Decimals, nil
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return err
	}

	endpoint := c.endpoints.Next()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("post %s: status %d, body: %s", endpoint, resp.StatusCode, string(b))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("rpc error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	return json.Unmarshal(envelope.Result, out)
}
