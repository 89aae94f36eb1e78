package executor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

func TestHTTPSwapperSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/swap" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var p swapPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Fatal(err)
		}
		if p.PoolID != "pool-1" || p.Side != model.SideBuy || p.Amount != 1_000_000 {
			t.Errorf("payload = %+v", p)
		}
		json.NewEncoder(w).Encode(swapResponse{Success: true, TxID: "tx-abc"})
	}))
	defer srv.Close()

	s := NewHTTPSwapper(srv.URL, "pool-1", 0.1, 60000)
	res, err := s.Swap(context.Background(), Request{
		AccountID: "w0", Side: model.SideBuy, Amount: 1_000_000, PriorityFee: 25_000,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.TxID != "tx-abc" {
		t.Errorf("txid = %q", res.TxID)
	}
}

func TestHTTPSwapperRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(swapResponse{Success: false, Error: "slippage exceeded"})
	}))
	defer srv.Close()

	s := NewHTTPSwapper(srv.URL, "pool-1", 0.1, 60000)
	_, err := s.Swap(context.Background(), Request{AccountID: "w0", Side: model.SideSell, Amount: 1})
	if err == nil || !strings.Contains(err.Error(), "slippage exceeded") {
		t.Fatalf("err = %v, want rejection reason", err)
	}
}

func TestHTTPSwapperHonorsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	s := NewHTTPSwapper(srv.URL, "pool-1", 0.1, 60000)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Swap(ctx, Request{AccountID: "w0", Side: model.SideBuy, Amount: 1}); err == nil {
		t.Fatal("expected deadline error")
	}
}

func TestDryRunSwapper(t *testing.T) {
	d := NewDryRun(0)
	res, err := d.Swap(context.Background(), Request{AccountID: "w0", Side: model.SideBuy, Amount: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.TxID, "dryrun-") {
		t.Errorf("txid = %q", res.TxID)
	}
}
