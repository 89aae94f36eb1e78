// Package scheduler drives the trading loop: a cron tick selects an
// account, sizes a trade, submits it, and settles the realized balance
// change a few seconds later. All mutable state is owned by the Run
// goroutine; the cron and settlement goroutines only signal over channels.
package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/dancingmadman2/raydium-bot/internal/balance"
	"github.com/dancingmadman2/raydium-bot/internal/config"
	"github.com/dancingmadman2/raydium-bot/internal/executor"
	"github.com/dancingmadman2/raydium-bot/internal/fees"
	"github.com/dancingmadman2/raydium-bot/internal/metrics"
	"github.com/dancingmadman2/raydium-bot/internal/model"
	"github.com/dancingmadman2/raydium-bot/internal/recorder"
	"github.com/dancingmadman2/raydium-bot/internal/report"
	"github.com/dancingmadman2/raydium-bot/internal/rpc"
	"github.com/dancingmadman2/raydium-bot/internal/sizing"
	"github.com/dancingmadman2/raydium-bot/internal/strategy"
	"github.com/dancingmadman2/raydium-bot/internal/volume"
	"github.com/dancingmadman2/raydium-bot/internal/wallet"
)

// settleDelay is how long after a confirmed swap the bot re-reads the
// account's balances to book the realized change.
const settleDelay = 15 * time.Second

// settlement is a deferred balance re-check for one confirmed trade. The
// trade's realized volume is credited only here, after finality has had
// time to land; a failed re-check means the trade is simply not counted.
type settlement struct {
	accountID string
	buy       bool
	before    model.BalanceSnapshot
}

// Deps are the collaborators the orchestrator coordinates. All are
// constructed by the caller; the orchestrator owns none of their lifecycles
// except the cron it creates itself.
type Deps struct {
	Selector  *wallet.Selector
	Endpoints *rpc.Endpoints
	Balances  *balance.Tracker
	Volumes   *volume.Tracker
	Sizer     *sizing.Sizer
	Fees      *fees.Controller
	Window    *strategy.RecentWindow
	Swapper   executor.Swapper
	Journal   recorder.Recorder
	Metrics   *metrics.Recorder
}

// Orchestrator runs trading cycles until the volume target is reached,
// every account is swept, or the context is cancelled.
type Orchestrator struct {
	cfg        *config.Config
	deps       Deps
	thresholds strategy.Thresholds
	log        zerolog.Logger

	cron      *cron.Cron
	executing atomic.Bool
	tickCh    chan struct{}
	settleCh  chan settlement
	done      chan struct{}

	swept       map[string]bool
	started     time.Time
	settleAfter time.Duration
	rng         *rand.Rand
}

// New creates an orchestrator. It does not start any goroutines.
func New(cfg *config.Config, deps Deps, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:  cfg,
		deps: deps,
		thresholds: strategy.Thresholds{
			MinBalance:      cfg.ThresholdBalanceLamports(),
			TargetBalance:   cfg.TargetBalanceLamports(),
			SweepThreshold:  cfg.SweepThresholdLamports(),
			ImbalanceWeight: cfg.Trade.ImbalanceWeight,
		},
		log:         logger,
		cron:        cron.New(),
		tickCh:      make(chan struct{}),
		settleCh:    make(chan settlement, 64),
		done:        make(chan struct{}),
		swept:       make(map[string]bool),
		settleAfter: settleDelay,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Done is closed when the run goal is reached and the loop has stopped.
func (o *Orchestrator) Done() <-chan struct{} { return o.done }

// Run blocks until the goal is reached or ctx is cancelled. An in-flight
// cycle always finishes before Run returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.started = time.Now()

	for _, id := range o.deps.Selector.IDs() {
		if _, err := o.deps.Balances.RecordInitial(ctx, id); err != nil {
			o.log.Warn().Err(err).Str("account", shortID(id)).Msg("initial balance snapshot failed")
		}
	}

	spec := fmt.Sprintf("@every %ds", o.cfg.Trade.IntervalSeconds)
	if _, err := o.cron.AddFunc(spec, o.tick); err != nil {
		return fmt.Errorf("register cycle task: %w", err)
	}
	o.cron.Start()
	defer func() { <-o.cron.Stop().Done() }()

	o.log.Info().
		Int("accounts", o.deps.Selector.Count()).
		Dur("interval", o.cfg.Interval()).
		Bool("sweep", o.cfg.Sweep.Enabled).
		Msg("orchestrator started")

	// First cycle runs immediately rather than waiting out the interval.
	o.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-o.done:
			return nil
		case <-o.tickCh:
			o.runCycle(ctx)
		case s := <-o.settleCh:
			o.settle(ctx, s)
		}
	}
}

// tick runs on the cron goroutine. A cycle still in flight means this
// interval is skipped, never queued.
func (o *Orchestrator) tick() {
	if o.executing.Load() {
		o.log.Debug().Msg("cycle still running, tick skipped")
		o.journalEvent(&recorder.CycleEvent{EventType: "SKIP", Detail: "previous cycle still running"})
		return
	}
	select {
	case o.tickCh <- struct{}{}:
	default:
	}
}

func (o *Orchestrator) runCycle(ctx context.Context) {
	o.executing.Store(true)
	defer o.executing.Store(false)

	select {
	case <-o.done:
		return
	default:
	}

	o.deps.Metrics.RecordCycle()
	sweep := o.cfg.Sweep.Enabled

	acct := o.deps.Selector.Next(sweep)
	if sweep && o.swept[acct.ID] {
		o.finishIfAllSwept(ctx)
		return
	}

	if !o.deps.Balances.HasInitial(acct.ID) {
		if _, err := o.deps.Balances.RecordInitial(ctx, acct.ID); err != nil {
			o.rpcFailure(acct.ID, err)
			return
		}
	}
	bal, err := o.deps.Balances.Current(ctx, acct.ID)
	if err != nil {
		o.rpcFailure(acct.ID, err)
		return
	}

	p := strategy.BuyProbability(bal.Sol, sweep, o.thresholds, o.deps.Window)
	dec := model.TradeDecision{
		AccountID:      acct.ID,
		Buy:            o.rng.Float64() < p,
		BuyProbability: p,
	}
	dec.Amount = o.deps.Sizer.Amount(bal.Sol, bal.Token, o.deps.Volumes.Remaining(), dec.Buy, sweep)
	if dec.Amount <= 0 {
		if sweep {
			o.markSwept(ctx, acct.ID)
			return
		}
		o.log.Debug().Str("account", shortID(acct.ID)).Msg("no tradable amount this cycle")
		o.journalEvent(&recorder.CycleEvent{AccountID: acct.ID, EventType: "ZERO_AMOUNT"})
		return
	}

	side := model.Side(dec.Buy)
	fee := o.deps.Fees.Current()
	endpoint := o.deps.Endpoints.Next()

	o.log.Info().
		Str("account", shortID(acct.ID)).
		Str("side", string(side)).
		Float64("sol", float64(dec.Amount)/float64(model.LamportsPerSol)).
		Int64("priority_fee", fee).
		Float64("buy_p", dec.BuyProbability).
		Msg("submitting swap")

	swapCtx, cancel := context.WithTimeout(ctx, o.cfg.SwapTimeout())
	start := time.Now()
	res, err := o.deps.Swapper.Swap(swapCtx, executor.Request{
		AccountID:   dec.AccountID,
		Side:        side,
		Amount:      dec.Amount,
		PriorityFee: fee,
		RPCEndpoint: endpoint,
	})
	cancel()
	o.deps.Metrics.RecordSwapDuration(time.Since(start).Seconds())

	if err != nil {
		o.deps.Fees.OnError()
		o.deps.Metrics.RecordFailure("swap")
		o.deps.Metrics.RecordBaseFee(o.deps.Fees.Base())
		o.log.Error().Err(err).
			Str("account", shortID(acct.ID)).
			Int64("base_fee", o.deps.Fees.Base()).
			Int("failures", o.deps.Fees.Failures()).
			Msg("swap failed, fee escalated")
		o.journalEvent(&recorder.CycleEvent{
			AccountID: acct.ID,
			EventType: "SWAP_FAILED",
			Detail:    err.Error(),
			BaseFee:   o.deps.Fees.Base(),
		})
		if sweep {
			o.log.Info().Str("account", shortID(acct.ID)).Msg("sweep retried next cycle")
		}
		return
	}

	o.deps.Fees.OnSuccess()
	o.deps.Metrics.RecordBaseFee(o.deps.Fees.Base())
	o.deps.Metrics.RecordTrade(side)

	rec := &model.TradeRecord{
		ID:          ulid.Make().String(),
		AccountID:   acct.ID,
		Side:        side,
		Amount:      dec.Amount,
		PriorityFee: fee,
		TxID:        res.TxID,
		ExecutedAt:  time.Now(),
	}
	if err := o.deps.Journal.RecordTrade(rec); err != nil {
		o.deps.Metrics.RecordFailure("journal")
		o.log.Warn().Err(err).Msg("journal trade write failed")
	}

	o.log.Info().
		Str("tx", res.TxID).
		Str("account", shortID(acct.ID)).
		Str("side", string(side)).
		Msg("swap confirmed")

	o.scheduleSettle(ctx, settlement{accountID: acct.ID, buy: dec.Buy, before: bal})

	if sweep && dec.Buy {
		o.markSwept(ctx, acct.ID)
	}
}

// scheduleSettle re-reads the account's balances after a delay so the
// realized change (swap out, fees, slippage) lands in the stats.
func (o *Orchestrator) scheduleSettle(ctx context.Context, s settlement) {
	go func() {
		t := time.NewTimer(o.settleAfter)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
			select {
			case o.settleCh <- s:
			case <-ctx.Done():
			}
		}
	}()
}

func (o *Orchestrator) settle(ctx context.Context, s settlement) {
	after, err := o.deps.Balances.Current(ctx, s.accountID)
	if err != nil {
		// Under-counting beats crashing the loop: the trade happened but
		// its volume is not credited.
		o.deps.Metrics.RecordFailure("rpc")
		o.log.Warn().Err(err).Str("account", shortID(s.accountID)).Msg("settlement balance fetch failed, volume not credited")
		return
	}
	diff := after.Sub(s.before)
	o.deps.Volumes.UpdateBalanceChange(s.accountID, diff.Sol, diff.Token)

	// Sweeping pursues drained accounts, not a volume target: drains are
	// never credited as volume.
	if o.cfg.Sweep.Enabled {
		return
	}

	// The credited volume is the realized SOL movement, not the requested
	// amount; fees and slippage make the two differ.
	realized := diff.Sol
	if realized < 0 {
		realized = -realized
	}
	if realized == 0 {
		o.log.Debug().Str("account", shortID(s.accountID)).Msg("no realized balance change, volume not credited")
		return
	}

	o.deps.Window.Add(s.buy, realized)
	reached := o.deps.Volumes.Add(realized, s.buy, s.accountID)
	o.deps.Metrics.RecordVolume(o.deps.Volumes.Accumulated())

	o.log.Info().
		Str("account", shortID(s.accountID)).
		Int64("sol_change", diff.Sol).
		Msg(report.FormatProgress(o.deps.Volumes.Accumulated(), o.deps.Volumes.Target()))

	if reached {
		o.finish(ctx, "volume target reached")
	}
}

func (o *Orchestrator) markSwept(ctx context.Context, id string) {
	if !o.swept[id] {
		o.swept[id] = true
		o.log.Info().Str("account", shortID(id)).Msg("account swept")
		o.journalEvent(&recorder.CycleEvent{AccountID: id, EventType: "SWEPT"})
	}
	o.finishIfAllSwept(ctx)
}

func (o *Orchestrator) finishIfAllSwept(ctx context.Context) {
	if len(o.swept) >= o.deps.Selector.Count() {
		o.finish(ctx, "all accounts swept")
	}
}

// finish records final stats and stops the loop. Safe to call more than
// once; only the first call acts.
func (o *Orchestrator) finish(ctx context.Context, reason string) {
	select {
	case <-o.done:
		return
	default:
	}

	// Per-trade settlements only hold the last trade's delta; the final
	// report wants each account's total drift since its initial snapshot.
	for id, d := range o.deps.Balances.AllDeltas(ctx, o.deps.Selector.IDs()) {
		o.deps.Volumes.UpdateBalanceChange(id, d.Sol, d.Token)
	}

	stats := o.deps.Volumes.Stats()
	if err := o.deps.Journal.RecordFinalStats(&recorder.FinalStats{
		Stats:       stats,
		Target:      o.deps.Volumes.Target(),
		Accumulated: o.deps.Volumes.Accumulated(),
		SweepMode:   o.cfg.Sweep.Enabled,
	}); err != nil {
		o.log.Warn().Err(err).Msg("journal final stats write failed")
	}

	summary := report.FormatFinal(stats, o.deps.Volumes.Accumulated(), o.deps.Volumes.Target(),
		o.deps.Volumes.PerAccount(), o.started)
	o.log.Info().Str("reason", reason).Msg("run complete\n" + summary)

	close(o.done)
}

func (o *Orchestrator) rpcFailure(accountID string, err error) {
	o.deps.Metrics.RecordFailure("rpc")
	o.log.Error().Err(err).Str("account", shortID(accountID)).Msg("balance fetch failed")
	o.journalEvent(&recorder.CycleEvent{AccountID: accountID, EventType: "RPC_FAILED", Detail: err.Error()})
}

func (o *Orchestrator) journalEvent(evt *recorder.CycleEvent) {
	if err := o.deps.Journal.RecordCycleEvent(evt); err != nil {
		o.log.Warn().Err(err).Msg("journal event write failed")
	}
}

func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:6] + ".." + id[len(id)-4:]
}
