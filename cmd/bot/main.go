package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dancingmadman2/raydium-bot/internal/balance"
	"github.com/dancingmadman2/raydium-bot/internal/config"
	"github.com/dancingmadman2/raydium-bot/internal/executor"
	"github.com/dancingmadman2/raydium-bot/internal/fees"
	"github.com/dancingmadman2/raydium-bot/internal/health"
	"github.com/dancingmadman2/raydium-bot/internal/metrics"
	"github.com/dancingmadman2/raydium-bot/internal/recorder"
	"github.com/dancingmadman2/raydium-bot/internal/rpc"
	"github.com/dancingmadman2/raydium-bot/internal/scheduler"
	"github.com/dancingmadman2/raydium-bot/internal/sizing"
	"github.com/dancingmadman2/raydium-bot/internal/strategy"
	"github.com/dancingmadman2/raydium-bot/internal/volume"
	"github.com/dancingmadman2/raydium-bot/internal/wallet"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	log.Info().Str("config", cfgPath).Msg("raydium volume bot starting")

	// Derive public account ids from the configured secret keys.
	accountIDs, err := wallet.PublicIDs(cfg.Accounts)
	if err != nil {
		log.Fatal().Err(err).Msg("derive account keys")
	}
	log.Info().Int("accounts", len(accountIDs)).Int("endpoints", len(cfg.RPCEndpoints)).Msg("wallets loaded")

	// RPC layer
	endpoints := rpc.NewEndpoints(cfg.RPCEndpoints, config.DefaultRPCEndpoint, cfg.EndpointCooldown())
	client := rpc.NewClient(endpoints, cfg.Pool.TokenMint)

	// Token decimals decide how sell bounds scale into raw units.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	decCtx, decCancel := context.WithTimeout(ctx, 15*time.Second)
	decimals, err := client.TokenDecimals(decCtx)
	decCancel()
	if err != nil {
		log.Warn().Err(err).Msg("token decimals lookup failed, assuming 9")
		decimals = 9
	}
	sellMin, sellMax := cfg.SellRange(decimals)

	// Swap executor: dry-run unless a swap service is configured.
	var swapper executor.Swapper
	if cfg.SwapServiceURL != "" {
		swapper = executor.NewHTTPSwapper(cfg.SwapServiceURL, cfg.Pool.ID, cfg.Trade.SlippagePct, cfg.Trade.ComputeUnits)
		log.Info().Str("url", cfg.SwapServiceURL).Msg("using swap service")
	} else {
		swapper = executor.NewDryRun(500 * time.Millisecond)
		log.Warn().Msg("no swap service configured, running in dry-run mode")
	}

	// Trade journal
	var journal recorder.Recorder
	if cfg.Journal.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Journal.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("sqlite journal unavailable, trades will not be persisted")
			journal = recorder.NewNoopRecorder()
		} else {
			journal = sr
			defer sr.Close()
		}
	} else {
		journal = recorder.NewNoopRecorder()
	}

	// Health and metrics endpoint
	hs := health.NewServer(cfg.Health.Port)
	go func() {
		if err := hs.Start(); err != nil {
			log.Error().Err(err).Msg("health server")
		}
	}()
	defer hs.Shutdown(context.Background())

	orch := scheduler.New(cfg, scheduler.Deps{
		Selector:  wallet.NewSelector(accountIDs, cfg.WalletCooldown(), cfg.Wallet.MaxConsecutive),
		Endpoints: endpoints,
		Balances:  balance.NewTracker(client),
		Volumes:   volume.NewTracker(cfg.TargetVolumeLamports()),
		Sizer: sizing.New(sizing.Params{
			BuyMin:         cfg.BuyMinLamports(),
			BuyMax:         cfg.BuyMaxLamports(),
			SellMin:        sellMin,
			SellMax:        sellMax,
			MinTrade:       cfg.MinTradeLamports(),
			SweepThreshold: cfg.SweepThresholdLamports(),
			Variance:       cfg.Trade.AmountVariance,
		}),
		Fees:    fees.New(cfg.Fee.BaseMicroLamports, cfg.Fee.StepMicroLamports, cfg.Fee.MinMicroLamports, cfg.Fee.MaxMicroLamports),
		Window:  strategy.NewRecentWindow(cfg.Trade.RecentTrades),
		Swapper: swapper,
		Journal: journal,
		Metrics: metrics.New(),
	}, log.Logger)

	// Cancel on SIGINT/SIGTERM; the in-flight cycle finishes first.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		cancel()
	}()

	if err := orch.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("orchestrator")
	}
	log.Info().Msg("raydium volume bot stopped")
}
