package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

// DefaultRPCEndpoint is used when no rpc_endpoints are configured.
// A dedicated node is strongly recommended for anything beyond testing.
const DefaultRPCEndpoint = "https://api.mainnet-beta.solana.com"

// Config holds all bot configuration. Values are loaded once at startup and
// validated before anything else is constructed.
type Config struct {
	LogLevel string `yaml:"log_level" default:"info" validate:"oneof=trace debug info warn error"`

	Pool struct {
		ID        string `yaml:"id" validate:"required"`
		TokenMint string `yaml:"token_mint" validate:"required"`
	} `yaml:"pool"`

	// Accounts are base58-encoded secret keys. PRIVATE_KEY_0..N environment
	// variables are appended after the YAML list.
	Accounts []string `yaml:"accounts"`

	RPCEndpoints []string `yaml:"rpc_endpoints"`

	// SwapServiceURL points at the service that builds, signs and submits
	// the swap transaction. Empty selects the dry-run executor.
	SwapServiceURL string `yaml:"swap_service_url"`

	Trade struct {
		BuyMinSol       float64 `yaml:"buy_min_sol" default:"0.001" validate:"gt=0"`
		BuyMaxSol       float64 `yaml:"buy_max_sol" default:"0.005" validate:"gt=0"`
		SellMin         float64 `yaml:"sell_min" default:"100"`
		SellMax         float64 `yaml:"sell_max" default:"500"`
		TargetVolumeSol float64 `yaml:"target_volume_sol" default:"10" validate:"gte=0"`
		IntervalSeconds int     `yaml:"interval_seconds" default:"15" validate:"gte=1"`
		SlippagePct     float64 `yaml:"slippage_pct" default:"0.1" validate:"gte=0"`
		ComputeUnits    int     `yaml:"compute_units" default:"60000" validate:"gt=0"`
		AmountVariance  float64 `yaml:"amount_variance" default:"0.05" validate:"gte=0,lt=1"`
		MinTradeSol     float64 `yaml:"min_trade_sol" default:"0.0005" validate:"gt=0"`
		RecentTrades    int     `yaml:"recent_trades" default:"10" validate:"gte=1"`
		ImbalanceWeight float64 `yaml:"imbalance_weight" default:"0.6" validate:"gte=0,lte=1"`
	} `yaml:"trade"`

	Fee struct {
		BaseMicroLamports int64 `yaml:"base_micro_lamports" default:"10000000" validate:"gte=0"`
		StepMicroLamports int64 `yaml:"step_micro_lamports" default:"25000" validate:"gt=0"`
		MinMicroLamports  int64 `yaml:"min_micro_lamports" validate:"gte=0"`
		// MaxMicroLamports caps failure escalation. Zero disables the cap.
		MaxMicroLamports int64 `yaml:"max_micro_lamports" validate:"gte=0"`
	} `yaml:"fee"`

	Sweep struct {
		Enabled      bool    `yaml:"enabled"`
		ThresholdSol float64 `yaml:"threshold_sol" default:"0.01" validate:"gte=0"`
	} `yaml:"sweep"`

	Wallet struct {
		CooldownMs     int `yaml:"cooldown_ms" default:"2000" validate:"gte=0"`
		MaxConsecutive int `yaml:"max_consecutive" default:"2" validate:"gte=1"`
	} `yaml:"wallet"`

	Endpoint struct {
		CooldownMs int `yaml:"cooldown_ms" default:"1000" validate:"gte=0"`
	} `yaml:"endpoint"`

	SwapTimeoutSeconds int `yaml:"swap_timeout_seconds" default:"90" validate:"gte=1"`

	Health struct {
		Port int `yaml:"port" default:"3000" validate:"gt=0"`
	} `yaml:"health"`

	Journal struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"journal"`
}

// Load reads config from a YAML file, applies defaults, environment variable
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("POOL_ID"); v != "" {
		cfg.Pool.ID = v
	}
	if v := os.Getenv("TOKEN_MINT"); v != "" {
		cfg.Pool.TokenMint = v
	}
	if v := os.Getenv("RPC_URLS"); v != "" {
		cfg.RPCEndpoints = splitAndTrim(v)
	}
	if v := os.Getenv("SWAP_SERVICE_URL"); v != "" {
		cfg.SwapServiceURL = v
	}
	if v := os.Getenv("TARGET_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trade.TargetVolumeSol = f
		}
	}
	if v := os.Getenv("SWEEP_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sweep.Enabled = b
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Health.Port = p
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Journal.SQLitePath = v
	}

	// Numbered secret keys, in order, until the first gap.
	for i := 0; ; i++ {
		v := os.Getenv(fmt.Sprintf("PRIVATE_KEY_%d", i))
		if v == "" {
			break
		}
		cfg.Accounts = append(cfg.Accounts, v)
	}

	if len(cfg.RPCEndpoints) == 0 {
		cfg.RPCEndpoints = []string{DefaultRPCEndpoint}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("no accounts configured: set accounts in YAML or PRIVATE_KEY_0..N")
	}
	if c.Trade.BuyMinSol > c.Trade.BuyMaxSol {
		return fmt.Errorf("trade.buy_min_sol must be <= trade.buy_max_sol")
	}
	if c.Trade.SellMin > c.Trade.SellMax {
		return fmt.Errorf("trade.sell_min must be <= trade.sell_max")
	}
	if c.Fee.MaxMicroLamports > 0 && c.Fee.MaxMicroLamports < c.Fee.MinMicroLamports {
		return fmt.Errorf("fee.max_micro_lamports must be >= fee.min_micro_lamports")
	}
	return nil
}

// Interval is the period between trading cycles.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Trade.IntervalSeconds) * time.Second
}

// SwapTimeout bounds a single swap submission.
func (c *Config) SwapTimeout() time.Duration {
	return time.Duration(c.SwapTimeoutSeconds) * time.Second
}

// WalletCooldown is the minimum idle time before an account becomes
// eligible for reselection.
func (c *Config) WalletCooldown() time.Duration {
	return time.Duration(c.Wallet.CooldownMs) * time.Millisecond
}

// EndpointCooldown is the minimum idle time before an endpoint is reused.
func (c *Config) EndpointCooldown() time.Duration {
	return time.Duration(c.Endpoint.CooldownMs) * time.Millisecond
}

// BuyMinLamports is the lower bound of a buy draw.
func (c *Config) BuyMinLamports() int64 { return solToLamports(c.Trade.BuyMinSol) }

// BuyMaxLamports is the upper bound of a buy draw.
func (c *Config) BuyMaxLamports() int64 { return solToLamports(c.Trade.BuyMaxSol) }

// TargetVolumeLamports is the cumulative volume goal.
func (c *Config) TargetVolumeLamports() int64 { return solToLamports(c.Trade.TargetVolumeSol) }

// MinTradeLamports is the smallest buy the bot will submit.
func (c *Config) MinTradeLamports() int64 { return solToLamports(c.Trade.MinTradeSol) }

// SweepThresholdLamports is the balance every account is drained down to.
func (c *Config) SweepThresholdLamports() int64 { return solToLamports(c.Sweep.ThresholdSol) }

// ThresholdBalanceLamports is the balance below which the bot never buys.
func (c *Config) ThresholdBalanceLamports() int64 {
	return maxInt64(int64(float64(c.BuyMinLamports())*0.3), solToLamports(0.03))
}

// TargetBalanceLamports is the balance at or above which the bot always buys.
func (c *Config) TargetBalanceLamports() int64 {
	return maxInt64(int64(float64(c.BuyMaxLamports())*1.2), solToLamports(0.08))
}

// SellRange scales the configured sell bounds into raw token units.
func (c *Config) SellRange(tokenDecimals int) (min, max int64) {
	mult := math.Pow10(tokenDecimals)
	return int64(c.Trade.SellMin * mult), int64(c.Trade.SellMax * mult)
}

func solToLamports(sol float64) int64 {
	return int64(sol * model.LamportsPerSol)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
