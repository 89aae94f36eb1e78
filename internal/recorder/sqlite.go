package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

// SQLiteRecorder persists the trade journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			account_id   TEXT NOT NULL,
			side         TEXT NOT NULL,
			amount       INTEGER NOT NULL,
			priority_fee INTEGER NOT NULL,
			tx_id        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id)`,

		`CREATE TABLE IF NOT EXISTS cycle_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			account_id TEXT,
			event_type TEXT NOT NULL,
			detail     TEXT,
			base_fee   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON cycle_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS final_stats (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			buy_volume   INTEGER,
			sell_volume  INTEGER,
			buy_trades   INTEGER,
			sell_trades  INTEGER,
			target       INTEGER,
			accumulated  INTEGER,
			sweep_mode   INTEGER
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrade(rec *model.TradeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(id, timestamp, account_id, side, amount, priority_fee, tx_id)
		VALUES (?,?,?,?,?,?,?)`,
		rec.ID, rec.ExecutedAt.Unix(), rec.AccountID, string(rec.Side),
		rec.Amount, rec.PriorityFee, rec.TxID,
	)
	return err
}

func (r *SQLiteRecorder) RecordCycleEvent(evt *CycleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cycle_events
		(timestamp, account_id, event_type, detail, base_fee)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.AccountID, evt.EventType, evt.Detail, evt.BaseFee,
	)
	return err
}

func (r *SQLiteRecorder) RecordFinalStats(stats *FinalStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sweep := 0
	if stats.SweepMode {
		sweep = 1
	}
	_, err := r.db.Exec(`INSERT INTO final_stats
		(timestamp, buy_volume, sell_volume, buy_trades, sell_trades, target, accumulated, sweep_mode)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(),
		stats.Stats.BuyVolume, stats.Stats.SellVolume,
		stats.Stats.BuyTrades, stats.Stats.SellTrades,
		stats.Target, stats.Accumulated, sweep,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
