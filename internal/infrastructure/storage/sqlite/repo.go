package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"arbscan/internal/application/port"
	"arbscan/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS latest_prices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  venue TEXT NOT NULL,
  asset TEXT NOT NULL,
  price REAL NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL,
  UNIQUE(venue, asset)
);
CREATE INDEX IF NOT EXISTS idx_latest_asset ON latest_prices(asset);

CREATE TABLE IF NOT EXISTS spread_opportunities (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  asset TEXT NOT NULL,
  buy_venue TEXT NOT NULL,
  sell_venue TEXT NOT NULL,
  buy_price REAL NOT NULL,
  sell_price REAL NOT NULL,
  spread REAL NOT NULL,
  spread_pct REAL NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_spread_asset ON spread_opportunities(asset);
CREATE INDEX IF NOT EXISTS idx_spread_ts ON spread_opportunities(ts_ms);

CREATE TABLE IF NOT EXISTS scan_reports (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_ms INTEGER NOT NULL,
  payload TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_ts ON scan_reports(ts_ms);

CREATE TABLE IF NOT EXISTS signals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_ms INTEGER NOT NULL,
  asset TEXT NOT NULL,
  spread_pct REAL NOT NULL,
  payload TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(ts_ms);
CREATE INDEX IF NOT EXISTS idx_signals_asset ON signals(asset);
`)
	return err
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, venue, asset string, price float64, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO latest_prices(venue, asset, price, ts_ms, created_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(venue, asset) DO UPDATE SET
		price=excluded.price, ts_ms=excluded.ts_ms
	`, venue, asset, price, ts, ts)
	return err
}

func (r *Repo) SaveOpportunity(ctx context.Context, opp *model.SpreadOpportunity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO spread_opportunities(
			asset, buy_venue, sell_venue, buy_price, sell_price,
			spread, spread_pct, ts_ms, created_at
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, opp.Asset, opp.BuyVenue, opp.SellVenue, opp.BuyPrice, opp.SellPrice,
		opp.Spread, opp.SpreadPct, opp.Timestamp, time.Now().UnixMilli())
	return err
}

// GetLatestOpportunity returns the most recent opportunity saved for an
// asset, or sql.ErrNoRows.
func (r *Repo) GetLatestOpportunity(ctx context.Context, asset string) (*model.SpreadOpportunity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT asset, buy_venue, sell_venue, buy_price, sell_price, spread, spread_pct, ts_ms
		FROM spread_opportunities
		WHERE asset = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, asset)

	var opp model.SpreadOpportunity
	err := row.Scan(&opp.Asset, &opp.BuyVenue, &opp.SellVenue, &opp.BuyPrice, &opp.SellPrice,
		&opp.Spread, &opp.SpreadPct, &opp.Timestamp)
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

func (r *Repo) InsertScanReport(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO scan_reports(ts_ms, payload, created_at) VALUES(?, ?, ?)`, ts, payload, ts)
	return err
}

func (r *Repo) InsertSignal(ctx context.Context, ts int64, asset string, spreadPct float64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO signals(ts_ms, asset, spread_pct, payload, created_at) VALUES(?, ?, ?, ?, ?)`, ts, asset, spreadPct, payload, ts)
	return err
}

var _ port.Repository = (*Repo)(nil)
