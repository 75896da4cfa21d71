package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"arbscan/internal/application/port"
	"arbscan/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

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
  venue TEXT NOT NULL,
  asset TEXT NOT NULL,
  price DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL,
  PRIMARY KEY(venue, asset)
);

CREATE TABLE IF NOT EXISTS spread_opportunities (
  id BIGSERIAL PRIMARY KEY,
  asset TEXT NOT NULL,
  buy_venue TEXT NOT NULL,
  sell_venue TEXT NOT NULL,
  buy_price DOUBLE PRECISION NOT NULL,
  sell_price DOUBLE PRECISION NOT NULL,
  spread DOUBLE PRECISION NOT NULL,
  spread_pct DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL,
  created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_spread_asset ON spread_opportunities(asset);

CREATE TABLE IF NOT EXISTS scan_reports (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_ts ON scan_reports(ts_ms);

CREATE TABLE IF NOT EXISTS signals (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  asset TEXT NOT NULL,
  spread_pct DOUBLE PRECISION NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(ts_ms);
`)
	return err
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, venue, asset string, price float64, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO latest_prices(venue, asset, price, ts_ms) VALUES($1, $2, $3, $4)
		ON CONFLICT(venue, asset) DO UPDATE SET
		price=excluded.price, ts_ms=excluded.ts_ms
	`, venue, asset, price, ts)
	return err
}

func (r *Repo) SaveOpportunity(ctx context.Context, opp *model.SpreadOpportunity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO spread_opportunities(
			asset, buy_venue, sell_venue, buy_price, sell_price,
			spread, spread_pct, ts_ms, created_at
		) VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, opp.Asset, opp.BuyVenue, opp.SellVenue, opp.BuyPrice, opp.SellPrice,
		opp.Spread, opp.SpreadPct, opp.Timestamp, time.Now().UnixMilli())
	return err
}

func (r *Repo) InsertScanReport(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO scan_reports(ts_ms, payload) VALUES($1, $2)`, ts, payload)
	return err
}

func (r *Repo) InsertSignal(ctx context.Context, ts int64, asset string, spreadPct float64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO signals(ts_ms, asset, spread_pct, payload) VALUES($1, $2, $3, $4)`, ts, asset, spreadPct, payload)
	return err
}

var _ port.Repository = (*Repo)(nil)
