package storage

import (
	"context"

	"arbscan/internal/application/port"
	"arbscan/internal/domain/model"
)

type noopRepo struct{}

// NewNoop returns a repository that discards everything, for runs with
// persistence disabled.
func NewNoop() port.Repository { return &noopRepo{} }

func (n *noopRepo) UpsertLatestPrice(ctx context.Context, venue, asset string, price float64, ts int64) error {
	return nil
}

func (n *noopRepo) SaveOpportunity(ctx context.Context, opp *model.SpreadOpportunity) error {
	return nil
}

func (n *noopRepo) InsertScanReport(ctx context.Context, ts int64, payload string) error {
	return nil
}

func (n *noopRepo) InsertSignal(ctx context.Context, ts int64, asset string, spreadPct float64, payload string) error {
	return nil
}

func (n *noopRepo) Close() error { return nil }
