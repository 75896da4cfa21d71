package port

import (
	"context"

	"arbscan/internal/domain/model"
)

type Repository interface {
	// Latest price per (venue, asset); upsert, no history kept.
	UpsertLatestPrice(ctx context.Context, venue, asset string, price float64, ts int64) error

	// Ranked opportunities from scan cycles.
	SaveOpportunity(ctx context.Context, opp *model.SpreadOpportunity) error

	// Rendered per-cycle scan report.
	InsertScanReport(ctx context.Context, ts int64, payload string) error

	// Watch-mode threshold crossings.
	InsertSignal(ctx context.Context, ts int64, asset string, spreadPct float64, payload string) error

	Close() error
}
