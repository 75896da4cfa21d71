package composite

import (
	"context"

	"arbscan/internal/application/port"
	"arbscan/internal/domain/model"
)

// Repo fans every write out to all configured backends, keeping the first
// error but never short-circuiting the rest.
type Repo struct {
	repos []port.Repository
}

func New(repos ...port.Repository) *Repo {
	out := make([]port.Repository, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, venue, asset string, price float64, ts int64) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.UpsertLatestPrice(ctx, venue, asset, price, ts); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) SaveOpportunity(ctx context.Context, opp *model.SpreadOpportunity) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.SaveOpportunity(ctx, opp); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) InsertScanReport(ctx context.Context, ts int64, payload string) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertScanReport(ctx, ts, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) InsertSignal(ctx context.Context, ts int64, asset string, spreadPct float64, payload string) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertSignal(ctx, ts, asset, spreadPct, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
