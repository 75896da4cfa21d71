package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"arbscan/internal/application/port"
	"arbscan/internal/domain/model"
	domainservice "arbscan/internal/domain/service"
)

// AssetReport is the per-asset outcome of one scan cycle.
type AssetReport struct {
	Asset         model.CanonicalAsset      `json:"asset"`
	Observations  []model.PriceObservation  `json:"observations"`
	Opportunities []model.SpreadOpportunity `json:"opportunities"`
	Insufficient  bool                      `json:"insufficient"`
}

// Scanner drives the scan cycle: match (periodically), fetch, rank, persist.
type Scanner struct {
	matcher *Matcher
	fetcher *Fetcher
	repo    port.Repository

	topN         int
	interval     time.Duration
	rematchEvery int

	assets []model.CanonicalAsset
}

type ScannerDeps struct {
	Matcher      *Matcher
	Fetcher      *Fetcher
	Repo         port.Repository
	TopN         int
	Interval     time.Duration
	RematchEvery int
}

func NewScanner(deps ScannerDeps) *Scanner {
	if deps.TopN <= 0 {
		deps.TopN = 3
	}
	if deps.Interval <= 0 {
		deps.Interval = 30 * time.Second
	}
	if deps.RematchEvery <= 0 {
		deps.RematchEvery = 20
	}
	return &Scanner{
		matcher:      deps.Matcher,
		fetcher:      deps.Fetcher,
		repo:         deps.Repo,
		topN:         deps.TopN,
		interval:     deps.Interval,
		rematchEvery: deps.RematchEvery,
	}
}

// MatchAssets refreshes and returns the cross-venue asset set.
func (s *Scanner) MatchAssets(ctx context.Context) []model.CanonicalAsset {
	s.assets = s.matcher.MatchAssets(ctx)
	return s.assets
}

// FetchAsset fetches current prices for one asset across its venues.
func (s *Scanner) FetchAsset(ctx context.Context, asset model.CanonicalAsset) ([]model.PriceObservation, error) {
	return s.fetcher.FetchPrices(ctx, asset)
}

// RankAsset ranks the observations of one asset into top-N opportunities.
func (s *Scanner) RankAsset(obs []model.PriceObservation) ([]model.SpreadOpportunity, error) {
	return domainservice.RankSpreads(obs, s.topN)
}

// ScanOnce runs fetch+rank for every matched asset and returns the reports.
// It only errors on misconfiguration escaping the fetcher; per-venue failures
// degrade into failed observations or "insufficient" reports.
func (s *Scanner) ScanOnce(ctx context.Context) ([]AssetReport, error) {
	if len(s.assets) == 0 {
		s.MatchAssets(ctx)
	}

	reports := make([]AssetReport, 0, len(s.assets))
	for _, asset := range s.assets {
		if ctx.Err() != nil {
			return reports, ctx.Err()
		}

		obs, err := s.fetcher.FetchPrices(ctx, asset)
		if err != nil {
			return reports, err
		}

		report := AssetReport{Asset: asset, Observations: obs}
		for _, o := range obs {
			if o.OK() {
				_ = s.repo.UpsertLatestPrice(ctx, o.Venue, o.Asset, o.Price, o.Timestamp)
			}
		}

		opps, err := s.RankAsset(obs)
		switch {
		case errors.Is(err, model.ErrInsufficientObservations):
			report.Insufficient = true
			log.Debug().Str("asset", asset.Key).Msg("insufficient observations, no opportunity")
		case err != nil:
			return reports, err
		default:
			report.Opportunities = opps
			for i := range opps {
				if saveErr := s.repo.SaveOpportunity(ctx, &opps[i]); saveErr != nil {
					log.Error().Err(saveErr).Str("asset", opps[i].Asset).Msg("save opportunity failed")
				}
			}
			top := opps[0]
			log.Info().
				Str("asset", top.Asset).
				Str("buy", top.BuyVenue).
				Str("sell", top.SellVenue).
				Float64("buy_price", top.BuyPrice).
				Float64("sell_price", top.SellPrice).
				Float64("spread_pct", top.SpreadPct).
				Msg("opportunity detected")
		}

		reports = append(reports, report)
	}

	now := time.Now()
	payload := RenderReports(reports)
	if payload != "" {
		_ = s.repo.InsertScanReport(ctx, now.UnixMilli(), payload)
	}

	return reports, nil
}

// Run polls cycle -> sleep -> cycle until ctx is done, refreshing the asset
// set every rematchEvery cycles.
func (s *Scanner) Run(ctx context.Context) error {
	s.MatchAssets(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	cycle := 0
	for {
		if cycle > 0 && cycle%s.rematchEvery == 0 {
			s.MatchAssets(ctx)
		}
		if _, err := s.ScanOnce(ctx); err != nil {
			return err
		}
		cycle++

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RenderReports renders scan reports as plain text, one line per ranked
// opportunity, suitable for logs and the scan_reports table.
func RenderReports(reports []AssetReport) string {
	var sb strings.Builder
	for _, r := range reports {
		if r.Insufficient || len(r.Opportunities) == 0 {
			continue
		}
		for i, o := range r.Opportunities {
			fmt.Fprintf(&sb, "%s #%d buy %s @ %.8g / sell %s @ %.8g spread %.8g (%.4f%%)\n",
				o.Asset, i+1, o.BuyVenue, o.BuyPrice, o.SellVenue, o.SellPrice, o.Spread, o.SpreadPct)
		}
	}
	return sb.String()
}
