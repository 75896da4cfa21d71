package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"arbscan/internal/domain/model"
)

type mockRepo struct {
	latest        map[string]float64
	opportunities []*model.SpreadOpportunity
	reports       []string
	signals       int
}

func newMockRepo() *mockRepo {
	return &mockRepo{latest: make(map[string]float64)}
}

func (m *mockRepo) UpsertLatestPrice(ctx context.Context, venue, asset string, price float64, ts int64) error {
	m.latest[venue+":"+asset] = price
	return nil
}

func (m *mockRepo) SaveOpportunity(ctx context.Context, opp *model.SpreadOpportunity) error {
	m.opportunities = append(m.opportunities, opp)
	return nil
}

func (m *mockRepo) InsertScanReport(ctx context.Context, ts int64, payload string) error {
	m.reports = append(m.reports, payload)
	return nil
}

func (m *mockRepo) InsertSignal(ctx context.Context, ts int64, asset string, spreadPct float64, payload string) error {
	m.signals++
	return nil
}

func (m *mockRepo) Close() error { return nil }

func newTestScanner(venues []*fakeVenue, repo *mockRepo, topN int) *Scanner {
	ports := toPorts(venues)
	return NewScanner(ScannerDeps{
		Matcher: NewMatcher(ports, 2),
		Fetcher: NewFetcher(ports, time.Second),
		Repo:    repo,
		TopN:    topN,
	})
}

func TestScanOnce(t *testing.T) {
	venues := []*fakeVenue{
		{name: "binance", symbols: []string{"BTCUSDT"}, prices: map[string]float64{"BTCUSDT": 100}},
		{name: "bybit", symbols: []string{"BTCUSDT"}, prices: map[string]float64{"BTCUSDT": 105}},
		{name: "kraken", symbols: []string{"BTCUSDT"}, prices: map[string]float64{"BTCUSDT": 95}},
	}
	repo := newMockRepo()
	s := newTestScanner(venues, repo, 3)

	reports, err := s.ScanOnce(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 asset report, got %d", len(reports))
	}

	r := reports[0]
	if r.Insufficient {
		t.Fatal("three live venues should not be insufficient")
	}
	if len(r.Opportunities) != 3 {
		t.Fatalf("expected top-3 opportunities, got %d", len(r.Opportunities))
	}
	top := r.Opportunities[0]
	if top.BuyVenue != "kraken" || top.SellVenue != "bybit" {
		t.Errorf("expected buy kraken / sell bybit on top, got %s/%s", top.BuyVenue, top.SellVenue)
	}

	if len(repo.opportunities) != 3 {
		t.Errorf("expected 3 persisted opportunities, got %d", len(repo.opportunities))
	}
	if repo.latest["binance:BTC"] != 100 {
		t.Errorf("latest price not persisted: %+v", repo.latest)
	}
	if len(repo.reports) != 1 || !strings.Contains(repo.reports[0], "BTC") {
		t.Errorf("scan report not persisted: %+v", repo.reports)
	}
}

// TestScanOnceInsufficient: a single surviving venue is reported as
// insufficient data, never as an empty ranking treated as success.
func TestScanOnceInsufficient(t *testing.T) {
	venues := []*fakeVenue{
		{name: "binance", symbols: []string{"BTCUSDT"}, prices: map[string]float64{"BTCUSDT": 100}},
		{name: "bybit", symbols: []string{"BTCUSDT"}, priceErr: map[string]error{"BTCUSDT": model.ErrVenueUnavailable}},
	}
	repo := newMockRepo()
	s := newTestScanner(venues, repo, 3)

	reports, err := s.ScanOnce(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if !reports[0].Insufficient {
		t.Error("expected insufficient report")
	}
	if len(reports[0].Opportunities) != 0 {
		t.Errorf("insufficient cycle must not rank, got %+v", reports[0].Opportunities)
	}
	if len(repo.opportunities) != 0 {
		t.Error("no opportunity should be persisted on insufficient data")
	}
}

func TestRenderReports(t *testing.T) {
	reports := []AssetReport{
		{
			Asset: model.CanonicalAsset{Key: "BTC"},
			Opportunities: []model.SpreadOpportunity{
				{Asset: "BTC", BuyVenue: "kraken", SellVenue: "bybit", BuyPrice: 95, SellPrice: 105, Spread: 10, SpreadPct: 10.5263},
			},
		},
		{Asset: model.CanonicalAsset{Key: "ETH"}, Insufficient: true},
	}

	out := RenderReports(reports)
	if !strings.Contains(out, "buy kraken") || !strings.Contains(out, "sell bybit") {
		t.Errorf("report missing opportunity line: %q", out)
	}
	if strings.Contains(out, "ETH") {
		t.Errorf("insufficient asset should not render: %q", out)
	}
}
