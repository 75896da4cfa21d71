package service

import (
	"errors"
	"math"
	"testing"

	"arbscan/internal/domain/model"
)

func obs(venue string, price float64) model.PriceObservation {
	return model.PriceObservation{Venue: venue, Asset: "BTC", Price: price, Timestamp: 1700000000000}
}

// TestRankSpreadsTopOpportunity checks the canonical buy-low/sell-high case:
// prices A:100 B:105 C:95 must rank buy C / sell B first.
func TestRankSpreadsTopOpportunity(t *testing.T) {
	observations := []model.PriceObservation{
		obs("binance", 100),
		obs("bybit", 105),
		obs("kraken", 95),
	}

	opps, err := RankSpreads(observations, 1)
	if err != nil {
		t.Fatalf("rank spreads failed: %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}

	top := opps[0]
	if top.BuyVenue != "kraken" || top.SellVenue != "bybit" {
		t.Errorf("expected buy kraken / sell bybit, got buy %s / sell %s", top.BuyVenue, top.SellVenue)
	}
	if top.Spread != 10 {
		t.Errorf("expected spread 10, got %f", top.Spread)
	}
	wantPct := 10.0 / 95.0 * 100
	if math.Abs(top.SpreadPct-wantPct) > 1e-9 {
		t.Errorf("expected spread pct ~%.4f, got %.4f", wantPct, top.SpreadPct)
	}
}

// TestRankSpreadsSorted verifies the non-increasing |pct| ordering over the
// full pair enumeration.
func TestRankSpreadsSorted(t *testing.T) {
	observations := []model.PriceObservation{
		obs("binance", 100),
		obs("bybit", 101),
		obs("kraken", 99),
		obs("okx", 100.5),
	}

	opps, err := RankSpreads(observations, 0)
	if err != nil {
		t.Fatalf("rank spreads failed: %v", err)
	}
	if want := 4 * 3; len(opps) != want {
		t.Fatalf("expected %d directed pairs, got %d", want, len(opps))
	}
	for i := 1; i < len(opps); i++ {
		if math.Abs(opps[i].SpreadPct) > math.Abs(opps[i-1].SpreadPct)+1e-12 {
			t.Errorf("pair %d out of order: |%.6f| > |%.6f|", i, opps[i].SpreadPct, opps[i-1].SpreadPct)
		}
	}
}

func TestRankSpreadsInsufficient(t *testing.T) {
	cases := map[string][]model.PriceObservation{
		"empty": nil,
		"one":   {obs("binance", 100)},
		"one ok one failed": {
			obs("binance", 100),
			{Venue: "bybit", Asset: "BTC", Err: model.ErrVenueUnavailable},
		},
		"one ok one zero": {
			obs("binance", 100),
			obs("bybit", 0),
		},
	}

	for name, observations := range cases {
		if _, err := RankSpreads(observations, 3); !errors.Is(err, model.ErrInsufficientObservations) {
			t.Errorf("%s: expected ErrInsufficientObservations, got %v", name, err)
		}
	}
}

// TestRankSpreadsFailureIsolation: a failed venue is skipped but the
// remaining two still produce a ranking.
func TestRankSpreadsFailureIsolation(t *testing.T) {
	observations := []model.PriceObservation{
		obs("binance", 100),
		{Venue: "bybit", Asset: "BTC", Err: model.ErrNoData},
		obs("kraken", 95),
	}

	opps, err := RankSpreads(observations, 3)
	if err != nil {
		t.Fatalf("rank spreads failed: %v", err)
	}
	if len(opps) != 2 {
		t.Fatalf("expected 2 opportunities from 2 venues, got %d", len(opps))
	}
	for _, o := range opps {
		if o.BuyVenue == "bybit" || o.SellVenue == "bybit" {
			t.Errorf("failed venue leaked into ranking: %+v", o)
		}
	}
}

// TestRankSpreadsNegativePriceExcluded guards the division-by-zero defense.
func TestRankSpreadsNegativePriceExcluded(t *testing.T) {
	observations := []model.PriceObservation{
		obs("binance", -5),
		obs("bybit", 100),
		obs("kraken", 95),
	}

	opps, err := RankSpreads(observations, 0)
	if err != nil {
		t.Fatalf("rank spreads failed: %v", err)
	}
	for _, o := range opps {
		if o.BuyPrice <= 0 || o.SellPrice <= 0 {
			t.Errorf("non-positive price leaked into ranking: %+v", o)
		}
	}
}

func TestBand(t *testing.T) {
	if got := Band(6.0, 5.0); got != +1 {
		t.Errorf("expected +1, got %d", got)
	}
	if got := Band(-6.0, 5.0); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
	if got := Band(1.0, 5.0); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
