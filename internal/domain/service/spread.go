package service

import (
	"math"
	"sort"

	"arbscan/internal/domain/model"
)

// Spread returns the absolute gain of buying at buy and selling at sell.
func Spread(buy, sell float64) float64 {
	return sell - buy
}

// SpreadPct returns the percentage gain relative to the buy price.
// Returns 0 for non-positive buy prices; callers filter those pairs out.
func SpreadPct(buy, sell float64) float64 {
	if buy <= 0 {
		return 0
	}
	return (sell - buy) / buy * 100
}

// Band classifies a spread percentage against a threshold.
// -1 below -threshold, +1 above threshold, 0 in between.
func Band(pct, threshold float64) int {
	if pct >= threshold {
		return +1
	}
	if pct <= -threshold {
		return -1
	}
	return 0
}

// RankSpreads computes every directed buy->sell pair over the successful
// observations and returns the top-N by absolute percentage spread.
// Ordering is stable: ties keep enumeration order. Fewer than two usable
// prices yields ErrInsufficientObservations.
func RankSpreads(obs []model.PriceObservation, topN int) ([]model.SpreadOpportunity, error) {
	valid := make([]model.PriceObservation, 0, len(obs))
	for _, o := range obs {
		if o.OK() && o.Price > 0 && !math.IsInf(o.Price, 0) && !math.IsNaN(o.Price) {
			valid = append(valid, o)
		}
	}
	if len(valid) < 2 {
		return nil, model.ErrInsufficientObservations
	}

	opps := make([]model.SpreadOpportunity, 0, len(valid)*(len(valid)-1))
	for _, buy := range valid {
		for _, sell := range valid {
			if buy.Venue == sell.Venue {
				continue
			}
			opps = append(opps, model.SpreadOpportunity{
				Asset:     buy.Asset,
				BuyVenue:  buy.Venue,
				SellVenue: sell.Venue,
				BuyPrice:  buy.Price,
				SellPrice: sell.Price,
				Spread:    Spread(buy.Price, sell.Price),
				SpreadPct: SpreadPct(buy.Price, sell.Price),
				Timestamp: sell.Timestamp,
			})
		}
	}

	sort.SliceStable(opps, func(i, j int) bool {
		return math.Abs(opps[i].SpreadPct) > math.Abs(opps[j].SpreadPct)
	})

	if topN > 0 && len(opps) > topN {
		opps = opps[:topN]
	}
	return opps, nil
}
