package model

// RawInstrument is a venue-native listing entry. It only lives between the
// instrument list call and canonicalization.
type RawInstrument struct {
	Venue    string `json:"venue"`
	Symbol   string `json:"symbol"`
	Tradable bool   `json:"tradable"`
}

// Listing ties a canonical asset to the symbol one venue trades it under.
type Listing struct {
	Venue  string `json:"venue"`
	Symbol string `json:"symbol"`
}

// CanonicalAsset is a normalized asset key plus the per-venue symbols that
// map to it. Built once per matching cycle, immutable afterwards.
type CanonicalAsset struct {
	Key      string    `json:"key"`
	Listings []Listing `json:"listings"`
}

// VenueCount returns the number of distinct venues backing the asset.
func (a CanonicalAsset) VenueCount() int {
	seen := make(map[string]struct{}, len(a.Listings))
	for _, l := range a.Listings {
		seen[l.Venue] = struct{}{}
	}
	return len(seen)
}

// SymbolOn returns the raw symbol the asset trades under on a venue.
func (a CanonicalAsset) SymbolOn(venue string) (string, bool) {
	for _, l := range a.Listings {
		if l.Venue == venue {
			return l.Symbol, true
		}
	}
	return "", false
}

// PriceObservation is the outcome of one price fetch attempt. Err is nil on
// success; on failure Price is zero and Err carries one of the venue error
// kinds.
type PriceObservation struct {
	Venue     string  `json:"venue"`
	Symbol    string  `json:"symbol"`
	Asset     string  `json:"asset"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"ts_ms"`
	Err       error   `json:"-"`
}

// OK reports whether the observation carries a usable price.
func (o PriceObservation) OK() bool {
	return o.Err == nil
}

// SpreadOpportunity is a directed buy/sell price discrepancy for one asset.
type SpreadOpportunity struct {
	Asset     string  `json:"asset"`
	BuyVenue  string  `json:"buy_venue"`
	SellVenue string  `json:"sell_venue"`
	BuyPrice  float64 `json:"buy_price"`
	SellPrice float64 `json:"sell_price"`
	Spread    float64 `json:"spread"`     // sell - buy, absolute
	SpreadPct float64 `json:"spread_pct"` // (sell - buy) / buy * 100
	Timestamp int64   `json:"ts_ms"`
}
