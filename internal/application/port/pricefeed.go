package port

import "context"

type Tick struct {
	Venue    string  // "BINANCE", "BYBIT"
	Coin     string  // canonical asset, e.g. "BTC"
	PriceStr string  // raw string as sent by the venue
	PriceNum float64 // parsed float64 (best-effort)
	Ts       int64   // unix ms
}

// PriceFeed streams live ticks for the watch mode. Scan cycles never use
// feeds; they poll through Venue adapters.
type PriceFeed interface {
	Name() string
	Subscribe(ctx context.Context, coins []string) (<-chan Tick, error)
}
