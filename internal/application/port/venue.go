package port

import (
	"context"

	"arbscan/internal/domain/model"
)

// Venue is the adapter contract for one trading venue. A new venue plugs in
// by implementing this interface; matcher, fetcher and ranker stay untouched.
type Venue interface {
	// Name returns the stable venue identifier, e.g. "binance".
	Name() string

	// ListInstruments fetches the venue's tradable spot instruments.
	// Fails with model.ErrVenueUnavailable or model.ErrMalformedResponse.
	ListInstruments(ctx context.Context) ([]model.RawInstrument, error)

	// GetPrice fetches the last traded price for one raw symbol.
	// Fails with the listing error kinds plus model.ErrNoData when the venue
	// reports success with an empty result.
	GetPrice(ctx context.Context, symbol string) (float64, error)

	// Canonicalize maps a venue-native symbol to the cross-venue asset key.
	// Pure and total: every symbol yields exactly one key.
	Canonicalize(symbol string) string
}
