package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"arbscan/internal/application/port"
	"arbscan/internal/domain/model"
)

// Fetcher fans one GetPrice call per backing venue out concurrently and
// collects whatever succeeds within the per-call timeout. Failures become
// failed observations; they never block or cancel sibling calls.
type Fetcher struct {
	venues  map[string]port.Venue
	timeout time.Duration
}

func NewFetcher(venues []port.Venue, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	byName := make(map[string]port.Venue, len(venues))
	for _, v := range venues {
		byName[v.Name()] = v
	}
	return &Fetcher{venues: byName, timeout: timeout}
}

// FetchPrices returns one observation per listing, tagged success or failure.
// The only error it returns itself is an unknown venue id, which means the
// asset did not come from this configuration; callers treat it as fatal.
func (f *Fetcher) FetchPrices(ctx context.Context, asset model.CanonicalAsset) ([]model.PriceObservation, error) {
	for _, l := range asset.Listings {
		if _, ok := f.venues[l.Venue]; !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownVenue, l.Venue)
		}
	}

	// Each call owns a disjoint slot; aggregation happens only after Wait.
	obs := make([]model.PriceObservation, len(asset.Listings))

	var wg sync.WaitGroup
	for i, l := range asset.Listings {
		wg.Add(1)
		go func(slot int, l model.Listing) {
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()

			price, err := f.venues[l.Venue].GetPrice(cctx, l.Symbol)
			o := model.PriceObservation{
				Venue:     l.Venue,
				Symbol:    l.Symbol,
				Asset:     asset.Key,
				Timestamp: time.Now().UnixMilli(),
			}
			if err != nil {
				o.Err = err
			} else {
				o.Price = price
			}
			obs[slot] = o
		}(i, l)
	}
	wg.Wait()

	return obs, nil
}
