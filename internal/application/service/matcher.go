package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"arbscan/internal/application/port"
	"arbscan/internal/domain/model"
)

// Matcher discovers which canonical assets are tradable across enough venues
// to be worth comparing. Instrument lists change slowly, so matching runs
// once per long cycle.
type Matcher struct {
	venues    []port.Venue
	minVenues int
}

func NewMatcher(venues []port.Venue, minVenues int) *Matcher {
	if minVenues < 2 {
		minVenues = 2
	}
	return &Matcher{venues: venues, minVenues: minVenues}
}

// MatchAssets lists instruments on every venue, canonicalizes them and keeps
// the asset keys spanning at least minVenues distinct venues. A venue that
// fails to list contributes zero instruments; it never aborts matching for
// the others. Output is sorted by asset key.
func (m *Matcher) MatchAssets(ctx context.Context) []model.CanonicalAsset {
	listings := make([][]model.RawInstrument, len(m.venues))

	var wg sync.WaitGroup
	for i, v := range m.venues {
		wg.Add(1)
		go func(slot int, v port.Venue) {
			defer wg.Done()
			instruments, err := v.ListInstruments(ctx)
			if err != nil {
				log.Warn().Str("venue", v.Name()).Err(err).Msg("list instruments failed, skipping venue")
				return
			}
			listings[slot] = instruments
		}(i, v)
	}
	wg.Wait()

	// asset key -> venue -> first raw symbol seen. Duplicate listings from
	// the same venue collapse to one, so they count once toward minVenues.
	grouped := make(map[string]map[string]string)
	for i, v := range m.venues {
		for _, inst := range listings[i] {
			if !inst.Tradable {
				continue
			}
			key := v.Canonicalize(inst.Symbol)
			if key == "" {
				continue
			}
			byVenue := grouped[key]
			if byVenue == nil {
				byVenue = make(map[string]string)
				grouped[key] = byVenue
			}
			if _, dup := byVenue[v.Name()]; !dup {
				byVenue[v.Name()] = inst.Symbol
			}
		}
	}

	assets := make([]model.CanonicalAsset, 0, len(grouped))
	for key, byVenue := range grouped {
		if len(byVenue) < m.minVenues {
			continue
		}
		asset := model.CanonicalAsset{Key: key, Listings: make([]model.Listing, 0, len(byVenue))}
		for _, v := range m.venues {
			if sym, ok := byVenue[v.Name()]; ok {
				asset.Listings = append(asset.Listings, model.Listing{Venue: v.Name(), Symbol: sym})
			}
		}
		assets = append(assets, asset)
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].Key < assets[j].Key })

	log.Info().
		Int("venues", len(m.venues)).
		Int("assets", len(assets)).
		Int("min_venues", m.minVenues).
		Msg("matching complete")

	return assets
}
