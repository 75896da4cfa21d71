package watch

import (
	"strconv"
	"strings"
	"sync"

	"arbscan/internal/application/port"
)

type Dir int

const (
	DirSame Dir = 0
	DirUp   Dir = +1
	DirDown Dir = -1
)

type pxState struct {
	str   string
	num   float64
	has   bool
	dir   Dir
	seen  bool
	parse bool
}

type coinState struct {
	venues map[string]*pxState // venue -> last price state
}

// State holds the latest per-venue price for every watched coin.
// Coins keep the order they were configured in.
type State struct {
	mu sync.Mutex

	order []string
	coins map[string]*coinState
}

func NewState(coins []string) *State {
	order := make([]string, 0, len(coins))
	m := make(map[string]*coinState, len(coins))
	for _, coin := range coins {
		u := strings.ToUpper(strings.TrimSpace(coin))
		if u == "" {
			continue
		}
		order = append(order, u)
		m[u] = &coinState{venues: make(map[string]*pxState)}
	}
	return &State{order: order, coins: m}
}

func (s *State) Coins() []string {
	return s.order
}

// Apply records a tick and reports whether the displayed price changed.
// Ticks for coins outside the watch list are dropped.
func (s *State) Apply(t port.Tick) bool {
	venue := strings.ToUpper(strings.TrimSpace(t.Venue))
	coin := strings.ToUpper(strings.TrimSpace(t.Coin))
	price := strings.TrimSpace(t.PriceStr)
	if coin == "" || price == "" || venue == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.coins[coin]
	if cs == nil {
		return false
	}

	ps := cs.venues[venue]
	if ps == nil {
		ps = &pxState{}
		cs.venues[venue] = ps
	}

	if ps.str == price {
		ps.seen = true
		return false
	}

	ps.str = price
	ps.seen = true

	n, err := strconv.ParseFloat(price, 64)
	if err != nil || n <= 0 {
		ps.parse = false
		ps.dir = DirSame
		return true
	}

	ps.parse = true
	if !ps.has {
		ps.has = true
		ps.num = n
		ps.dir = DirSame
		return true
	}

	prev := ps.num
	switch {
	case n > prev:
		ps.dir = DirUp
	case n < prev:
		ps.dir = DirDown
	default:
		ps.dir = DirSame
	}
	ps.num = n
	return true
}

// VenuePrices returns a copy of the per-venue price states for one coin.
func (s *State) VenuePrices(coin string) map[string]pxState {
	u := strings.ToUpper(strings.TrimSpace(coin))
	if u == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.coins[u]
	if cs == nil {
		return nil
	}
	out := make(map[string]pxState, len(cs.venues))
	for v, ps := range cs.venues {
		out[v] = *ps
	}
	return out
}

// Extremes finds the cheapest and dearest venue with a usable price.
// Needs prices from at least two distinct venues.
func (s *State) Extremes(coin string) (buyVenue, sellVenue string, buy, sell float64, ok bool) {
	u := strings.ToUpper(strings.TrimSpace(coin))
	if u == "" {
		return "", "", 0, 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.coins[u]
	if cs == nil {
		return "", "", 0, 0, false
	}

	for venue, ps := range cs.venues {
		if !(ps.parse && ps.has) {
			continue
		}
		if buyVenue == "" || ps.num < buy || (ps.num == buy && venue < buyVenue) {
			buyVenue, buy = venue, ps.num
		}
		if sellVenue == "" || ps.num > sell || (ps.num == sell && venue < sellVenue) {
			sellVenue, sell = venue, ps.num
		}
	}
	if buyVenue == "" || sellVenue == "" || buyVenue == sellVenue {
		return "", "", 0, 0, false
	}
	return buyVenue, sellVenue, buy, sell, true
}
