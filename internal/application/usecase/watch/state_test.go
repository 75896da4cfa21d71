package watch

import (
	"testing"

	"arbscan/internal/application/port"
)

func tick(venue, coin, price string, num float64) port.Tick {
	return port.Tick{Venue: venue, Coin: coin, PriceStr: price, PriceNum: num, Ts: 1}
}

func TestStateApplyDirections(t *testing.T) {
	st := NewState([]string{"btc"})

	if !st.Apply(tick("BINANCE", "BTC", "100.0", 100)) {
		t.Fatal("first tick should change state")
	}
	if st.Apply(tick("BINANCE", "BTC", "100.0", 100)) {
		t.Fatal("identical price string should not change state")
	}
	if !st.Apply(tick("BINANCE", "BTC", "101.0", 101)) {
		t.Fatal("new price should change state")
	}

	ps := st.VenuePrices("BTC")["BINANCE"]
	if ps.dir != DirUp {
		t.Fatalf("dir = %d, want DirUp", ps.dir)
	}

	st.Apply(tick("BINANCE", "BTC", "99.5", 99.5))
	ps = st.VenuePrices("BTC")["BINANCE"]
	if ps.dir != DirDown {
		t.Fatalf("dir = %d, want DirDown", ps.dir)
	}
}

func TestStateIgnoresUnknownCoin(t *testing.T) {
	st := NewState([]string{"BTC"})
	if st.Apply(tick("BINANCE", "DOGE", "0.1", 0.1)) {
		t.Fatal("tick for unwatched coin should be dropped")
	}
}

func TestStateExtremes(t *testing.T) {
	st := NewState([]string{"ETH"})
	st.Apply(tick("BINANCE", "ETH", "2000", 2000))

	if _, _, _, _, ok := st.Extremes("ETH"); ok {
		t.Fatal("single venue should not produce extremes")
	}

	st.Apply(tick("BYBIT", "ETH", "2010", 2010))
	st.Apply(tick("KRAKEN", "ETH", "1995", 1995))

	buyVenue, sellVenue, buy, sell, ok := st.Extremes("ETH")
	if !ok {
		t.Fatal("expected extremes with three venues")
	}
	if buyVenue != "KRAKEN" || sellVenue != "BYBIT" {
		t.Fatalf("venues = %s/%s, want KRAKEN/BYBIT", buyVenue, sellVenue)
	}
	if buy != 1995 || sell != 2010 {
		t.Fatalf("prices = %v/%v, want 1995/2010", buy, sell)
	}
}

func TestStateUnparseablePrice(t *testing.T) {
	st := NewState([]string{"BTC"})
	st.Apply(tick("BINANCE", "BTC", "100", 100))
	st.Apply(tick("BYBIT", "BTC", "n/a", 0))

	if _, _, _, _, ok := st.Extremes("BTC"); ok {
		t.Fatal("unparseable price should not count as a venue")
	}
}
