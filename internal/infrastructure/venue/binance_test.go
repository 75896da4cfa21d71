package venue

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arbscan/internal/domain/model"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestBinanceListInstruments(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/exchangeInfo" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"symbols":[
			{"symbol":"BTCUSDT","status":"TRADING"},
			{"symbol":"ETHUSDT","status":"TRADING"},
			{"symbol":"DOGEUSDT","status":"BREAK"},
			{"symbol":"BTCBUSD","status":"TRADING"}
		]}`))
	})

	b := NewBinance(srv.URL, time.Second)
	got, err := b.ListInstruments(context.Background())
	if err != nil {
		t.Fatalf("ListInstruments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d instruments, want 2 (USDT, trading only)", len(got))
	}
	if got[0].Symbol != "BTCUSDT" || got[1].Symbol != "ETHUSDT" {
		t.Fatalf("unexpected symbols: %+v", got)
	}
}

func TestBinanceGetPrice(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") != "BTCUSDT" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"65001.50"}`))
	})

	b := NewBinance(srv.URL, time.Second)
	price, err := b.GetPrice(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("GetPrice: %v", err)
	}
	if price != 65001.50 {
		t.Fatalf("price = %v, want 65001.50", price)
	}
}

func TestBinanceServerErrorIsUnavailable(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	b := NewBinance(srv.URL, time.Second)
	_, err := b.GetPrice(context.Background(), "BTCUSDT")
	if !errors.Is(err, model.ErrVenueUnavailable) {
		t.Fatalf("err = %v, want ErrVenueUnavailable", err)
	}
}

func TestBinanceBadJSONIsMalformed(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	b := NewBinance(srv.URL, time.Second)
	_, err := b.GetPrice(context.Background(), "BTCUSDT")
	if !errors.Is(err, model.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestBinanceCanonicalize(t *testing.T) {
	b := NewBinance("", time.Second)
	cases := map[string]string{
		"BTCUSDT":  "BTC",
		"ethusdt":  "ETH",
		"SOLUSDT":  "SOL",
		"USDTUSDT": "USDT",
	}
	for in, want := range cases {
		if got := b.Canonicalize(in); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
}
