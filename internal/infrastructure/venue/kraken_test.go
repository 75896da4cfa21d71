package venue

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"arbscan/internal/domain/model"
)

func TestKrakenListInstruments(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/0/public/AssetPairs" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"error":[],"result":{
			"XXBTZUSD":{"wsname":"XBT/USD","status":"online"},
			"XETHZUSD":{"wsname":"ETH/USD","status":"online"},
			"XXBTZEUR":{"wsname":"XBT/EUR","status":"online"},
			"SOLUSD":{"wsname":"SOL/USD","status":"cancel_only"}
		}}`))
	})

	k := NewKraken(srv.URL, time.Second)
	got, err := k.ListInstruments(context.Background())
	if err != nil {
		t.Fatalf("ListInstruments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d instruments, want 2 (online /USD only): %+v", len(got), got)
	}
	for _, in := range got {
		if in.Symbol != "XXBTZUSD" && in.Symbol != "XETHZUSD" {
			t.Fatalf("unexpected instrument %+v", in)
		}
	}
}

func TestKrakenGetPrice(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":[],"result":{"XXBTZUSD":{"c":["64990.10000","0.001"]}}}`))
	})

	k := NewKraken(srv.URL, time.Second)
	price, err := k.GetPrice(context.Background(), "XXBTZUSD")
	if err != nil {
		t.Fatalf("GetPrice: %v", err)
	}
	if price != 64990.1 {
		t.Fatalf("price = %v, want 64990.1", price)
	}
}

func TestKrakenAPIErrorIsUnavailable(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":["EGeneral:Internal error"],"result":{}}`))
	})

	k := NewKraken(srv.URL, time.Second)
	_, err := k.GetPrice(context.Background(), "XXBTZUSD")
	if !errors.Is(err, model.ErrVenueUnavailable) {
		t.Fatalf("err = %v, want ErrVenueUnavailable", err)
	}
}

func TestKrakenEmptyResultIsNoData(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":[],"result":{}}`))
	})

	k := NewKraken(srv.URL, time.Second)
	_, err := k.GetPrice(context.Background(), "NOPEUSD")
	if !errors.Is(err, model.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestKrakenCanonicalize(t *testing.T) {
	k := NewKraken("", time.Second)
	cases := map[string]string{
		"XXBTZUSD": "BTC", // legacy class prefixes plus XBT alias
		"XETHZUSD": "ETH",
		"XBTUSD":   "BTC",
		"ETHUSD":   "ETH",
		"SOLUSD":   "SOL",
		"ADAUSD":   "ADA", // 3-letter base, no prefix strip
		"XRPUSD":   "XRP", // leading X kept on 3-letter codes
		"ZEUSUSD":  "EUS", // 4-letter Z code loses its prefix
	}
	for in, want := range cases {
		if got := k.Canonicalize(in); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
}
