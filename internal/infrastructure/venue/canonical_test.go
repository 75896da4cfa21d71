package venue

import (
	"testing"
	"time"
)

// Separator-style symbols canonicalize by stripping their venue's quote
// suffix only; anything else passes through uppercased.
func TestCanonicalizeAcrossVenues(t *testing.T) {
	okx := NewOKX("", time.Second)
	huobi := NewHuobi("", time.Second)
	gate := NewGateIO("", time.Second)

	cases := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"okx dash pair", okx.Canonicalize, "BTC-USDT", "BTC"},
		{"okx lowercase", okx.Canonicalize, "sol-usdt", "SOL"},
		{"okx foreign quote kept", okx.Canonicalize, "BTC-USDC", "BTC-USDC"},
		{"huobi lowercase pair", huobi.Canonicalize, "btcusdt", "BTC"},
		{"huobi no suffix", huobi.Canonicalize, "btc", "BTC"},
		{"gate underscore pair", gate.Canonicalize, "BTC_USDT", "BTC"},
		{"gate lowercase", gate.Canonicalize, "eth_usdt", "ETH"},
	}

	for _, tc := range cases {
		if got := tc.fn(tc.in); got != tc.want {
			t.Errorf("%s: Canonicalize(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}
