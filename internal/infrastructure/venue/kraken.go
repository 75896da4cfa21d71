package venue

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"arbscan/internal/domain/model"
)

const krakenName = "kraken"

// Kraken public REST adapter. Kraken keeps legacy asset codes (XBT for BTC,
// X/Z-prefixed four-letter codes), which canonicalization has to undo.
type Kraken struct {
	client *Client
}

func NewKraken(baseURL string, timeout time.Duration) *Kraken {
	if baseURL == "" {
		baseURL = "https://api.kraken.com"
	}
	return &Kraken{client: NewClient(baseURL, timeout)}
}

func (k *Kraken) Name() string { return krakenName }

type krakenAssetPairsResp struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		WSName string `json:"wsname"`
		Status string `json:"status"`
	} `json:"result"`
}

func (k *Kraken) ListInstruments(ctx context.Context) ([]model.RawInstrument, error) {
	var resp krakenAssetPairsResp
	if err := k.client.GetJSON(ctx, "/0/public/AssetPairs", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Error) > 0 {
		return nil, fmt.Errorf("%w: api error: %s", model.ErrVenueUnavailable, strings.Join(resp.Error, "; "))
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: AssetPairs has no result", model.ErrMalformedResponse)
	}

	out := make([]model.RawInstrument, 0, len(resp.Result))
	for pair, info := range resp.Result {
		if info.Status != "online" {
			continue
		}
		// USD-quoted spot pairs only; wsname is "BASE/QUOTE".
		if !strings.HasSuffix(info.WSName, "/USD") {
			continue
		}
		out = append(out, model.RawInstrument{Venue: krakenName, Symbol: pair, Tradable: true})
	}
	return out, nil
}

type krakenTickerResp struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		C []string `json:"c"` // last trade [price, lot volume]
	} `json:"result"`
}

func (k *Kraken) GetPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{"pair": {symbol}}
	var resp krakenTickerResp
	if err := k.client.GetJSON(ctx, "/0/public/Ticker", params, &resp); err != nil {
		return 0, err
	}
	if len(resp.Error) > 0 {
		return 0, fmt.Errorf("%w: api error: %s", model.ErrVenueUnavailable, strings.Join(resp.Error, "; "))
	}
	if len(resp.Result) == 0 {
		return 0, fmt.Errorf("%w: %s", model.ErrNoData, symbol)
	}

	// The result key can differ from the requested pair; take the first.
	for _, t := range resp.Result {
		if len(t.C) == 0 {
			return 0, fmt.Errorf("%w: ticker has no last trade", model.ErrMalformedResponse)
		}
		price, err := strconv.ParseFloat(t.C[0], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: last price %q: %v", model.ErrMalformedResponse, t.C[0], err)
		}
		return price, nil
	}
	return 0, fmt.Errorf("%w: %s", model.ErrNoData, symbol)
}

// Canonicalize undoes Kraken pair naming: XXBTZUSD -> BTC, ETHUSD -> ETH.
// The quote strip is suffix-anchored (ZUSD, then USD); the legacy X/Z class
// prefix is removed only from four-letter codes, so short bases keep their
// leading letters.
func (k *Kraken) Canonicalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.TrimSuffix(s, "ZUSD")
	s = strings.TrimSuffix(s, "USD")
	if len(s) == 4 && (s[0] == 'X' || s[0] == 'Z') {
		s = s[1:]
	}
	if s == "XBT" {
		return "BTC"
	}
	return s
}
