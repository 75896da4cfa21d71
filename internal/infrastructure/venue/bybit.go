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

const bybitName = "bybit"

// Bybit v5 spot REST adapter.
type Bybit struct {
	client *Client
}

func NewBybit(baseURL string, timeout time.Duration) *Bybit {
	if baseURL == "" {
		baseURL = "https://api.bybit.com"
	}
	return &Bybit{client: NewClient(baseURL, timeout)}
}

func (b *Bybit) Name() string { return bybitName }

type bybitInstrumentsResp struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []struct {
			Symbol string `json:"symbol"`
			Status string `json:"status"`
		} `json:"list"`
	} `json:"result"`
}

func (b *Bybit) ListInstruments(ctx context.Context) ([]model.RawInstrument, error) {
	params := url.Values{"category": {"spot"}}
	var resp bybitInstrumentsResp
	if err := b.client.GetJSON(ctx, "/v5/market/instruments-info", params, &resp); err != nil {
		return nil, err
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("%w: api error %d: %s", model.ErrVenueUnavailable, resp.RetCode, resp.RetMsg)
	}
	if resp.Result.List == nil {
		return nil, fmt.Errorf("%w: instruments-info has no result list", model.ErrMalformedResponse)
	}

	out := make([]model.RawInstrument, 0, len(resp.Result.List))
	for _, s := range resp.Result.List {
		if s.Status != "Trading" || !strings.HasSuffix(s.Symbol, "USDT") {
			continue
		}
		out = append(out, model.RawInstrument{Venue: bybitName, Symbol: s.Symbol, Tradable: true})
	}
	return out, nil
}

type bybitTickersResp struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	} `json:"result"`
}

func (b *Bybit) GetPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{"category": {"spot"}, "symbol": {symbol}}
	var resp bybitTickersResp
	if err := b.client.GetJSON(ctx, "/v5/market/tickers", params, &resp); err != nil {
		return 0, err
	}
	if resp.RetCode != 0 {
		return 0, fmt.Errorf("%w: api error %d: %s", model.ErrVenueUnavailable, resp.RetCode, resp.RetMsg)
	}
	if len(resp.Result.List) == 0 {
		return 0, fmt.Errorf("%w: %s", model.ErrNoData, symbol)
	}
	price, err := strconv.ParseFloat(resp.Result.List[0].LastPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: lastPrice %q: %v", model.ErrMalformedResponse, resp.Result.List[0].LastPrice, err)
	}
	return price, nil
}

// Canonicalize strips the USDT quote suffix: BTCUSDT -> BTC.
func (b *Bybit) Canonicalize(symbol string) string {
	return canonicalBase(symbol, "USDT")
}
