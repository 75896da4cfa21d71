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

const binanceName = "binance"

// Binance spot REST adapter.
type Binance struct {
	client *Client
}

func NewBinance(baseURL string, timeout time.Duration) *Binance {
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	return &Binance{client: NewClient(baseURL, timeout)}
}

func (b *Binance) Name() string { return binanceName }

type binanceExchangeInfo struct {
	Symbols []struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	} `json:"symbols"`
}

func (b *Binance) ListInstruments(ctx context.Context) ([]model.RawInstrument, error) {
	var info binanceExchangeInfo
	if err := b.client.GetJSON(ctx, "/api/v3/exchangeInfo", nil, &info); err != nil {
		return nil, err
	}
	if len(info.Symbols) == 0 {
		return nil, fmt.Errorf("%w: exchangeInfo has no symbols", model.ErrMalformedResponse)
	}

	out := make([]model.RawInstrument, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status != "TRADING" || !strings.HasSuffix(s.Symbol, "USDT") {
			continue
		}
		out = append(out, model.RawInstrument{Venue: binanceName, Symbol: s.Symbol, Tradable: true})
	}
	return out, nil
}

type binanceTicker struct {
	Code  int    `json:"code"`
	Msg   string `json:"msg"`
	Price string `json:"price"`
}

func (b *Binance) GetPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{"symbol": {symbol}}
	var t binanceTicker
	if err := b.client.GetJSON(ctx, "/api/v3/ticker/price", params, &t); err != nil {
		return 0, err
	}
	if t.Code != 0 {
		return 0, fmt.Errorf("%w: api error %d: %s", model.ErrVenueUnavailable, t.Code, t.Msg)
	}
	if t.Price == "" {
		return 0, fmt.Errorf("%w: ticker has no price field", model.ErrMalformedResponse)
	}
	price, err := strconv.ParseFloat(t.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q: %v", model.ErrMalformedResponse, t.Price, err)
	}
	return price, nil
}

// Canonicalize strips the USDT quote suffix: BTCUSDT -> BTC.
func (b *Binance) Canonicalize(symbol string) string {
	return canonicalBase(symbol, "USDT")
}
