package venue

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"arbscan/internal/domain/model"
)

const huobiName = "huobi"

// Huobi spot REST adapter. Symbols are lowercase on the wire.
type Huobi struct {
	client *Client
}

func NewHuobi(baseURL string, timeout time.Duration) *Huobi {
	if baseURL == "" {
		baseURL = "https://api.huobi.pro"
	}
	return &Huobi{client: NewClient(baseURL, timeout)}
}

func (h *Huobi) Name() string { return huobiName }

type huobiSymbolsResp struct {
	Status string `json:"status"`
	ErrMsg string `json:"err-msg"`
	Data   []struct {
		Symbol string `json:"symbol"`
		State  string `json:"state"`
	} `json:"data"`
}

func (h *Huobi) ListInstruments(ctx context.Context) ([]model.RawInstrument, error) {
	var resp huobiSymbolsResp
	if err := h.client.GetJSON(ctx, "/v1/common/symbols", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("%w: api error: %s", model.ErrVenueUnavailable, resp.ErrMsg)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: symbols has no data", model.ErrMalformedResponse)
	}

	out := make([]model.RawInstrument, 0, len(resp.Data))
	for _, s := range resp.Data {
		if s.State != "online" || !strings.HasSuffix(s.Symbol, "usdt") {
			continue
		}
		out = append(out, model.RawInstrument{Venue: huobiName, Symbol: s.Symbol, Tradable: true})
	}
	return out, nil
}

type huobiMergedResp struct {
	Status string `json:"status"`
	ErrMsg string `json:"err-msg"`
	Tick   *struct {
		Close float64 `json:"close"`
	} `json:"tick"`
}

func (h *Huobi) GetPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{"symbol": {strings.ToLower(symbol)}}
	var resp huobiMergedResp
	if err := h.client.GetJSON(ctx, "/market/detail/merged", params, &resp); err != nil {
		return 0, err
	}
	if resp.Status != "ok" {
		return 0, fmt.Errorf("%w: api error: %s", model.ErrVenueUnavailable, resp.ErrMsg)
	}
	if resp.Tick == nil {
		return 0, fmt.Errorf("%w: %s", model.ErrNoData, symbol)
	}
	return resp.Tick.Close, nil
}

// Canonicalize uppercases and strips the USDT quote suffix: btcusdt -> BTC.
func (h *Huobi) Canonicalize(symbol string) string {
	return canonicalBase(symbol, "USDT")
}
