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

const okxName = "okx"

// OKX v5 spot REST adapter.
type OKX struct {
	client *Client
}

func NewOKX(baseURL string, timeout time.Duration) *OKX {
	if baseURL == "" {
		baseURL = "https://www.okx.com"
	}
	return &OKX{client: NewClient(baseURL, timeout)}
}

func (o *OKX) Name() string { return okxName }

type okxInstrumentsResp struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		InstID string `json:"instId"`
		State  string `json:"state"`
	} `json:"data"`
}

func (o *OKX) ListInstruments(ctx context.Context) ([]model.RawInstrument, error) {
	params := url.Values{"instType": {"SPOT"}}
	var resp okxInstrumentsResp
	if err := o.client.GetJSON(ctx, "/api/v5/public/instruments", params, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("%w: api error %s: %s", model.ErrVenueUnavailable, resp.Code, resp.Msg)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: instruments has no data", model.ErrMalformedResponse)
	}

	out := make([]model.RawInstrument, 0, len(resp.Data))
	for _, s := range resp.Data {
		if s.State != "live" || !strings.HasSuffix(s.InstID, "-USDT") {
			continue
		}
		out = append(out, model.RawInstrument{Venue: okxName, Symbol: s.InstID, Tradable: true})
	}
	return out, nil
}

type okxTickerResp struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		Last string `json:"last"`
	} `json:"data"`
}

func (o *OKX) GetPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{"instId": {symbol}}
	var resp okxTickerResp
	if err := o.client.GetJSON(ctx, "/api/v5/market/ticker", params, &resp); err != nil {
		return 0, err
	}
	if resp.Code != "0" {
		return 0, fmt.Errorf("%w: api error %s: %s", model.ErrVenueUnavailable, resp.Code, resp.Msg)
	}
	if len(resp.Data) == 0 {
		return 0, fmt.Errorf("%w: %s", model.ErrNoData, symbol)
	}
	price, err := strconv.ParseFloat(resp.Data[0].Last, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: last %q: %v", model.ErrMalformedResponse, resp.Data[0].Last, err)
	}
	return price, nil
}

// Canonicalize strips the dashed quote suffix: BTC-USDT -> BTC.
func (o *OKX) Canonicalize(symbol string) string {
	return canonicalBase(symbol, "-USDT")
}
