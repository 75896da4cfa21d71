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

const gateioName = "gateio"

// GateIO spot v4 REST adapter. Responses are bare JSON arrays.
type GateIO struct {
	client *Client
}

func NewGateIO(baseURL string, timeout time.Duration) *GateIO {
	if baseURL == "" {
		baseURL = "https://api.gateio.ws"
	}
	return &GateIO{client: NewClient(baseURL, timeout)}
}

func (g *GateIO) Name() string { return gateioName }

type gateioPair struct {
	ID          string `json:"id"`
	TradeStatus string `json:"trade_status"`
}

func (g *GateIO) ListInstruments(ctx context.Context) ([]model.RawInstrument, error) {
	var pairs []gateioPair
	if err := g.client.GetJSON(ctx, "/api/v4/spot/currency_pairs", nil, &pairs); err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: empty currency_pairs response", model.ErrMalformedResponse)
	}

	out := make([]model.RawInstrument, 0, len(pairs))
	for _, p := range pairs {
		if p.TradeStatus != "tradable" || !strings.HasSuffix(p.ID, "_USDT") {
			continue
		}
		out = append(out, model.RawInstrument{Venue: gateioName, Symbol: p.ID, Tradable: true})
	}
	return out, nil
}

type gateioTicker struct {
	Last string `json:"last"`
}

func (g *GateIO) GetPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{"currency_pair": {symbol}}
	var tickers []gateioTicker
	if err := g.client.GetJSON(ctx, "/api/v4/spot/tickers", params, &tickers); err != nil {
		return 0, err
	}
	if len(tickers) == 0 {
		return 0, fmt.Errorf("%w: %s", model.ErrNoData, symbol)
	}
	price, err := strconv.ParseFloat(tickers[0].Last, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: last %q: %v", model.ErrMalformedResponse, tickers[0].Last, err)
	}
	return price, nil
}

// Canonicalize strips the underscored quote suffix: BTC_USDT -> BTC.
func (g *GateIO) Canonicalize(symbol string) string {
	return canonicalBase(symbol, "_USDT")
}
