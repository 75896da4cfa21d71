package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"arbscan/internal/application/port"
)

// BinanceFeed streams spot miniTicker updates over the combined-stream
// endpoint. Coins go in canonical, symbols come back as <COIN>USDT.
type BinanceFeed struct {
	wsURL string // e.g. wss://stream.binance.com:9443
}

func NewBinanceFeed(wsURL string) *BinanceFeed {
	return &BinanceFeed{wsURL: strings.TrimSpace(wsURL)}
}

func (f *BinanceFeed) Name() string { return "BINANCE" }

type binanceCombined struct {
	Stream string `json:"stream"`
	Data   struct {
		Symbol string `json:"s"`
		Close  string `json:"c"`
	} `json:"data"`
}

func (f *BinanceFeed) Subscribe(ctx context.Context, coins []string) (<-chan port.Tick, error) {
	wsURL, err := buildCombinedURL(f.wsURL, coins)
	if err != nil {
		return nil, err
	}

	out := make(chan port.Tick, 1024)
	go f.run(ctx, wsURL, out)
	return out, nil
}

func buildCombinedURL(base string, coins []string) (string, error) {
	if base == "" {
		return "", errors.New("binance ws url empty")
	}

	streams := make([]string, 0, len(coins))
	for _, c := range coins {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		streams = append(streams, fmt.Sprintf("%susdt@miniTicker", c))
	}
	if len(streams) == 0 {
		return "", errors.New("no coins to subscribe")
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = "/stream"
	u.RawQuery = "streams=" + strings.Join(streams, "/")
	return u.String(), nil
}

func (f *BinanceFeed) run(ctx context.Context, wsURL string, out chan<- port.Tick) {
	defer close(out)

	backoff := 500 * time.Millisecond
	maxBackoff := 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		conn, _, err := websocket.DefaultDialer.DialContext(cctx, wsURL, nil)
		cancel()
		if err != nil {
			log.Error().Str("feed", f.Name()).Err(err).Msg("ws dial failed")
			time.Sleep(backoff)
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		backoff = 500 * time.Millisecond
		log.Info().Str("feed", f.Name()).Msg("ws connected")

		err = readLoop(ctx, conn, func(b []byte) {
			var msg binanceCombined
			if e := json.Unmarshal(b, &msg); e != nil {
				return
			}
			sym := strings.ToUpper(msg.Data.Symbol)
			pxs := strings.TrimSpace(msg.Data.Close)
			if sym == "" || pxs == "" {
				return
			}
			pxn, _ := strconv.ParseFloat(pxs, 64)
			out <- port.Tick{
				Venue:    f.Name(),
				Coin:     strings.TrimSuffix(sym, "USDT"),
				PriceStr: pxs,
				PriceNum: pxn,
				Ts:       time.Now().UnixMilli(),
			}
		})

		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}

		log.Warn().Str("feed", f.Name()).Err(err).Msg("ws disconnected, reconnecting")
		time.Sleep(backoff)
		backoff = minDur(backoff*2, maxBackoff)
	}
}
