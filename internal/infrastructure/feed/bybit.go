package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"arbscan/internal/application/port"
)

// BybitFeed streams spot ticker updates over the v5 public endpoint.
type BybitFeed struct {
	wsURL string // e.g. wss://stream.bybit.com/v5/public/spot
}

func NewBybitFeed(wsURL string) *BybitFeed {
	return &BybitFeed{wsURL: strings.TrimSpace(wsURL)}
}

func (f *BybitFeed) Name() string { return "BYBIT" }

type bybitSubReq struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

type bybitTickerMsg struct {
	Topic string `json:"topic"`
	Data  struct {
		Symbol    string `json:"symbol"`
		LastPrice string `json:"lastPrice"`
	} `json:"data"`
}

func (f *BybitFeed) Subscribe(ctx context.Context, coins []string) (<-chan port.Tick, error) {
	if f.wsURL == "" {
		return nil, errors.New("bybit ws url empty")
	}

	args := make([]string, 0, len(coins))
	for _, c := range coins {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		args = append(args, fmt.Sprintf("tickers.%sUSDT", c))
	}
	if len(args) == 0 {
		return nil, errors.New("no coins to subscribe")
	}

	out := make(chan port.Tick, 1024)
	go f.run(ctx, args, out)
	return out, nil
}

func (f *BybitFeed) run(ctx context.Context, args []string, out chan<- port.Tick) {
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
		conn, _, err := websocket.DefaultDialer.DialContext(cctx, f.wsURL, nil)
		cancel()
		if err != nil {
			log.Error().Str("feed", f.Name()).Err(err).Msg("ws dial failed")
			time.Sleep(backoff)
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		if err := conn.WriteJSON(bybitSubReq{Op: "subscribe", Args: args}); err != nil {
			log.Error().Str("feed", f.Name()).Err(err).Msg("subscribe failed")
			_ = conn.Close()
			time.Sleep(backoff)
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		backoff = 500 * time.Millisecond
		log.Info().Str("feed", f.Name()).Int("topics", len(args)).Msg("ws connected")

		err = readLoop(ctx, conn, func(b []byte) {
			var msg bybitTickerMsg
			if e := json.Unmarshal(b, &msg); e != nil {
				return
			}
			if !strings.HasPrefix(msg.Topic, "tickers.") {
				return
			}
			sym := strings.ToUpper(msg.Data.Symbol)
			pxs := strings.TrimSpace(msg.Data.LastPrice)
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
