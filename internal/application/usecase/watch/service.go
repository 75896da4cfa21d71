package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"arbscan/internal/application/port"
	dsvc "arbscan/internal/domain/service"
)

type ServiceDeps struct {
	Feeds              []port.PriceFeed
	Coins              []string
	PrintEveryMin      int
	SpreadThresholdPct float64
	Sink               port.Sink
	Repo               port.Repository
}

// Service renders a live cross-venue price line from websocket feeds and
// records a signal whenever the widest spread crosses the threshold.
type Service struct {
	deps ServiceDeps
	st   *State
	fmt  *Formatter

	lastBand map[string]int // coin -> band of the last emitted signal
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		deps:     deps,
		st:       NewState(deps.Coins),
		fmt:      NewFormatter(deps.SpreadThresholdPct),
		lastBand: make(map[string]int),
	}
}

func (s *Service) Run(ctx context.Context) error {
	if len(s.deps.Feeds) == 0 {
		return errors.New("no feeds")
	}

	merged := make(chan port.Tick, 1024)

	for _, feed := range s.deps.Feeds {
		ch, err := feed.Subscribe(ctx, s.deps.Coins)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", feed.Name(), err)
		}
		go func(in <-chan port.Tick) {
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-in:
					if !ok {
						return
					}
					merged <- t
				}
			}
		}(ch)

		log.Info().Str("feed", feed.Name()).Msg("feed started")
	}

	snapTicker := time.NewTicker(time.Duration(s.deps.PrintEveryMin) * time.Minute)
	defer snapTicker.Stop()

	_ = s.deps.Sink.WriteLive(s.fmt.Render(s.st, RenderLive))

	for {
		select {
		case <-ctx.Done():
			_ = s.deps.Sink.NewLine()
			return ctx.Err()

		case now := <-snapTicker.C:
			line := s.fmt.Render(s.st, RenderSnapshot)
			_ = s.deps.Sink.WriteSnapshot(now, line)
			_ = s.deps.Repo.InsertScanReport(ctx, now.UnixMilli(), line)

		case t := <-merged:
			changed := s.st.Apply(t)
			if changed {
				_ = s.deps.Sink.WriteLive(s.fmt.Render(s.st, RenderLive))
				s.maybeSignal(ctx, t.Coin, t.Ts)
			}
			if t.PriceNum > 0 {
				_ = s.deps.Repo.UpsertLatestPrice(ctx, t.Venue, t.Coin, t.PriceNum, t.Ts)
			}
		}
	}
}

// maybeSignal records one signal per threshold crossing, not one per tick.
func (s *Service) maybeSignal(ctx context.Context, coin string, ts int64) {
	buyVenue, sellVenue, buy, sell, ok := s.st.Extremes(coin)
	if !ok {
		return
	}

	pct := dsvc.SpreadPct(buy, sell)
	band := dsvc.Band(pct, s.deps.SpreadThresholdPct)
	if band == s.lastBand[coin] {
		return
	}
	s.lastBand[coin] = band
	if band == 0 {
		return
	}

	payload := fmt.Sprintf(`{"buy_venue":"%s","sell_venue":"%s","buy_price":%.8f,"sell_price":%.8f}`,
		buyVenue, sellVenue, buy, sell)
	if err := s.deps.Repo.InsertSignal(ctx, ts, coin, pct, payload); err != nil {
		log.Warn().Err(err).Str("asset", coin).Msg("signal persist failed")
	}

	log.Info().
		Str("asset", coin).
		Str("buy", buyVenue).
		Str("sell", sellVenue).
		Float64("spread_pct", pct).
		Msg("spread threshold crossed")
}
