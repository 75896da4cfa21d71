package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"arbscan/internal/application/port"
	appservice "arbscan/internal/application/service"
	"arbscan/internal/application/usecase/watch"
	"arbscan/internal/infrastructure/config"
	"arbscan/internal/infrastructure/feed"
	"arbscan/internal/infrastructure/logger"
	"arbscan/internal/infrastructure/storage"
	"arbscan/internal/infrastructure/venue"
	"arbscan/internal/interfaces/console"
)

func main() {
	logger.Setup()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("config", *configPath).Msg("config not found, using defaults")
			cfg = config.Default()
		} else {
			log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := storage.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("open storage failed")
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("close storage failed")
		}
	}()

	if cfg.Watch.Enabled {
		runWatch(ctx, cfg, repo)
		return
	}
	runScan(ctx, cfg, repo)
}

func runScan(ctx context.Context, cfg *config.Config, repo port.Repository) {
	venues := venue.Build(cfg, cfg.FetchTimeout())
	if len(venues) < cfg.Matcher.MinVenues {
		log.Fatal().
			Int("enabled", len(venues)).
			Int("min_venues", cfg.Matcher.MinVenues).
			Msg("not enough venues enabled")
	}

	scanner := appservice.NewScanner(appservice.ScannerDeps{
		Matcher:      appservice.NewMatcher(venues, cfg.Matcher.MinVenues),
		Fetcher:      appservice.NewFetcher(venues, cfg.FetchTimeout()),
		Repo:         repo,
		TopN:         cfg.Ranker.TopN,
		Interval:     cfg.ScanInterval(),
		RematchEvery: cfg.App.RematchEvery,
	})

	log.Info().
		Int("venues", len(venues)).
		Int("min_venues", cfg.Matcher.MinVenues).
		Int("top_n", cfg.Ranker.TopN).
		Dur("interval", cfg.ScanInterval()).
		Msg("arbscan started")

	if err := scanner.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("scanner exited")
	}
}

func runWatch(ctx context.Context, cfg *config.Config, repo port.Repository) {
	var feeds []port.PriceFeed
	if cfg.Feed.Binance.Enabled {
		feeds = append(feeds, feed.NewBinanceFeed(cfg.Feed.Binance.WsURL))
	} else {
		log.Warn().Msg("binance feed disabled by config")
	}
	if cfg.Feed.Bybit.Enabled {
		feeds = append(feeds, feed.NewBybitFeed(cfg.Feed.Bybit.WsURL))
	} else {
		log.Warn().Msg("bybit feed disabled by config")
	}
	if len(feeds) == 0 {
		log.Fatal().Msg("watch enabled but no feeds enabled")
	}

	svc := watch.NewService(watch.ServiceDeps{
		Feeds:              feeds,
		Coins:              cfg.Watch.Coins,
		PrintEveryMin:      cfg.Watch.PrintEveryMin,
		SpreadThresholdPct: cfg.Watch.SpreadThresholdPct,
		Sink:               console.NewSink(),
		Repo:               repo,
	})

	log.Info().
		Int("coins", len(cfg.Watch.Coins)).
		Int("print_every_min", cfg.Watch.PrintEveryMin).
		Float64("spread_threshold_pct", cfg.Watch.SpreadThresholdPct).
		Msg("arbscan watch started")

	if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("watch service exited")
	}
}
