package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type VenueConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
}

type FeedConfig struct {
	Enabled bool   `toml:"enabled"`
	WsURL   string `toml:"ws_url"`
}

type Config struct {
	App struct {
		ScanIntervalSec int `toml:"scan_interval_sec"`
		RematchEvery    int `toml:"rematch_every"`
	} `toml:"app"`

	Matcher struct {
		MinVenues int `toml:"min_venues"`
	} `toml:"matcher"`

	Fetch struct {
		TimeoutSec int `toml:"timeout_sec"`
	} `toml:"fetch"`

	Ranker struct {
		TopN int `toml:"top_n"`
	} `toml:"ranker"`

	Venue struct {
		Binance VenueConfig `toml:"binance"`
		Bybit   VenueConfig `toml:"bybit"`
		Kraken  VenueConfig `toml:"kraken"`
		OKX     VenueConfig `toml:"okx"`
		Huobi   VenueConfig `toml:"huobi"`
		GateIO  VenueConfig `toml:"gateio"`
	} `toml:"venue"`

	Watch struct {
		Enabled            bool     `toml:"enabled"`
		Coins              []string `toml:"coins"`
		SpreadThresholdPct float64  `toml:"spread_threshold_pct"`
		PrintEveryMin      int      `toml:"print_every_min"`
	} `toml:"watch"`

	Feed struct {
		Binance FeedConfig `toml:"binance"`
		Bybit   FeedConfig `toml:"bybit"`
	} `toml:"feed"`

	Storage struct {
		Driver      string `toml:"driver"` // none | sqlite | postgres | redis, comma-separated for fan-out
		SQLitePath  string `toml:"sqlite_path"`
		PostgresDSN string `toml:"postgres_dsn"`
		RedisAddr   string `toml:"redis_addr"`
		RedisPrefix string `toml:"redis_prefix"`
		RedisTTLSec int    `toml:"redis_ttl_sec"`
	} `toml:"storage"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present: all venues
// on their public endpoints, matching and ranking per observed behavior.
func Default() *Config {
	var cfg Config
	cfg.Venue.Binance.Enabled = true
	cfg.Venue.Bybit.Enabled = true
	cfg.Venue.Kraken.Enabled = true
	cfg.Venue.OKX.Enabled = true
	cfg.Venue.Huobi.Enabled = true
	cfg.Venue.GateIO.Enabled = true
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.App.ScanIntervalSec <= 0 {
		cfg.App.ScanIntervalSec = 30
	}
	if cfg.App.RematchEvery <= 0 {
		cfg.App.RematchEvery = 20
	}
	if cfg.Matcher.MinVenues <= 0 {
		cfg.Matcher.MinVenues = 3
	}
	if cfg.Fetch.TimeoutSec <= 0 {
		cfg.Fetch.TimeoutSec = 5
	}
	if cfg.Ranker.TopN <= 0 {
		cfg.Ranker.TopN = 3
	}
	if cfg.Watch.SpreadThresholdPct <= 0 {
		cfg.Watch.SpreadThresholdPct = 5.0
	}
	if cfg.Watch.PrintEveryMin <= 0 {
		cfg.Watch.PrintEveryMin = 5
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "none"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/arbscan.db"
	}
	if cfg.Storage.RedisPrefix == "" {
		cfg.Storage.RedisPrefix = "arbscan"
	}
	if cfg.Feed.Binance.WsURL == "" {
		cfg.Feed.Binance.WsURL = "wss://stream.binance.com:9443"
	}
	if cfg.Feed.Bybit.WsURL == "" {
		cfg.Feed.Bybit.WsURL = "wss://stream.bybit.com/v5/public/spot"
	}
}

func validate(cfg *Config) error {
	if cfg.Matcher.MinVenues < 2 {
		return errors.New("matcher.min_venues must be at least 2")
	}

	enabled := 0
	for _, v := range []VenueConfig{
		cfg.Venue.Binance, cfg.Venue.Bybit, cfg.Venue.Kraken,
		cfg.Venue.OKX, cfg.Venue.Huobi, cfg.Venue.GateIO,
	} {
		if v.Enabled {
			enabled++
		}
	}
	if enabled < cfg.Matcher.MinVenues {
		return fmt.Errorf("only %d venues enabled, matcher.min_venues is %d", enabled, cfg.Matcher.MinVenues)
	}

	drivers := cfg.StorageDrivers()
	if len(drivers) == 0 {
		return errors.New("storage.driver is empty")
	}
	for _, d := range drivers {
		switch d {
		case "none", "sqlite":
		case "postgres":
			if strings.TrimSpace(cfg.Storage.PostgresDSN) == "" {
				return errors.New("storage.postgres_dsn empty but driver is postgres")
			}
		case "redis":
			if strings.TrimSpace(cfg.Storage.RedisAddr) == "" {
				return errors.New("storage.redis_addr empty but driver is redis")
			}
		default:
			return fmt.Errorf("unknown storage.driver %q", d)
		}
	}
	if len(drivers) > 1 {
		for _, d := range drivers {
			if d == "none" {
				return errors.New(`storage.driver "none" cannot be combined with other drivers`)
			}
		}
	}

	if cfg.Watch.Enabled {
		cfg.Watch.Coins = normalizeCoins(cfg.Watch.Coins)
		if len(cfg.Watch.Coins) == 0 {
			return errors.New("watch.coins is empty but watch enabled")
		}
		if !cfg.Feed.Binance.Enabled && !cfg.Feed.Bybit.Enabled {
			return errors.New("watch enabled but no feeds enabled")
		}
	}
	return nil
}

// StorageDrivers splits storage.driver into the distinct backends to open.
func (cfg *Config) StorageDrivers() []string {
	parts := strings.Split(cfg.Storage.Driver, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, p := range parts {
		d := strings.ToLower(strings.TrimSpace(p))
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func (cfg *Config) ScanInterval() time.Duration {
	return time.Duration(cfg.App.ScanIntervalSec) * time.Second
}

func (cfg *Config) FetchTimeout() time.Duration {
	return time.Duration(cfg.Fetch.TimeoutSec) * time.Second
}

func normalizeCoins(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		u := strings.ToUpper(strings.TrimSpace(s))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
