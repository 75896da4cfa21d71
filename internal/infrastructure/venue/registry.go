package venue

import (
	"time"

	"arbscan/internal/application/port"
	"arbscan/internal/infrastructure/config"
)

// Build constructs the enabled venue adapters from configuration. Order is
// fixed so downstream output stays reproducible across runs.
func Build(cfg *config.Config, timeout time.Duration) []port.Venue {
	var venues []port.Venue
	if cfg.Venue.Binance.Enabled {
		venues = append(venues, NewBinance(cfg.Venue.Binance.BaseURL, timeout))
	}
	if cfg.Venue.Bybit.Enabled {
		venues = append(venues, NewBybit(cfg.Venue.Bybit.BaseURL, timeout))
	}
	if cfg.Venue.Kraken.Enabled {
		venues = append(venues, NewKraken(cfg.Venue.Kraken.BaseURL, timeout))
	}
	if cfg.Venue.OKX.Enabled {
		venues = append(venues, NewOKX(cfg.Venue.OKX.BaseURL, timeout))
	}
	if cfg.Venue.Huobi.Enabled {
		venues = append(venues, NewHuobi(cfg.Venue.Huobi.BaseURL, timeout))
	}
	if cfg.Venue.GateIO.Enabled {
		venues = append(venues, NewGateIO(cfg.Venue.GateIO.BaseURL, timeout))
	}
	return venues
}
