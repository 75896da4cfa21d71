package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"arbscan/internal/application/port"
	"arbscan/internal/domain/model"
)

type Repo struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	keyLatest string // prefix + ":latest"
	oppStream string // prefix + ":opportunities"
	oppChan   string // prefix + ":opportunities:pub"
}

type LatestPrice struct {
	Venue string  `json:"venue"`
	Asset string  `json:"asset"`
	Price float64 `json:"price"`
	Ts    int64   `json:"ts"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Repo {
	return &Repo{
		rdb:       rdb,
		prefix:    prefix,
		ttl:       ttl,
		keyLatest: prefix + ":latest",
		oppStream: prefix + ":opportunities",
		oppChan:   prefix + ":opportunities:pub",
	}
}

func (r *Repo) Close() error { return r.rdb.Close() }

func (r *Repo) UpsertLatestPrice(ctx context.Context, venue, asset string, price float64, ts int64) error {
	lp := LatestPrice{Venue: venue, Asset: asset, Price: price, Ts: ts}
	b, _ := json.Marshal(lp)

	// Hash: field = "binance:BTC" -> json
	field := fmt.Sprintf("%s:%s", venue, asset)
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, field, string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) SaveOpportunity(ctx context.Context, opp *model.SpreadOpportunity) error {
	// 1) Stream: XADD <stream> * asset buy sell ...
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.oppStream,
		Values: map[string]any{
			"asset":      opp.Asset,
			"buy_venue":  opp.BuyVenue,
			"sell_venue": opp.SellVenue,
			"buy_price":  opp.BuyPrice,
			"sell_price": opp.SellPrice,
			"spread":     opp.Spread,
			"spread_pct": opp.SpreadPct,
			"ts_ms":      opp.Timestamp,
		},
	}).Result()
	if err != nil {
		return err
	}

	// 2) PubSub: PUBLISH <channel> json
	b, _ := json.Marshal(opp)
	return r.rdb.Publish(ctx, r.oppChan, string(b)).Err()
}

func (r *Repo) InsertScanReport(ctx context.Context, ts int64, payload string) error {
	// reports are derivable from the opportunity stream; not mirrored here
	return nil
}

func (r *Repo) InsertSignal(ctx context.Context, ts int64, asset string, spreadPct float64, payload string) error {
	msg := fmt.Sprintf(`{"ts_ms":%d,"asset":"%s","spread_pct":%.8f,"payload":%q}`, ts, asset, spreadPct, payload)
	return r.rdb.Publish(ctx, r.prefix+":signals", msg).Err()
}

var _ port.Repository = (*Repo)(nil)
