// internal/orbit/presence.go
// Live positions in a Redis GEO set so nearby lookups don't scan Postgres.

package orbit

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	presenceGeoKey = "orbit:presence"
	// presenceSeenPrefix tracks freshness per user; GEO members have no TTL
	// of their own, so stale members are filtered on read.
	presenceSeenPrefix = "orbit:presence:seen:"
	presenceTTL        = 10 * time.Minute
)

// Presence is a best-effort index: every method tolerates a nil client
// and degrades to "no data" so callers fall back to Postgres.
type Presence struct {
	redis *redis.Client
}

func NewPresence(client *redis.Client) *Presence {
	return &Presence{redis: client}
}

func (p *Presence) Enabled() bool {
	return p != nil && p.redis != nil
}

// Track records a fresh position for the user.
func (p *Presence) Track(ctx context.Context, userID int64, lat, lng float64) error {
	if !p.Enabled() {
		return nil
	}

	member := strconv.FormatInt(userID, 10)
	pipe := p.redis.Pipeline()
	pipe.GeoAdd(ctx, presenceGeoKey, &redis.GeoLocation{
		Name:      member,
		Latitude:  lat,
		Longitude: lng,
	})
	pipe.Set(ctx, presenceSeenPrefix+member, "1", presenceTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Forget drops the user from the live set.
func (p *Presence) Forget(ctx context.Context, userID int64) error {
	if !p.Enabled() {
		return nil
	}

	member := strconv.FormatInt(userID, 10)
	pipe := p.redis.Pipeline()
	pipe.ZRem(ctx, presenceGeoKey, member)
	pipe.Del(ctx, presenceSeenPrefix+member)
	_, err := pipe.Exec(ctx)
	return err
}

// Nearby returns user ids within radiusMeters of the given point,
// closest first, filtered down to members seen within the TTL.
func (p *Presence) Nearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]int64, error) {
	if !p.Enabled() {
		return nil, nil
	}

	results, err := p.redis.GeoSearch(ctx, presenceGeoKey, &redis.GeoSearchQuery{
		Latitude:   lat,
		Longitude:  lng,
		Radius:     radiusMeters,
		RadiusUnit: "m",
		Sort:       "ASC",
		Count:      limit,
	}).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(results))
	for _, member := range results {
		seen, err := p.redis.Exists(ctx, presenceSeenPrefix+member).Result()
		if err != nil || seen == 0 {
			continue
		}
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
