// ABOUTME: Redis cache of each plant's trailing conversation window
// ABOUTME: Lists keyed per plant; a missing key is a miss, the store stays the source of truth
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/plant-texts/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix   = "planttexts:history"
	DefaultCapacity = 50
	DefaultTTL      = 24 * time.Hour
)

// errStale aborts a warm whose store snapshot predates a newer write
var errStale = errors.New("history generation moved")

// Cache keeps the most recent turns of each conversation in a Redis list.
// Every write bumps a per-plant generation counter; Warm only fills a list
// when the generation it was given is still current.
type Cache struct {
	rdb      redis.UniversalClient
	prefix   string
	capacity int
	ttl      time.Duration
}

// New creates a cache over an existing client. capacity bounds each list.
func New(rdb redis.UniversalClient, capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, prefix: DefaultPrefix, capacity: capacity, ttl: ttl}
}

// Dial parses a redis:// URL and pings the server
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return client, nil
}

func (c *Cache) key(plantID string) string {
	return c.prefix + ":" + plantID
}

func (c *Cache) genKey(plantID string) string {
	return c.prefix + ":" + plantID + ":gen"
}

// Generation returns the plant's current write generation. Read it before
// loading turns from the store and hand it to Warm.
func (c *Cache) Generation(ctx context.Context, plantID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey(plantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Recent returns up to n trailing turns, oldest first. ok is false on a
// cache miss, which is different from a cached but short history.
func (c *Cache) Recent(ctx context.Context, plantID string, n int) (turns []models.ConversationTurn, ok bool, err error) {
	key := c.key(plantID)

	var exists *redis.IntCmd
	var values *redis.StringSliceCmd
	_, err = c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		exists = p.Exists(ctx, key)
		values = p.LRange(ctx, key, int64(-n), -1)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if exists.Val() == 0 {
		return nil, false, nil
	}

	// A warm that raced an append can leave the same turn in the list twice
	seen := make(map[string]struct{}, len(values.Val()))
	turns = make([]models.ConversationTurn, 0, len(values.Val()))
	for _, v := range values.Val() {
		var turn models.ConversationTurn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			return nil, false, fmt.Errorf("corrupt cached turn for %s: %w", plantID, err)
		}
		if _, dup := seen[turn.TurnID]; dup {
			continue
		}
		seen[turn.TurnID] = struct{}{}
		turns = append(turns, turn)
	}
	return turns, true, nil
}

// Warm replaces the cached list with turns loaded from the store. gen must
// be the Generation read before the store was queried; if another write has
// happened since, the snapshot may be missing turns and the list is left
// cold. An empty history is not cached.
func (c *Cache) Warm(ctx context.Context, plantID string, gen int64, turns []models.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	values, err := encode(turns)
	if err != nil {
		return err
	}
	key, gk := c.key(plantID), c.genKey(plantID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, key)
			p.RPush(ctx, key, values...)
			p.LTrim(ctx, key, int64(-c.capacity), -1)
			p.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, gk)
	if errors.Is(err, errStale) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Append adds turns to an already-cached list. A cold key stays cold so a
// partial list never masquerades as the full history.
func (c *Cache) Append(ctx context.Context, plantID string, turns ...models.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	values, err := encode(turns)
	if err != nil {
		return err
	}
	key, gk := c.key(plantID), c.genKey(plantID)
	_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, gk)
		p.Expire(ctx, gk, c.ttl)
		p.RPushX(ctx, key, values...)
		p.LTrim(ctx, key, int64(-c.capacity), -1)
		p.Expire(ctx, key, c.ttl)
		return nil
	})
	return err
}

// Invalidate drops a plant's cached history and bumps its generation so
// warms already in flight are discarded
func (c *Cache) Invalidate(ctx context.Context, plantID string) error {
	gk := c.genKey(plantID)
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, c.key(plantID))
		p.Incr(ctx, gk)
		p.Expire(ctx, gk, c.ttl)
		return nil
	})
	return err
}

func encode(turns []models.ConversationTurn) ([]interface{}, error) {
	values := make([]interface{}, len(turns))
	for i, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return nil, err
		}
		values[i] = string(data)
	}
	return values, nil
}
