// Package cache — кэш предупреждений о спорности поверх Redis.
package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/fritter-signals/internal/models"
)

// WarningCache — минимальный контракт кэша предупреждений.
type WarningCache interface {
	// Get возвращает предупреждение и признак его наличия в кэше.
	Get(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, bool, error)
	// Set сохраняет предупреждение, если в кэше нет более нового (по числу голосов).
	Set(ctx context.Context, w *models.ControversyWarning) error
	// Delete удаляет запись поста.
	Delete(ctx context.Context, postID uuid.UUID) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// setIfNewer записывает хэш, только если сохранённый cnt не больше нового.
// Голоса только прибавляются, поэтому устаревшая запись не перетирает свежую.
var setIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'cnt')
if cur and tonumber(cur) > tonumber(ARGV[2]) then
	return 0
end
redis.call('HSET', KEYS[1], 'id', ARGV[1], 'cnt', ARGV[2], 'voters', ARGV[3], 'act', ARGV[4], 'cat', ARGV[5], 'mat', ARGV[6])
redis.call('PEXPIRE', KEYS[1], ARGV[7])
return 1
`)

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "signals:cw:".
func NewRedisCache(redisURL, prefix string, ttl time.Duration) (WarningCache, error) {
	if prefix == "" {
		prefix = "signals:cw:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

func (c *redisCache) key(postID uuid.UUID) string { return c.prefix + postID.String() }

// Храним как Redis Hash с полями: id, cnt, voters (через запятую), act (0/1), cat/mat (unix nano).
func (c *redisCache) Get(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, bool, error) {
	m, err := c.rdb.HGetAll(ctx, c.key(postID)).Result()
	if err != nil {
		return nil, false, err
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	cnt, err := strconv.Atoi(m["cnt"])
	if err != nil {
		return nil, false, err
	}

	voters := []uuid.UUID{}
	if raw := m["voters"]; raw != "" {
		for _, s := range strings.Split(raw, ",") {
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, false, err
			}
			voters = append(voters, id)
		}
	}

	cat, err := strconv.ParseInt(m["cat"], 10, 64)
	if err != nil {
		return nil, false, err
	}

	mat, err := strconv.ParseInt(m["mat"], 10, 64)
	if err != nil {
		return nil, false, err
	}

	return &models.ControversyWarning{
		ID:         m["id"],
		PostID:     postID,
		VoteCount:  cnt,
		Voters:     voters,
		Active:     m["act"] == "1",
		CreatedAt:  time.Unix(0, cat).UTC(),
		ModifiedAt: time.Unix(0, mat).UTC(),
	}, true, nil
}

func (c *redisCache) Set(ctx context.Context, w *models.ControversyWarning) error {
	voters := make([]string, 0, len(w.Voters))
	for _, v := range w.Voters {
		voters = append(voters, v.String())
	}

	return setIfNewer.Run(ctx, c.rdb, []string{c.key(w.PostID)},
		w.ID,
		w.VoteCount,
		strings.Join(voters, ","),
		boolTo01(w.Active),
		w.CreatedAt.UnixNano(),
		w.ModifiedAt.UnixNano(),
		c.ttl.Milliseconds(),
	).Err()
}

func (c *redisCache) Delete(ctx context.Context, postID uuid.UUID) error {
	return c.rdb.Del(ctx, c.key(postID)).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }

func boolTo01(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
