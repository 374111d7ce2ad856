package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

// key layout:
//
//	list: rq:queue:{format}   -> [player, ...] oldest at the head
//	kv  : rq:player:{player}  -> format (reverse index, TTLed so an
//	      abandoned entry cannot pin a player out of queues forever)
func queueKey(format string) string {
	return fmt.Sprintf("rq:queue:%s", format)
}
func playerKey(player string) string {
	return fmt.Sprintf("rq:player:%s", player)
}

func (r *redisRepo) Enqueue(ctx context.Context, format, player string, ttlSeconds int) error {
	p := r.rdb.Pipeline()
	p.RPush(ctx, queueKey(format), player)
	p.Set(ctx, playerKey(player), format, time.Duration(ttlSeconds)*time.Second)
	_, err := p.Exec(ctx)
	return err
}

func (r *redisRepo) PopN(ctx context.Context, format string, n int) ([]string, error) {
	res, err := r.rdb.LPopCount(ctx, queueKey(format), n).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(res) > 0 {
		p := r.rdb.Pipeline()
		for _, player := range res {
			p.Del(ctx, playerKey(player))
		}
		_, _ = p.Exec(ctx)
	}
	return res, nil
}

func (r *redisRepo) Remove(ctx context.Context, player string) (bool, error) {
	format, err := r.rdb.Get(ctx, playerKey(player)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	queueK := queueKey(format)
	playerK := playerKey(player)

	// drop the reverse entry and the list entry together; clean up the
	// list key if it emptied
	script := `
        redis.call("DEL", KEYS[1])
        local removed = redis.call("LREM", KEYS[2], 1, ARGV[1])
        if redis.call("LLEN", KEYS[2]) == 0 then
            redis.call("DEL", KEYS[2])
        end
        return removed
    `
	removed, err := r.rdb.Eval(ctx, script, []string{playerK, queueK}, player).Int64()
	if err != nil {
		// fall back to a non-atomic pipeline if Eval is unavailable
		p := r.rdb.Pipeline()
		rem := p.LRem(ctx, queueK, 1, player)
		p.Del(ctx, playerK)
		if _, execErr := p.Exec(ctx); execErr != nil {
			return false, execErr
		}
		if n, _ := r.rdb.LLen(ctx, queueK).Result(); n == 0 {
			_ = r.rdb.Del(ctx, queueK).Err()
		}
		return rem.Val() > 0, nil
	}
	return removed > 0, nil
}

func (r *redisRepo) FormatOf(ctx context.Context, player string) (string, error) {
	val, err := r.rdb.Get(ctx, playerKey(player)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisRepo) Count(ctx context.Context, format string) (int64, error) {
	return r.rdb.LLen(ctx, queueKey(format)).Result()
}

func (r *redisRepo) List(ctx context.Context, format string) ([]string, error) {
	return r.rdb.LRange(ctx, queueKey(format), 0, -1).Result()
}
