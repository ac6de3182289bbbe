package cache

import (
	"context"
	"errors"
	"log"
	"net"
	"sync/atomic"
	"time"

	"placeprep/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	scoreLockPrefix     = "score:computing:"
	defaultScoreLockTTL = 30 * time.Second
	startupPingTimeout  = 2 * time.Second
)

var ErrUnavailable = errors.New("redis unavailable")

// releaseScript deletes the marker only while it still holds our token, so a
// writer whose marker expired cannot clear a newer holder's.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is the score computation guard. A server unreachable at startup
// leaves it disabled and every caller acquires.
type Redis struct {
	client *redis.Client
	logger *log.Logger
	ttl    time.Duration

	warned atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *log.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), startupPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Cache] redis unreachable, score guard disabled: %v", err)
		}
		_ = client.Close()
		return &Redis{logger: logger, ttl: cfg.ScoreLockTTL}
	}

	return NewRedisWithClient(client, cfg.ScoreLockTTL, logger)
}

func NewRedisWithClient(client *redis.Client, ttl time.Duration, logger *log.Logger) *Redis {
	if ttl <= 0 {
		ttl = defaultScoreLockTTL
	}
	return &Redis{client: client, logger: logger, ttl: ttl}
}

func (r *Redis) enabled() bool { return r != nil && r.client != nil }

func (r *Redis) Ping(ctx context.Context) error {
	if !r.enabled() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if !r.enabled() {
		return nil
	}
	return r.client.Close()
}

// TryAcquire sets the computing marker for an application and returns the
// token written. ok is false when another writer holds it. With redis
// disabled every caller acquires with an empty token.
func (r *Redis) TryAcquire(ctx context.Context, applicationID uuid.UUID) (string, bool, error) {
	if !r.enabled() {
		return "", true, nil
	}
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, ScoreLockKey(applicationID), token, r.ttl).Result()
	if err != nil {
		r.warnOnce(err)
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release clears the marker if it still holds token. An empty token is
// ignored.
func (r *Redis) Release(ctx context.Context, applicationID uuid.UUID, token string) {
	if !r.enabled() || token == "" {
		return
	}
	if err := releaseScript.Run(ctx, r.client, []string{ScoreLockKey(applicationID)}, token).Err(); err != nil {
		r.warnOnce(err)
	}
}

func (r *Redis) warnOnce(err error) {
	if r.logger != nil && r.warned.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] redis error, score guard bypassed: %v", err)
	}
}

func ScoreLockKey(applicationID uuid.UUID) string {
	return scoreLockPrefix + applicationID.String()
}
