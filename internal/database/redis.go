package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	tokenCachePrefix = "auth:token:"
	rateLimitPrefix  = "ratelimit:"
)

// Redis representa la conexión a Redis
type Redis struct {
	*redis.Client
}

// ConnectRedis establece la conexión a Redis
func ConnectRedis(cfg *config.Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	// Verificar conexión
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("error pinging Redis: %w", err)
	}

	return &Redis{client}, nil
}

// NewRedis envuelve un cliente ya configurado
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client}
}

// Close cierra la conexión a Redis
func (r *Redis) Close() error {
	return r.Client.Close()
}

// HealthCheck verifica la salud de Redis
func (r *Redis) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.Ping(ctx).Err()
}

// GetStats retorna estadísticas de Redis
func (r *Redis) GetStats(ctx context.Context) map[string]interface{} {
	stats := make(map[string]interface{})

	if info, err := r.Info(ctx, "stats").Result(); err == nil {
		stats["info"] = info
	}
	if clients, err := r.Info(ctx, "clients").Result(); err == nil {
		stats["clients"] = clients
	}

	return stats
}

// CacheToken guarda la relación hash de token -> usuario
func (r *Redis) CacheToken(ctx context.Context, keyHash string, userID uuid.UUID, ttl time.Duration) error {
	return r.Set(ctx, tokenCachePrefix+keyHash, userID.String(), ttl).Err()
}

// CachedTokenUser obtiene el usuario cacheado para un hash de token.
// Retorna uuid.Nil sin error si no está en cache.
func (r *Redis) CachedTokenUser(ctx context.Context, keyHash string) (uuid.UUID, error) {
	value, err := r.Get(ctx, tokenCachePrefix+keyHash).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid cached user id: %w", err)
	}
	return userID, nil
}

// EvictToken elimina un hash de token del cache
func (r *Redis) EvictToken(ctx context.Context, keyHash string) error {
	return r.Del(ctx, tokenCachePrefix+keyHash).Err()
}

// Allow incrementa el contador de la ventana actual para key.
// Retorna si la petición está dentro del límite y el TTL restante de la ventana.
func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	counterKey := rateLimitPrefix + key

	count, err := r.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("error incrementing rate counter: %w", err)
	}

	if count == 1 {
		if err := r.Expire(ctx, counterKey, window).Err(); err != nil {
			return false, 0, fmt.Errorf("error setting rate window: %w", err)
		}
	}

	ttl, err := r.TTL(ctx, counterKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("error reading rate window: %w", err)
	}
	if ttl < 0 {
		// Contador sin expiración (p.ej. Expire falló en otra réplica)
		_ = r.Expire(ctx, counterKey, window).Err()
		ttl = window
	}

	return count <= int64(limit), ttl, nil
}

// LogStats registra las estadísticas de Redis
func (r *Redis) LogStats(ctx context.Context, logger *logrus.Logger) {
	logger.WithFields(logrus.Fields(r.GetStats(ctx))).Info("Redis statistics")
}
