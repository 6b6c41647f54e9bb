// Package cache implementa la caché Redis del resumen de dashboard.
// El libro de movimientos sigue siendo la única fuente de verdad; la caché
// solo evita recalcular el resumen en cada petición y se invalida al
// registrar cualquier transacción de stock.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/pkg/config"
)

const summaryKey = "dashboard:summary"

// RedisCache implementa analytics.SummaryCache e inventory.LevelsInvalidator.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache crea el cliente y verifica conectividad con un ping.
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.TTLSecs) * time.Second
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get devuelve el resumen cacheado, o nil sin error en cache miss.
func (c *RedisCache) Get(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	raw, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var summary dto.DashboardSummaryDTO
	if err := json.Unmarshal(raw, &summary); err != nil {
		// Entrada corrupta: la descartamos y tratamos como miss.
		_ = c.client.Del(ctx, summaryKey).Err()
		return nil, nil
	}
	return &summary, nil
}

// Set guarda el resumen con el TTL configurado.
func (c *RedisCache) Set(ctx context.Context, summary *dto.DashboardSummaryDTO) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey, raw, c.ttl).Err()
}

// Invalidate borra el resumen cacheado. Se llama tras confirmar una
// transacción de stock para que el dashboard refleje los nuevos saldos.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, summaryKey).Err()
}

// Close cierra la conexión con Redis.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
