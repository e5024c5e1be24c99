package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sthapati/sthapati_be/internal/config"
)

// NewRedis connects and pings the configured redis.
func NewRedis(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}

	zap.L().Info("redis connected", zap.String("addr", cfg.Addr))
	return rdb, nil
}

func NotificationChannel(userID uuid.UUID) string {
	return "notifications:" + userID.String()
}

// Publisher mirrors user events onto the redis channel notifications:<uid>
// for outside consumers. Nothing in this service subscribes to it; sockets
// are fed by the local Hub only.
type Publisher struct {
	RDB *redis.Client
}

func (p *Publisher) Publish(ctx context.Context, userID uuid.UUID, ev Event) error {
	if p == nil || p.RDB == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.RDB.Publish(ctx, NotificationChannel(userID), payload).Err()
}
