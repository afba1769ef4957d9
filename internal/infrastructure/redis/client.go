package redis

import (
	"context"
	"fmt"
	"time"

	red "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-account-api/config"
)

func New(ctx context.Context, logger *zap.Logger, cfg config.Redis) (*red.Client, error) {
	client := red.NewClient(&red.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("redis connected successfully", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))

	return client, nil
}
