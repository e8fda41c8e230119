package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/alpha-clean/internal/config"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
)

// Connect abre o cliente Redis. Fora de produção, sem REDIS_ADDR, sobe um
// Redis em memória para que sessões e reset de senha funcionem localmente.
// O closer devolvido encerra cliente e servidor embutido.
func Connect(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*redis.Client, func(), error) {
	addr := cfg.RedisAddr
	var embedded *miniredis.Miniredis

	if addr == "" {
		if cfg.IsProduction() {
			return nil, nil, errors.New("cache: REDIS_ADDR is required in production")
		}

		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("cache: embedded redis: %w", err)
		}
		embedded = mr
		addr = mr.Addr()
		logger.Warn("REDIS_ADDR não definido, usando redis em memória", "addr", addr)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if embedded != nil {
			embedded.Close()
		}
		return nil, nil, fmt.Errorf("cache: ping: %w", err)
	}

	closer := func() {
		_ = client.Close()
		if embedded != nil {
			embedded.Close()
		}
	}

	return client, closer, nil
}
