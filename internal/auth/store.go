package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	revokedPrefix = "alpha:revoked:"
	resetPrefix   = "alpha:reset:"

	ResetTokenTTL = time.Hour
)

var ErrResetTokenInvalid = errors.New("auth: reset token invalid or expired")

// ===============================
// Revogação de sessão
// ===============================

type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisRevocationStore struct {
	rdb *redis.Client
}

func NewRedisRevocationStore(rdb *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{rdb: rdb}
}

// Revoke guarda o jti até o token expirar sozinho.
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, revokedPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("auth: revoke: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("auth: is revoked: %w", err)
	}
	return n > 0, nil
}

// ===============================
// Reset de senha
// ===============================

type ResetTokenStore interface {
	Create(ctx context.Context, userID uint) (string, error)
	Lookup(ctx context.Context, token string) (uint, error)
	Consume(ctx context.Context, token string) (uint, error)
}

type RedisResetTokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisResetTokenStore(rdb *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{rdb: rdb, ttl: ResetTokenTTL}
}

func (s *RedisResetTokenStore) Create(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, resetPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: create reset token: %w", err)
	}
	return token, nil
}

func (s *RedisResetTokenStore) Lookup(ctx context.Context, token string) (uint, error) {
	val, err := s.rdb.Get(ctx, resetPrefix+token).Result()
	return parseUserID(val, err)
}

// Consume devolve o usuário e invalida o token; só funciona uma vez.
func (s *RedisResetTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	val, err := s.rdb.GetDel(ctx, resetPrefix+token).Result()
	return parseUserID(val, err)
}

func parseUserID(val string, err error) (uint, error) {
	if errors.Is(err, redis.Nil) {
		return 0, ErrResetTokenInvalid
	}
	if err != nil {
		return 0, fmt.Errorf("auth: reset token: %w", err)
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrResetTokenInvalid
	}
	return uint(id), nil
}
