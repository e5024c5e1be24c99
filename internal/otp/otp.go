package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrCooldown        = errors.New("otp: code requested too recently")
	ErrExpired         = errors.New("otp: code expired or never issued")
	ErrInvalidCode     = errors.New("otp: invalid code")
	ErrTooManyAttempts = errors.New("otp: too many attempts")
)

const (
	codeDigits  = 6
	maxAttempts = 5
	cooldown    = 60 * time.Second
)

// Store keeps one pending code per (user, phone) in redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func codeKey(userID uuid.UUID, phone string) string {
	return fmt.Sprintf("otp:code:%s:%s", userID, phone)
}

func attemptsKey(userID uuid.UUID, phone string) string {
	return fmt.Sprintf("otp:attempts:%s:%s", userID, phone)
}

func cooldownKey(userID uuid.UUID) string {
	return "otp:cooldown:" + userID.String()
}

// Issue generates a fresh code, replacing any pending one.
func (s *Store) Issue(ctx context.Context, userID uuid.UUID, phone string) (string, error) {
	ok, err := s.rdb.SetNX(ctx, cooldownKey(userID), 1, cooldown).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrCooldown
	}

	code, err := generate()
	if err != nil {
		return "", err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, codeKey(userID, phone), code, s.ttl)
	pipe.Del(ctx, attemptsKey(userID, phone))
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the code on success. Each wrong guess counts toward the
// attempt limit; hitting it burns the code.
func (s *Store) Verify(ctx context.Context, userID uuid.UUID, phone, code string) error {
	ck := codeKey(userID, phone)
	want, err := s.rdb.Get(ctx, ck).Result()
	if errors.Is(err, redis.Nil) {
		return ErrExpired
	}
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1 {
		return s.rdb.Del(ctx, ck, attemptsKey(userID, phone), cooldownKey(userID)).Err()
	}

	ak := attemptsKey(userID, phone)
	n, err := s.rdb.Incr(ctx, ak).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		s.rdb.Expire(ctx, ak, s.ttl)
	}
	if n >= maxAttempts {
		s.rdb.Del(ctx, ck, ak)
		return ErrTooManyAttempts
	}
	return ErrInvalidCode
}

func generate() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
