package refresh

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNoRecord means no refresh record exists for the account (never
	// created, expired, or invalidated).
	ErrNoRecord = errors.New("refresh record not found")
	// ErrTokenMismatch means a record exists but the presented value does not
	// match the stored one.
	ErrTokenMismatch = errors.New("refresh token mismatch")
	// ErrUnavailable wraps Redis transport faults.
	ErrUnavailable = errors.New("refresh redis unavailable")
)

// Record is the server-side refresh state for one account.
type Record struct {
	AccountID int64
	Token     string
	TTL       time.Duration
}

// Config carries the key prefix and the three TTL knobs of the record
// lifecycle.
type Config struct {
	Prefix          string
	BootstrapTTL    time.Duration
	ExtendThreshold time.Duration
	ExtendedTTL     time.Duration
}

// Store reads and writes refresh records. Per-account atomicity comes from
// Redis single-key semantics plus a WATCH transaction in [Store.Validate];
// concurrent validates for one account resolve last-write-wins without ever
// leaving the record unreadable.
type Store struct {
	redis  redis.UniversalClient
	config Config
}

// NewStore returns a Store over redisClient. Zero config fields fall back to
// prefix "sa", a 120s bootstrap window, a 10s extend threshold, and a 1000s
// extended window.
func NewStore(redisClient redis.UniversalClient, cfg Config) *Store {
	if cfg.Prefix == "" {
		cfg.Prefix = "sa"
	}
	if cfg.BootstrapTTL <= 0 {
		cfg.BootstrapTTL = 120 * time.Second
	}
	if cfg.ExtendThreshold <= 0 {
		cfg.ExtendThreshold = 10 * time.Second
	}
	if cfg.ExtendedTTL <= 0 {
		cfg.ExtendedTTL = 1000 * time.Second
	}
	return &Store{redis: redisClient, config: cfg}
}

func (s *Store) key(accountID int64) string {
	return s.config.Prefix + ":refresh:" + strconv.FormatInt(accountID, 10)
}

// Create generates a new random token value and stores it under the
// account's key with the bootstrap TTL, overwriting any existing record.
func (s *Store) Create(ctx context.Context, accountID int64) (*Record, error) {
	token := uuid.NewString()

	if err := s.redis.Set(ctx, s.key(accountID), token, s.config.BootstrapTTL).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Record{
		AccountID: accountID,
		Token:     token,
		TTL:       s.config.BootstrapTTL,
	}, nil
}

// Validate fetches the record for accountID and compares presented against
// the stored value in constant time. On a match with fewer than the
// threshold seconds remaining, the TTL is extended to the long window before
// the record is returned. Runs under WATCH with a bounded retry so the
// read-compare-extend is atomic per key.
func (s *Store) Validate(ctx context.Context, accountID int64, presented string) (*Record, error) {
	const maxRetries = 4
	key := s.key(accountID)

	for i := 0; i < maxRetries; i++ {
		var matched *Record

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			stored, err := tx.Get(ctx, key).Result()
			if err != nil {
				return err
			}

			remaining, err := tx.TTL(ctx, key).Result()
			if err != nil {
				return err
			}
			if remaining < 0 {
				return ErrNoRecord
			}

			if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
				return ErrTokenMismatch
			}

			if remaining < s.config.ExtendThreshold {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Expire(ctx, key, s.config.ExtendedTTL)
					return nil
				})
				if err != nil {
					return err
				}
				remaining = s.config.ExtendedTTL
			}

			matched = &Record{
				AccountID: accountID,
				Token:     stored,
				TTL:       remaining,
			}
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				return nil, ErrNoRecord
			case errors.Is(err, ErrNoRecord), errors.Is(err, ErrTokenMismatch):
				return nil, err
			default:
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}

		return matched, nil
	}

	return nil, ErrNoRecord
}

// Invalidate deletes the account's record immediately. Deleting a missing
// record is not an error.
func (s *Store) Invalidate(ctx context.Context, accountID int64) error {
	if err := s.redis.Del(ctx, s.key(accountID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
