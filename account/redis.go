package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	signAuth "github.com/MrEthical07/signAuth"
	"github.com/redis/go-redis/v9"
)

// ErrEmailTaken is returned by [RedisStore.Save] when a concurrent signup
// claimed the email between the engine's existence check and the write.
var ErrEmailTaken = errors.New("account email already taken")

// ErrUnavailable wraps Redis transport faults.
var ErrUnavailable = errors.New("account redis unavailable")

type record struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email"`
	Nickname     string   `json:"nickname"`
	PasswordHash string   `json:"password_hash"`
	Roles        []string `json:"roles"`
}

// RedisStore keeps account records in Redis without expiry. Layout:
//
//	<prefix>:acct:email:<email> - JSON record (primary)
//	<prefix>:acct:id:<id>       - email pointer
//	<prefix>:acct:seq           - identifier sequence
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore returns a store over redisClient. An empty prefix falls back
// to "sa".
func NewRedisStore(redisClient redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "sa"
	}
	return &RedisStore{redis: redisClient, prefix: prefix}
}

func (s *RedisStore) emailKey(email string) string {
	return s.prefix + ":acct:email:" + email
}

func (s *RedisStore) idKey(id int64) string {
	return s.prefix + ":acct:id:" + strconv.FormatInt(id, 10)
}

// FindByEmail returns (nil, nil) when no account matches.
func (s *RedisStore) FindByEmail(ctx context.Context, email string) (*signAuth.Account, error) {
	data, err := s.redis.Get(ctx, s.emailKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode account record: %w", err)
	}

	return &signAuth.Account{
		ID:           rec.ID,
		Email:        rec.Email,
		Nickname:     rec.Nickname,
		PasswordHash: rec.PasswordHash,
		Roles:        rec.Roles,
	}, nil
}

// FindByID resolves the id pointer and loads by email.
func (s *RedisStore) FindByID(ctx context.Context, id int64) (*signAuth.Account, error) {
	email, err := s.redis.Get(ctx, s.idKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s.FindByEmail(ctx, email)
}

// Save persists account, assigning an identifier from the sequence when
// account.ID is zero. A fresh account claims its email key with SETNX so two
// concurrent signups for one email cannot both win.
func (s *RedisStore) Save(ctx context.Context, account *signAuth.Account) (*signAuth.Account, error) {
	saved := *account

	fresh := saved.ID == 0
	if fresh {
		id, err := s.redis.Incr(ctx, s.prefix+":acct:seq").Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		saved.ID = id
	}

	data, err := json.Marshal(record{
		ID:           saved.ID,
		Email:        saved.Email,
		Nickname:     saved.Nickname,
		PasswordHash: saved.PasswordHash,
		Roles:        saved.Roles,
	})
	if err != nil {
		return nil, fmt.Errorf("encode account record: %w", err)
	}

	if fresh {
		set, err := s.redis.SetNX(ctx, s.emailKey(saved.Email), data, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if !set {
			return nil, ErrEmailTaken
		}
	} else {
		if err := s.redis.Set(ctx, s.emailKey(saved.Email), data, 0).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if err := s.redis.Set(ctx, s.idKey(saved.ID), saved.Email, 0).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &saved, nil
}
