package signAuth

import (
	"errors"
	"time"
)

// Config defines the engine configuration. Configure once before
// [Builder.Build]; treat as immutable afterwards.
type Config struct {
	JWT      JWTConfig
	Refresh  RefreshConfig
	Password PasswordConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig controls access-token issuance and verification.
//
// SecretKey is the single symmetric HMAC-SHA256 key, provided at process
// start. It must never be logged or embedded in responses.
type JWTConfig struct {
	SecretKey []byte
	AccessTTL time.Duration
	Issuer    string
	Leeway    time.Duration
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig controls the server-side refresh record lifecycle.
//
// A record is created with BootstrapTTL (short, expecting near-immediate
// use). When a validate call finds less than ExtendThreshold remaining, the
// record is extended to ExtendedTTL before being returned.
type RefreshConfig struct {
	RedisPrefix     string
	BootstrapTTL    time.Duration
	ExtendThreshold time.Duration
	ExtendedTTL     time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig carries Argon2id parameters and the minimum accepted
// plaintext length.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	MinLength   int
}

// DefaultConfig returns the baseline configuration: 30-minute access tokens,
// 120-second refresh bootstrap window extended to 1000 seconds when fewer
// than 10 seconds remain, and Argon2id at 64 MiB / t=3 / p=2.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL: 30 * time.Minute,
			Issuer:    "signAuth",
			Leeway:    0,
		},
		Refresh: RefreshConfig{
			RedisPrefix:     "sa",
			BootstrapTTL:    120 * time.Second,
			ExtendThreshold: 10 * time.Second,
			ExtendedTTL:     1000 * time.Second,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
			MinLength:   8,
		},
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.JWT.SecretKey) < 32 {
		return errors.New("jwt secret key must be at least 32 bytes")
	}
	if cfg.JWT.AccessTTL <= 0 {
		return errors.New("invalid access TTL configuration")
	}
	if cfg.JWT.Leeway < 0 || cfg.JWT.Leeway > 2*time.Minute {
		return errors.New("invalid leeway configuration")
	}
	if cfg.Refresh.BootstrapTTL <= 0 || cfg.Refresh.ExtendedTTL <= 0 {
		return errors.New("invalid refresh TTL configuration")
	}
	if cfg.Refresh.ExtendThreshold <= 0 || cfg.Refresh.ExtendThreshold >= cfg.Refresh.BootstrapTTL {
		return errors.New("refresh extend threshold must fall inside the bootstrap window")
	}
	if cfg.Refresh.ExtendedTTL < cfg.Refresh.BootstrapTTL {
		return errors.New("extended refresh TTL must not shrink the bootstrap window")
	}
	if cfg.Password.MinLength < 1 {
		return errors.New("invalid password minimum length")
	}
	return nil
}
