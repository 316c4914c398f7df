package main

import (
	"flag"
	"os"
)

// config holds runtime settings for the signauthd binary.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - RedisAddr / RedisPassword / RedisDB: refresh- and account-store backend.
//   - SecretKey: HMAC secret for signing access tokens (HS256). The default
//     exists for local development only and is rejected unless explicitly
//     overridden.
type config struct {
	Addr          string
	RedisAddr     string
	RedisPassword string
	SecretKey     string
}

func loadDefaults() *config {
	return &config{
		Addr:      ":8080",
		RedisAddr: "localhost:6379",
	}
}

// loadConfig builds a config by applying defaults, then overlaying values
// from the environment and finally from command-line flags.
func loadConfig() *config {
	cfg := loadDefaults()

	if v := os.Getenv("SIGNAUTH_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SIGNAUTH_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("SIGNAUTH_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("SIGNAUTH_SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}

	flag.StringVar(&cfg.Addr, "a", cfg.Addr, "HTTP bind address")
	flag.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address")
	flag.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "access token signing key (>= 32 bytes)")
	flag.Parse()

	return cfg
}
