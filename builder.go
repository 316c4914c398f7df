package signAuth

import (
	"errors"

	"github.com/MrEthical07/signAuth/jwt"
	"github.com/MrEthical07/signAuth/logging"
	"github.com/MrEthical07/signAuth/password"
	"github.com/MrEthical07/signAuth/refresh"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens before [Builder.Build] returns.
type Builder struct {
	config   Config
	redis    redis.UniversalClient
	accounts AccountStore
	hasher   PasswordHasher
	logger   logging.Logger

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSecretKey sets the symmetric signing key without replacing the rest of
// the configuration.
func (b *Builder) WithSecretKey(key []byte) *Builder {
	b.config.JWT.SecretKey = key
	return b
}

// WithRedis sets the Redis client backing the refresh store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAccountStore sets the external account store collaborator.
func (b *Builder) WithAccountStore(store AccountStore) *Builder {
	b.accounts = store
	return b
}

// WithHasher overrides the password hasher. When unset, Build constructs a
// [password.Hasher] from Config.Password.
func (b *Builder) WithHasher(hasher PasswordHasher) *Builder {
	b.hasher = hasher
	return b
}

// WithLogger sets the structured logger. When unset, logging is discarded.
func (b *Builder) WithLogger(logger logging.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and wiring and returns a ready Engine.
// A Builder can build at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.accounts == nil {
		return nil, errors.New("account store is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	codec, err := jwt.NewCodec(jwt.Config{
		SecretKey: b.config.JWT.SecretKey,
		AccessTTL: b.config.JWT.AccessTTL,
		Issuer:    b.config.JWT.Issuer,
		Leeway:    b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher := b.hasher
	if hasher == nil {
		hasher, err = password.NewHasher(password.Config{
			Memory:      b.config.Password.Memory,
			Time:        b.config.Password.Time,
			Parallelism: b.config.Password.Parallelism,
			SaltLength:  b.config.Password.SaltLength,
			KeyLength:   b.config.Password.KeyLength,
		})
		if err != nil {
			return nil, err
		}
	}

	logger := b.logger
	if logger == nil {
		logger = logging.Nop()
	}

	refreshStore := refresh.NewStore(b.redis, refresh.Config{
		Prefix:          b.config.Refresh.RedisPrefix,
		BootstrapTTL:    b.config.Refresh.BootstrapTTL,
		ExtendThreshold: b.config.Refresh.ExtendThreshold,
		ExtendedTTL:     b.config.Refresh.ExtendedTTL,
	})

	b.built = true

	return &Engine{
		config:   b.config,
		codec:    codec,
		refresh:  refreshStore,
		accounts: b.accounts,
		hasher:   hasher,
		logger:   logger,
	}, nil
}
