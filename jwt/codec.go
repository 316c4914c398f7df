package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed means the compact representation could not be parsed.
	ErrMalformed = errors.New("malformed access token")
	// ErrSignature means the token parsed but its signature did not verify.
	ErrSignature = errors.New("access token signature invalid")
	// ErrExpired means signature and structure are fine but exp has passed.
	ErrExpired = errors.New("access token expired")
)

// Config carries the signing key and validation parameters for a [Codec].
// Configure once at startup and treat as immutable afterwards.
type Config struct {
	SecretKey []byte
	AccessTTL time.Duration
	Issuer    string
	Leeway    time.Duration
}

// Codec issues and verifies access tokens. It is stateless: every method is
// a pure function of the configured key and the clock, safe for concurrent
// use.
type Codec struct {
	config Config
}

// AccessClaims is the claim set carried by every access token: the account
// email as subject, the role names granted at issuance time, and the
// registered iat/exp/iss claims.
//
// Roles reflect the account's role set when the token was issued; they are
// not re-derived from the account store until the next login or refresh.
type AccessClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// NewCodec validates cfg and returns a ready Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.SecretKey) == 0 {
		return nil, errors.New("hs256 requires a secret key")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Codec{config: cfg}, nil
}

// Issue builds a claim set for subject with the given roles, issued now and
// expiring after the configured access TTL, and returns the signed compact
// representation.
func (c *Codec) Issue(subject string, roles []string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.AccessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.config.SecretKey)
}

// Verify parses raw, checks the signature against the configured key and the
// expiry against the current time, and returns the claims. Any failure maps
// to exactly one of [ErrMalformed], [ErrSignature], or [ErrExpired]; nothing
// else escapes, so callers can treat every error as "not authenticated".
func (c *Codec) Verify(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := c.parser().ParseWithClaims(raw, claims, c.keyFunc)
	if err != nil {
		return nil, classify(err)
	}
	return claims, nil
}

// SubjectUnverified parses raw, checks the signature, and returns the
// subject claim WITHOUT validating expiry. This is a deliberate, narrow
// exception used only by the refresh flow to identify which account is
// asking for a new token after its access token has already expired.
func (c *Codec) SubjectUnverified(raw string) (string, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if _, err := parser.ParseWithClaims(raw, claims, c.keyFunc); err != nil {
		return "", classify(err)
	}
	if claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}

func (c *Codec) parser() *jwt.Parser {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}
	return jwt.NewParser(options...)
}

func (c *Codec) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return c.config.SecretKey, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrSignature
	default:
		return ErrMalformed
	}
}
