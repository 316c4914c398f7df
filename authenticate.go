package signAuth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/signAuth/jwt"
)

const bearerScheme = "Bearer "

// Authenticate is the sole authentication gate: it resolves a raw
// Authorization header value into the verified caller, or rejects. An empty
// value returns [ErrNoCredential]; a value without the Bearer scheme is
// rejected before any cryptographic work. On success the result carries the
// account's CURRENT role set, re-fetched from the store — not the roles
// embedded in the token — so role revocation applies on the next request.
func (e *Engine) Authenticate(ctx context.Context, rawHeaderValue string) (*AuthResult, error) {
	if e == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}

	if rawHeaderValue == "" {
		return nil, ErrNoCredential
	}

	raw, ok := stripBearer(rawHeaderValue)
	if !ok {
		return nil, ErrTokenMalformed
	}

	claims, err := e.codec.Verify(raw)
	if err != nil {
		return nil, mapTokenError(err)
	}

	account, err := e.accounts.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if account == nil {
		// Verified token for an account that no longer exists.
		return nil, ErrTokenInvalid
	}

	return &AuthResult{
		AccountID: account.ID,
		Email:     account.Email,
		Nickname:  account.Nickname,
		Roles:     account.Roles,
	}, nil
}

// stripBearer removes the scheme prefix case-insensitively.
func stripBearer(value string) (string, bool) {
	if len(value) <= len(bearerScheme) {
		return "", false
	}
	if !strings.EqualFold(value[:len(bearerScheme)], bearerScheme) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearerScheme):])
	if token == "" {
		return "", false
	}
	return token, true
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrSignature):
		return ErrTokenInvalid
	case errors.Is(err, jwt.ErrMalformed):
		return ErrTokenMalformed
	default:
		return ErrTokenInvalid
	}
}
