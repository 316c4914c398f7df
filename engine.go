package signAuth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/signAuth/jwt"
	"github.com/MrEthical07/signAuth/logging"
	"github.com/MrEthical07/signAuth/refresh"
)

// Engine orchestrates signup, login, refresh, logout, and the request-time
// authentication decision. Construct through [Builder.Build]; all methods
// are safe for concurrent use afterwards. Cross-request state lives entirely
// in the account store and the refresh store — the engine itself holds no
// mutable state.
type Engine struct {
	config   Config
	codec    *jwt.Codec
	refresh  *refresh.Store
	accounts AccountStore
	hasher   PasswordHasher
	logger   logging.Logger
}

// Signup creates an account with the default role. Duplicate emails return
// [ErrAccountExists], malformed input [ErrSignupInvalid]; every persistence
// fault collapses to [ErrSignupUnavailable] with the real cause logged
// server-side only.
func (e *Engine) Signup(ctx context.Context, req SignupRequest) error {
	if e == nil || e.accounts == nil {
		return ErrEngineNotReady
	}
	if err := validateSignup(req, e.config.Password.MinLength); err != nil {
		return err
	}

	existing, err := e.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		e.logger.Warn(ctx, "signup lookup failed", "err", err)
		return ErrSignupUnavailable
	}
	if existing != nil {
		return ErrAccountExists
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		e.logger.Warn(ctx, "signup hash failed", "err", err)
		return ErrSignupUnavailable
	}

	account, err := e.accounts.Save(ctx, &Account{
		Email:        req.Email,
		Nickname:     req.Nickname,
		PasswordHash: hash,
		Roles:        []string{DefaultRole},
	})
	if err != nil {
		e.logger.Warn(ctx, "signup persist failed", "err", err)
		return ErrSignupUnavailable
	}

	e.logger.Info(ctx, "account created", "account_id", account.ID)
	return nil
}

// Login verifies the password for email and, on success, issues an access
// token and a fresh refresh record. An unknown email and a wrong password
// return the same [ErrInvalidCredentials]; nothing in the result or the
// error reveals which one happened.
func (e *Engine) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	if e == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}

	account, err := e.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := e.hasher.Verify(rawPassword, account.PasswordHash)
	if err != nil {
		// Unparseable stored hash: fail closed, keep the cause server-side.
		e.logger.Warn(ctx, "stored password hash unreadable", "account_id", account.ID, "err", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		e.logger.Debug(ctx, "password mismatch", "account_id", account.ID)
		return nil, ErrInvalidCredentials
	}

	access, err := e.codec.Issue(account.Email, account.Roles)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	record, err := e.refresh.Create(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("create refresh record: %w", err)
	}

	e.logger.Info(ctx, "login succeeded", "account_id", account.ID)

	return &LoginResult{
		ID:           account.ID,
		Email:        account.Email,
		Nickname:     account.Nickname,
		Roles:        account.Roles,
		AccessToken:  access,
		RefreshToken: record.Token,
	}, nil
}

// Refresh exchanges a (possibly access-expired) token pair for a new access
// token. The access token's signature is still verified; only its expiry is
// skipped when extracting the subject. The refresh value comes back as
// stored — extended when near expiry, never rotated. Every invalid shape
// returns [ErrRefreshInvalid] uniformly.
func (e *Engine) Refresh(ctx context.Context, presented TokenPair) (*TokenPair, error) {
	if e == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}

	subject, err := e.codec.SubjectUnverified(presented.AccessToken)
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	account, err := e.accounts.FindByEmail(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if account == nil {
		return nil, ErrRefreshInvalid
	}

	record, err := e.refresh.Validate(ctx, account.ID, presented.RefreshToken)
	if err != nil {
		if errors.Is(err, refresh.ErrUnavailable) {
			return nil, fmt.Errorf("refresh store: %w", err)
		}
		e.logger.Debug(ctx, "refresh rejected", "account_id", account.ID)
		return nil, ErrRefreshInvalid
	}

	// Roles are re-derived from the store here, so a role change takes
	// effect on the next refresh rather than riding out the old token.
	access, err := e.codec.Issue(account.Email, account.Roles)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: record.Token,
	}, nil
}

// Logout invalidates the caller's refresh record immediately. Outstanding
// access tokens remain valid until their natural expiry; that window is
// inherent to stateless tokens.
func (e *Engine) Logout(ctx context.Context, rawAccessToken string) error {
	if e == nil || e.accounts == nil {
		return ErrEngineNotReady
	}

	claims, err := e.codec.Verify(rawAccessToken)
	if err != nil {
		return mapTokenError(err)
	}

	account, err := e.accounts.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return fmt.Errorf("account lookup: %w", err)
	}
	if account == nil {
		return ErrAccountNotFound
	}

	if err := e.refresh.Invalidate(ctx, account.ID); err != nil {
		return fmt.Errorf("invalidate refresh record: %w", err)
	}

	e.logger.Info(ctx, "logout", "account_id", account.ID)
	return nil
}

// AccountByEmail returns the public projection of an account.
func (e *Engine) AccountByEmail(ctx context.Context, email string) (*AccountView, error) {
	if e == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}

	account, err := e.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	return &AccountView{
		ID:       account.ID,
		Email:    account.Email,
		Nickname: account.Nickname,
		Roles:    account.Roles,
	}, nil
}

func validateSignup(req SignupRequest, minPasswordLength int) error {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrSignupInvalid
	}
	if len(req.Password) < minPasswordLength {
		return ErrSignupInvalid
	}
	if strings.TrimSpace(req.Nickname) == "" {
		return ErrSignupInvalid
	}
	return nil
}
