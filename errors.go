package signAuth

import "errors"

var (
	// ErrNoCredential is returned by [Engine.Authenticate] when the request carries
	// no Authorization header at all.
	ErrNoCredential = errors.New("no credential presented")
	// ErrTokenMalformed is returned when a presented token cannot be parsed or is
	// missing the Bearer scheme.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenInvalid is returned when a token's signature does not verify.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned when a token's signature verifies but its expiry
	// has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidCredentials is returned by [Engine.Login] for an unknown email and
	// for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists is returned by [Engine.Signup] when the email is taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrSignupInvalid is returned by [Engine.Signup] for malformed input.
	ErrSignupInvalid = errors.New("invalid signup request")
	// ErrSignupUnavailable is returned by [Engine.Signup] for any persistence
	// fault. The underlying cause is logged, never returned.
	ErrSignupUnavailable = errors.New("signup backend unavailable")
	// ErrAccountNotFound is returned by [Engine.AccountByEmail].
	ErrAccountNotFound = errors.New("account not found")
	// ErrRefreshInvalid is returned by [Engine.Refresh] for every failure shape:
	// unknown subject, missing record, value mismatch, expired record.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrPermissionDenied is returned by role checks on an authenticated caller.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrEngineNotReady is returned when an Engine method is called on a nil or
	// unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
