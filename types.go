package signAuth

import "context"

// DefaultRole is assigned to every account created through [Engine.Signup].
const DefaultRole = "ROLE_USER"

// Account is the full account record held by the external [AccountStore].
// The engine reads it; it never mutates an account after creation.
type Account struct {
	ID           int64
	Email        string
	Nickname     string
	PasswordHash string
	Roles        []string
}

// AccountStore is the interface callers must implement to integrate signAuth
// with their account database. Lookups return (nil, nil) when no account
// matches; a non-nil error is reserved for infrastructure faults.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	Save(ctx context.Context, account *Account) (*Account, error)
}

// PasswordHasher is the opaque hash-compare capability the engine delegates
// password handling to. [password.Hasher] is the shipped implementation.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(raw string, encodedHash string) (bool, error)
}

// AuthResult is returned by [Engine.Authenticate]. It identifies the verified
// caller and carries the role set used for this request's access decisions.
// It is never partially populated: a rejected request yields a nil result and
// a sentinel error.
type AuthResult struct {
	AccountID int64
	Email     string
	Nickname  string
	Roles     []string
}

// HasRole reports whether the authenticated caller holds the named role.
func (r *AuthResult) HasRole(role string) bool {
	if r == nil {
		return false
	}
	for _, have := range r.Roles {
		if have == role {
			return true
		}
	}
	return false
}

// SignupRequest is the input for [Engine.Signup].
type SignupRequest struct {
	Email    string
	Password string
	Nickname string
}

// LoginResult is returned by [Engine.Login]. It carries the public identity
// fields plus the issued token pair. The password hash never appears here.
type LoginResult struct {
	ID           int64
	Email        string
	Nickname     string
	Roles        []string
	AccessToken  string
	RefreshToken string
}

// TokenPair carries an access token and the opaque refresh value, both as
// presented by a client and as returned by [Engine.Refresh].
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AccountView is the public projection of an [Account] returned by
// [Engine.AccountByEmail].
type AccountView struct {
	ID       int64
	Email    string
	Nickname string
	Roles    []string
}
