package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	signAuth "github.com/MrEthical07/signAuth"
	"github.com/MrEthical07/signAuth/account"
	"github.com/MrEthical07/signAuth/httpapi"
)

type apiHarness struct {
	mux      *http.ServeMux
	accounts *account.MemoryStore
}

func newHarness(t *testing.T) *apiHarness {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := signAuth.DefaultConfig()
	cfg.JWT.SecretKey = []byte("httpapi-test-secret-key-32-byte!")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1

	accounts := account.NewMemoryStore()
	engine, err := signAuth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAccountStore(accounts).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	return &apiHarness{
		mux:      httpapi.NewHandler(engine, nil).Router(),
		accounts: accounts,
	}
}

func (h *apiHarness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginBody struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email"`
	Nickname     string   `json:"nickname"`
	Roles        []string `json:"roles"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

func (h *apiHarness) joinAndLogin(t *testing.T, email string) loginBody {
	t.Helper()

	rec := h.do(t, http.MethodPost, "/join", "", map[string]string{
		"email": email, "password": "password-1", "nickname": "tester",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("join status %d: %s", rec.Code, rec.Body)
	}

	rec = h.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": email, "password": "password-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body)
	}
	return decodeBody[loginBody](t, rec)
}

func TestJoinDuplicateConflicts(t *testing.T) {
	h := newHarness(t)
	h.joinAndLogin(t, "a@x.com")

	rec := h.do(t, http.MethodPost, "/join", "", map[string]string{
		"email": "a@x.com", "password": "password-2", "nickname": "again",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestJoinRejectsBadInput(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/join", "", map[string]string{
		"email": "not-an-email", "password": "password-1", "nickname": "n",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/join", bytes.NewBufferString("{not json"))
	rec2 := httptest.NewRecorder()
	h.mux.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec2.Code)
	}
}

func TestLoginReturnsTokensAndIdentity(t *testing.T) {
	h := newHarness(t)
	body := h.joinAndLogin(t, "a@x.com")

	if body.AccessToken == "" || body.RefreshToken == "" {
		t.Fatal("expected both tokens in response")
	}
	if body.Email != "a@x.com" || body.Nickname != "tester" || body.ID == 0 {
		t.Fatalf("unexpected identity: %+v", body)
	}
	if len(body.Roles) != 1 || body.Roles[0] != signAuth.DefaultRole {
		t.Fatalf("unexpected roles: %v", body.Roles)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	h := newHarness(t)
	h.joinAndLogin(t, "a@x.com")

	wrongPassword := h.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "a@x.com", "password": "not-it",
	})
	unknownEmail := h.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "ghost@x.com", "password": "password-1",
	})

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("response bodies differ: %s vs %s", wrongPassword.Body, unknownEmail.Body)
	}
}

func TestUserGetRequiresToken(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/user/get?email=a@x.com", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserGetWithToken(t *testing.T) {
	h := newHarness(t)
	login := h.joinAndLogin(t, "a@x.com")

	rec := h.do(t, http.MethodGet, "/user/get?email=a@x.com", login.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	view := decodeBody[map[string]any](t, rec)
	if view["email"] != "a@x.com" || view["nickname"] != "tester" {
		t.Fatalf("unexpected view: %v", view)
	}
	if _, hasHash := view["passwordHash"]; hasHash {
		t.Fatal("password hash leaked into response")
	}

	missing := h.do(t, http.MethodGet, "/user/get?email=ghost@x.com", login.AccessToken, nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown account, got %d", missing.Code)
	}
}

func TestAdminGetEnforcesRole(t *testing.T) {
	h := newHarness(t)
	login := h.joinAndLogin(t, "a@x.com")

	rec := h.do(t, http.MethodGet, "/admin/get?email=a@x.com", login.AccessToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for plain user, got %d", rec.Code)
	}

	ctx := context.Background()
	stored, err := h.accounts.FindByEmail(ctx, "a@x.com")
	if err != nil || stored == nil {
		t.Fatalf("lookup error: %v", err)
	}
	stored.Roles = append(stored.Roles, httpapi.AdminRole)
	if _, err := h.accounts.Save(ctx, stored); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	rec = h.do(t, http.MethodGet, "/admin/get?email=a@x.com", login.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after promotion, got %d: %s", rec.Code, rec.Body)
	}
}

func TestRefreshRoundtrip(t *testing.T) {
	h := newHarness(t)
	login := h.joinAndLogin(t, "a@x.com")

	rec := h.do(t, http.MethodGet, "/refresh", "", tokenPair{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	pair := decodeBody[tokenPair](t, rec)
	if pair.AccessToken == "" {
		t.Fatal("expected reissued access token")
	}
	if pair.RefreshToken != login.RefreshToken {
		t.Fatal("refresh value should not rotate")
	}
}

func TestRefreshRejectsBadPair(t *testing.T) {
	h := newHarness(t)
	login := h.joinAndLogin(t, "a@x.com")

	rec := h.do(t, http.MethodGet, "/refresh", "", tokenPair{
		AccessToken:  login.AccessToken,
		RefreshToken: "wrong-value",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong refresh value, got %d", rec.Code)
	}

	rec = h.do(t, http.MethodGet, "/refresh", "", tokenPair{
		AccessToken:  "not.a.jwt",
		RefreshToken: login.RefreshToken,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage access token, got %d", rec.Code)
	}
}

func TestLogoutKillsRefresh(t *testing.T) {
	h := newHarness(t)
	login := h.joinAndLogin(t, "a@x.com")

	rec := h.do(t, http.MethodPost, "/logout", login.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = h.do(t, http.MethodGet, "/refresh", "", tokenPair{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}
