package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	signAuth "github.com/MrEthical07/signAuth"
	"github.com/MrEthical07/signAuth/logging"
	"github.com/MrEthical07/signAuth/middleware"
)

// AdminRole guards the /admin/get route.
const AdminRole = "ROLE_ADMIN"

// Handler serves the JSON API.
type Handler struct {
	engine *signAuth.Engine
	logger logging.Logger
}

// NewHandler wires the engine into a Handler. A nil logger discards logs.
func NewHandler(engine *signAuth.Engine, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{engine: engine, logger: logger}
}

// Router returns the route table:
//
//	POST /join       public
//	POST /login      public
//	GET  /user/get   authenticated
//	GET  /admin/get  authenticated + ROLE_ADMIN
//	GET  /refresh    credential pair in body (kept for compatibility)
//	POST /logout     authenticated
func (h *Handler) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /join", h.join)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("GET /refresh", h.refresh)
	mux.Handle("GET /user/get", middleware.Guard(h.engine)(http.HandlerFunc(h.getAccount)))
	mux.Handle("GET /admin/get", middleware.RequireRole(h.engine, AdminRole)(http.HandlerFunc(h.getAccount)))
	mux.Handle("POST /logout", middleware.Guard(h.engine)(http.HandlerFunc(h.logout)))
	return mux
}

type joinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

func (h *Handler) join(w http.ResponseWriter, r *http.Request) {
	var body joinRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	err := h.engine.Signup(r.Context(), signAuth.SignupRequest{
		Email:    body.Email,
		Password: body.Password,
		Nickname: body.Nickname,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, true)
	case errors.Is(err, signAuth.ErrAccountExists):
		writeError(w, http.StatusConflict, "account already exists")
	case errors.Is(err, signAuth.ErrSignupInvalid):
		writeError(w, http.StatusBadRequest, "bad request")
	default:
		// Cause was already logged inside the engine.
		writeError(w, http.StatusServiceUnavailable, "signup unavailable")
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email"`
	Nickname     string   `json:"nickname"`
	Roles        []string `json:"roles"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	result, err := h.engine.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		// Unknown email and wrong password take the same path.
		if errors.Is(err, signAuth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error(r.Context(), "login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		ID:           result.ID,
		Email:        result.Email,
		Nickname:     result.Nickname,
		Roles:        result.Roles,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

type tokenPairBody struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refresh reads the credential pair from the request body. A GET with a body
// is unusual; the shape is preserved for compatibility with existing
// clients.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var body tokenPairBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	pair, err := h.engine.Refresh(r.Context(), signAuth.TokenPair{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
	})
	if err != nil {
		if errors.Is(err, signAuth.ErrRefreshInvalid) {
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		h.logger.Error(r.Context(), "refresh failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokenPairBody{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type accountResponse struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	Nickname string   `json:"nickname"`
	Roles    []string `json:"roles"`
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email parameter required")
		return
	}

	view, err := h.engine.AccountByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, signAuth.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error(r.Context(), "account lookup failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		ID:       view.ID,
		Email:    view.Email,
		Nickname: view.Nickname,
		Roles:    view.Roles,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.engine.Logout(r.Context(), token); err != nil {
		h.logger.Error(r.Context(), "logout failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, true)
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) <= len(bearer) {
		return "", false
	}
	if !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}
	return value[len(bearer):], true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
