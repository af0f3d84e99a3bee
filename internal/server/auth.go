package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const sessionCookieName = "tracker_session"

// sessionStore keeps the issued session tokens in memory. A restart logs
// everyone out, which is acceptable for a single shared PIN.
type sessionStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
	ttl    time.Duration
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{tokens: make(map[string]time.Time), ttl: ttl}
}

func (s *sessionStore) Create() string {
	b := make([]byte, 16)
	rand.Read(b)
	token := hex.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = time.Now().Add(s.ttl)
	return token
}

func (s *sessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

func (s *sessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Authenticator verifies the shared PIN and manages sessions. When a
// bcrypt hash is configured it wins over the plain PIN.
type Authenticator struct {
	pin      string
	pinHash  string
	sessions *sessionStore
}

func NewAuthenticator(pin, pinHash string, sessionTTL time.Duration) *Authenticator {
	return &Authenticator{
		pin:      pin,
		pinHash:  pinHash,
		sessions: newSessionStore(sessionTTL),
	}
}

func (a *Authenticator) verify(pin string) bool {
	if a.pinHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(a.pinHash), []byte(pin)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(pin), []byte(a.pin)) == 1
}

func sessionFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// LoginRequest is the request body for POST /api/login.
type LoginRequest struct {
	PIN string `json:"pin"`
}

// MeResponse is the response for GET /api/me.
type MeResponse struct {
	Authenticated bool `json:"authenticated"`
}

func handleLogin(auth *Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PIN == "" {
			writeError(w, http.StatusBadRequest, "pin is required")
			return
		}

		if !auth.verify(req.PIN) {
			writeError(w, http.StatusUnauthorized, "incorrect PIN")
			return
		}

		token := auth.sessions.Create()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(auth.sessions.ttl / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, MeResponse{Authenticated: true})
	}
}

func handleLogout(auth *Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := sessionFromRequest(r); token != "" {
			auth.sessions.Delete(token)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, MeResponse{Authenticated: false})
	}
}

func handleMe(auth *Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok := auth.sessions.Valid(sessionFromRequest(r))
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, MeResponse{Authenticated: true})
	}
}

func authMiddleware(auth *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.sessions.Valid(sessionFromRequest(r)) {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
