package auth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Irshadp556/movie-review-analysis/internal/models"
	"github.com/google/uuid"
)

// CookieName is the browser cookie carrying the opaque session identifier.
const CookieName = "session"

// sessionContextKey is the context key under which the request's session is stored.
type contextKey string

const sessionContextKey = contextKey("session")

// Session is the per-browser state of one visitor. It lives only in process
// memory, so a restart logs everyone out.
type Session struct {
	ID            string
	Authenticated bool
	UserID        int64
	Email         string
	LoginAttempts int
	Flash         string // one-shot message rendered on the next page
	Menu          string // "login" or "signup", which form the visitor is on

	// History caches the user's reviews so the home page doesn't refetch
	// on every render; refreshed on login and appended on submit.
	History []models.Review

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Login marks the session authenticated and resets the failure counter.
func (s *Session) Login(userID int64, email string) {
	s.Authenticated = true
	s.UserID = userID
	s.Email = email
	s.LoginAttempts = 0
}

// Store keeps all live sessions, keyed by their opaque identifier.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	secure   bool
}

// NewStore creates an empty session store. Sessions expire ttl after
// creation; secure controls the Secure flag on the cookie.
func NewStore(ttl time.Duration, secure bool) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		secure:   secure,
	}
}

// New creates and registers a fresh anonymous session.
func (st *Store) New() *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.New().String(),
		Menu:      "login",
		CreatedAt: now,
		ExpiresAt: now.Add(st.ttl),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the live session with the given id, or nil if it is unknown
// or already expired.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil
	}
	return s
}

// Renew re-keys the session under a fresh identifier and reissues the
// cookie. Called on successful authentication so the pre-login id a peer
// may have planted stops resolving.
func (st *Store) Renew(w http.ResponseWriter, s *Session) {
	st.mu.Lock()
	delete(st.sessions, s.ID)
	s.ID = uuid.New().String()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	st.setCookie(w, s)
}

// Destroy removes a session; a later Get with the same id misses.
func (st *Store) Destroy(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Count returns the number of tracked sessions, expired or not.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// SweepExpired drops every expired session and returns how many were removed.
func (st *Store) SweepExpired() int {
	now := time.Now()
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if now.After(s.ExpiresAt) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Middleware guarantees every request carries a live session: it resolves
// the session cookie, creating a fresh session (and setting the cookie)
// when the cookie is absent or stale, and stores the session in the
// request context.
func (st *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *Session
		if cookie, err := r.Cookie(CookieName); err == nil {
			sess = st.Get(cookie.Value)
		}
		if sess == nil {
			sess = st.New()
			st.setCookie(w, sess)
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects anonymous requests to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := FromContext(r.Context())
		if sess == nil || !sess.Authenticated {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FromContext returns the request's session, or nil outside the middleware.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey).(*Session)
	return s
}

func (st *Store) setCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie in the browser.
func (st *Store) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
