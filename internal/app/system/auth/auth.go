// internal/app/system/auth/auth.go

// Package auth manages the cookie session and the principal it carries.
//
// The principal is written exactly once, at the end of a successful login
// callback, as a single session save; request handlers read it back through
// LoadPrincipal/CurrentPrincipal. There is no half-attached state: either the
// session has a complete serialized principal or it has none.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/idbridge/internal/app/identity"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const principalKey = "principal"

type ctxKey string

const currentPrincipalKey ctxKey = "currentPrincipal"

// SessionManager wraps the cookie store and principal (de)serialization.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure with SameSite=Lax; over
// http://localhost secure must be false or the browser drops the cookie.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the underlying cookie store.
func (m *SessionManager) Store() *sessions.CookieStore { return m.store }

// GetSession returns the request's session, a fresh one if none exists.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

// AttachPrincipal serializes the principal into the session and saves it.
// A stale or undecodable session cookie is replaced, not treated as fatal.
func (m *SessionManager) AttachPrincipal(w http.ResponseWriter, r *http.Request, p identity.Principal) error {
	sess, err := m.GetSession(r)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			m.log.Error("session store error during login, using fresh session", zap.Error(err))
		}
	}

	data, err := identity.Marshal(p)
	if err != nil {
		return fmt.Errorf("serialize principal: %w", err)
	}

	sess.Values[principalKey] = string(data)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Invalidate deletes the session cookie, ending the authenticated session.
func (m *SessionManager) Invalidate(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Warn("session decode failed during logout", zap.Error(err))
	}

	// The deletion cookie must match the original store settings.
	if opts := m.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1

	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// CurrentPrincipal returns the principal loaded by LoadPrincipal.
func CurrentPrincipal(r *http.Request) (identity.Principal, bool) {
	p, ok := r.Context().Value(currentPrincipalKey).(identity.Principal)
	return p, ok
}

// LoadPrincipal injects the session principal into the request context when
// one is present. A corrupt serialized principal is logged and ignored; the
// request proceeds unauthenticated.
func (m *SessionManager) LoadPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.GetSession(r)

		raw, ok := sess.Values[principalKey].(string)
		if !ok || raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		p, err := identity.Unmarshal([]byte(raw))
		if err != nil {
			m.log.Warn("discarding undecodable session principal", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), currentPrincipalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePrincipal rejects requests that have no session principal with a
// plain 401. This is an API entry point: no login-page redirect.
func (m *SessionManager) RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentPrincipal(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
