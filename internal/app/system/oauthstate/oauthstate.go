// internal/app/system/oauthstate/oauthstate.go

// Package oauthstate carries the OAuth2/OIDC state (and nonce) across the
// provider redirect. The payload rides in a short-lived signed cookie, so no
// server-side storage is involved and validation works on any instance.
package oauthstate

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
)

const cookieMaxAge = 600 // seconds; the provider round-trip should be quick

// Payload is what survives the trip to the provider and back.
type Payload struct {
	State string
	Nonce string
}

// Codec signs and validates state cookies for one login leg.
type Codec struct {
	sc     *securecookie.SecureCookie
	name   string
	secure bool
}

// NewCodec builds a codec whose cookies are named name and signed with key.
func NewCodec(key []byte, name string, secure bool) *Codec {
	sc := securecookie.New(key, nil)
	sc.MaxAge(cookieMaxAge)
	return &Codec{sc: sc, name: name, secure: secure}
}

// Issue generates a fresh state (and nonce), sets the cookie, and returns the
// payload for building the authorization URL.
func (c *Codec) Issue(w http.ResponseWriter) (Payload, error) {
	state, err := randomToken()
	if err != nil {
		return Payload{}, err
	}
	nonce, err := randomToken()
	if err != nil {
		return Payload{}, err
	}

	p := Payload{State: state, Nonce: nonce}
	encoded, err := c.sc.Encode(c.name, p)
	if err != nil {
		return Payload{}, fmt.Errorf("encode state cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return p, nil
}

// Consume validates and clears the state cookie. Expired or tampered cookies
// fail validation inside securecookie.
func (c *Codec) Consume(w http.ResponseWriter, r *http.Request) (Payload, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return Payload{}, fmt.Errorf("missing state cookie: %w", err)
	}

	var p Payload
	if err := c.sc.Decode(c.name, cookie.Value, &p); err != nil {
		return Payload{}, fmt.Errorf("decode state cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return p, nil
}

// randomToken creates a cryptographically secure random token string.
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
