// internal/app/features/authoidc/handler.go
package authoidc

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dalemusser/idbridge/internal/app/identity"
	"github.com/dalemusser/idbridge/internal/app/system/auth"
	"github.com/dalemusser/idbridge/internal/app/system/oauthstate"
	"github.com/dalemusser/idbridge/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Handler runs the OIDC login leg. The issuer's endpoints and signing keys
// come from discovery at construction time; ID tokens are verified before any
// claim is trusted.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Dir        identity.Directory
	States     *oauthstate.Codec

	SuccessURL string
	FailureURL string

	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
}

// NewHandler discovers the issuer and builds the OIDC handler.
func NewHandler(
	ctx context.Context,
	sessionMgr *auth.SessionManager,
	dir identity.Directory,
	states *oauthstate.Codec,
	issuer, clientID, clientSecret, baseURL, successURL, failureURL string,
	logger *zap.Logger,
) (*Handler, error) {
	if issuer == "" {
		return nil, fmt.Errorf("oidc login requires an issuer")
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("oidc login requires client credentials")
	}

	// Discovery is an outbound call like any other; without a deadline an
	// unresponsive issuer would stall startup.
	discoveryCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	provider, err := oidc.NewProvider(discoveryCtx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery for %s: %w", issuer, err)
	}

	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Dir:        dir,
		States:     states,
		SuccessURL: successURL,
		FailureURL: failureURL,
		verifier:   provider.Verifier(&oidc.Config{ClientID: clientID}),
		oauth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/oidc/callback",
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			Endpoint:     provider.Endpoint(),
		},
	}, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/oidc                                                               |
| Starts the authorization-code flow with a state cookie and a nonce.          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	payload, err := h.States.Issue(w)
	if err != nil {
		h.Log.Error("failed to issue OIDC state", zap.Error(err))
		h.redirectToFailure(w, r, "internal")
		return
	}

	url := h.oauth2Config.AuthCodeURL(payload.State, oidc.Nonce(payload.Nonce))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/oidc/callback                                                      |
| Verifies the ID token (signature, audience, nonce), reconciles the verified  |
| claims against the local directory, and attaches the principal.              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("OIDC provider error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.redirectToFailure(w, r, "provider_denied")
		return
	}

	state := r.URL.Query().Get("state")
	payload, err := h.States.Consume(w, r)
	if err != nil {
		h.Log.Warn("invalid or expired OIDC state", zap.Error(err))
		h.redirectToFailure(w, r, "invalid_state")
		return
	}
	if state == "" || subtle.ConstantTimeCompare([]byte(state), []byte(payload.State)) != 1 {
		h.Log.Warn("OIDC state mismatch")
		h.redirectToFailure(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OIDC code parameter")
		h.redirectToFailure(w, r, "invalid_code")
		return
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	token, err := h.oauth2Config.Exchange(exchangeCtx, code)
	if err != nil {
		h.Log.Error("failed to exchange OIDC code", zap.Error(err))
		h.redirectToFailure(w, r, "token_exchange")
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		h.Log.Error("token response missing id_token")
		h.redirectToFailure(w, r, "token_exchange")
		return
	}

	idToken, err := h.verifier.Verify(exchangeCtx, rawIDToken)
	if err != nil {
		h.Log.Error("ID token verification failed", zap.Error(err))
		h.redirectToFailure(w, r, "invalid_token")
		return
	}
	if idToken.Nonce != payload.Nonce {
		h.Log.Warn("OIDC nonce mismatch")
		h.redirectToFailure(w, r, "invalid_token")
		return
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		h.Log.Error("failed to decode ID token claims", zap.Error(err))
		h.redirectToFailure(w, r, "invalid_token")
		return
	}

	lookupCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	principal, err := identity.ReconcileOIDC(lookupCtx, h.Dir, claims, rawIDToken)
	if err != nil {
		h.Log.Error("directory lookup failed", zap.Error(err))
		h.redirectToFailure(w, r, "internal")
		return
	}

	if user, ok := principal.LocalUser(); ok {
		h.Log.Info("user logged in via OIDC",
			zap.Int("app_user_id", user.AppUserID),
			zap.String("email", user.Email))
	} else {
		h.Log.Info("OIDC login with no local account",
			zap.String("subject", idToken.Subject))
	}

	if err := h.SessionMgr.AttachPrincipal(w, r, principal); err != nil {
		h.Log.Error("save session failed", zap.Error(err))
		h.redirectToFailure(w, r, "session")
		return
	}

	http.Redirect(w, r, h.SuccessURL, http.StatusSeeOther)
}

func (h *Handler) redirectToFailure(w http.ResponseWriter, r *http.Request, errorCode string) {
	http.Redirect(w, r, h.FailureURL+"?error="+errorCode, http.StatusSeeOther)
}
