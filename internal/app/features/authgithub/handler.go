// internal/app/features/authgithub/handler.go
package authgithub

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dalemusser/idbridge/internal/app/identity"
	"github.com/dalemusser/idbridge/internal/app/system/auth"
	"github.com/dalemusser/idbridge/internal/app/system/oauthstate"
	"github.com/dalemusser/idbridge/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// defaultUserInfoURL is GitHub's authenticated-user endpoint.
const defaultUserInfoURL = "https://api.github.com/user"

// Handler runs the plain-OAuth2 login leg against GitHub.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Dir        identity.Directory
	States     *oauthstate.Codec

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://idbridge.example.com/auth/github/callback"

	SuccessURL string
	FailureURL string

	// UserInfoURL and Endpoint override GitHub's endpoints; tests point them
	// at a local server.
	UserInfoURL string
	Endpoint    oauth2.Endpoint
}

// NewHandler creates a GitHub OAuth handler.
func NewHandler(
	sessionMgr *auth.SessionManager,
	dir identity.Directory,
	states *oauthstate.Codec,
	clientID, clientSecret, baseURL, successURL, failureURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:          logger,
		SessionMgr:   sessionMgr,
		Dir:          dir,
		States:       states,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/github/callback",
		SuccessURL:   successURL,
		FailureURL:   failureURL,
		UserInfoURL:  defaultUserInfoURL,
		Endpoint:     github.Endpoint,
	}
}

// oauth2Config returns the GitHub OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     h.Endpoint,
	}
}

// IsConfigured returns true if GitHub OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/github                                                             |
| Initiates the OAuth flow by redirecting to GitHub's consent screen.          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("GitHub OAuth not configured")
		h.redirectToFailure(w, r, "github_not_configured")
		return
	}

	payload, err := h.States.Issue(w)
	if err != nil {
		h.Log.Error("failed to issue OAuth state", zap.Error(err))
		h.redirectToFailure(w, r, "internal")
		return
	}

	url := h.oauth2Config().AuthCodeURL(payload.State)

	h.Log.Debug("initiating GitHub OAuth flow", zap.String("redirect_url", url))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/github/callback                                                    |
| Exchanges the code for a token, fetches the user's attribute bag, reconciles |
| it against the local directory, and attaches the principal to the session.   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check for errors from GitHub
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("GitHub OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.redirectToFailure(w, r, "github_denied")
		return
	}

	// Validate the state parameter against the state cookie
	state := r.URL.Query().Get("state")
	payload, err := h.States.Consume(w, r)
	if err != nil {
		h.Log.Warn("invalid or expired OAuth state", zap.Error(err))
		h.redirectToFailure(w, r, "invalid_state")
		return
	}
	if state == "" || subtle.ConstantTimeCompare([]byte(state), []byte(payload.State)) != 1 {
		h.Log.Warn("OAuth state mismatch")
		h.redirectToFailure(w, r, "invalid_state")
		return
	}

	// Exchange code for token
	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		h.redirectToFailure(w, r, "invalid_code")
		return
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	token, err := h.oauth2Config().Exchange(exchangeCtx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		h.redirectToFailure(w, r, "token_exchange")
		return
	}

	attrs, err := h.fetchUserAttributes(exchangeCtx, token)
	if err != nil {
		h.Log.Error("failed to fetch GitHub user info", zap.Error(err))
		h.redirectToFailure(w, r, "user_info")
		return
	}

	// Reconcile the provider identity against the local directory. An unknown
	// user is not a failure; the principal just stays provider-only.
	lookupCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	principal, err := identity.ReconcileOAuth2(lookupCtx, h.Dir, attrs)
	if err != nil {
		h.Log.Error("directory lookup failed", zap.Error(err))
		h.redirectToFailure(w, r, "internal")
		return
	}

	if user, ok := principal.LocalUser(); ok {
		h.Log.Info("user logged in via GitHub OAuth",
			zap.Int("app_user_id", user.AppUserID),
			zap.String("github_username", user.GitHubUsername))
	} else {
		h.Log.Info("GitHub login with no local account",
			zap.Any("login", attrs["login"]))
	}

	if err := h.SessionMgr.AttachPrincipal(w, r, principal); err != nil {
		h.Log.Error("save session failed", zap.Error(err))
		h.redirectToFailure(w, r, "session")
		return
	}

	http.Redirect(w, r, h.SuccessURL, http.StatusSeeOther)
}

// fetchUserAttributes retrieves the raw attribute bag from GitHub's user endpoint.
func (h *Handler) fetchUserAttributes(ctx context.Context, token *oauth2.Token) (map[string]any, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get(h.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var attrs map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&attrs); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return attrs, nil
}

// redirectToFailure sends the browser to the configured failure URL with an
// error code for the frontend to display.
func (h *Handler) redirectToFailure(w http.ResponseWriter, r *http.Request, errorCode string) {
	http.Redirect(w, r, h.FailureURL+"?error="+errorCode, http.StatusSeeOther)
}
