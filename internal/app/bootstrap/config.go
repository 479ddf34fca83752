// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for idbridge.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: session_key, github_client_id, etc.
//   - Environment variables: IDBRIDGE_SESSION_KEY, IDBRIDGE_GITHUB_CLIENT_ID, etc.
//   - Command-line flags: --session_key, --github_client_id, etc.
var appConfigKeys = []config.AppKey{
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "idbridge-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Base URL for provider redirect URIs"},

	{Name: "auth_success_url", Default: "/", Desc: "Redirect destination after a successful login"},
	{Name: "auth_failure_url", Default: "/error", Desc: "Redirect destination after a failed login"},

	// GitHub OAuth2 configuration
	{Name: "github_client_id", Default: "", Desc: "GitHub OAuth2 client ID"},
	{Name: "github_client_secret", Default: "", Desc: "GitHub OAuth2 client secret"},

	// OIDC configuration
	{Name: "oidc_issuer", Default: "", Desc: "OIDC issuer URL for discovery"},
	{Name: "oidc_client_id", Default: "", Desc: "OIDC client ID"},
	{Name: "oidc_client_secret", Default: "", Desc: "OIDC client secret"},

	// AppUser directory backend
	{Name: "user_store", Default: "memory", Desc: "AppUser directory backend: 'memory' or 'mongo'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (user_store=mongo)"},
	{Name: "mongo_database", Default: "idbridge", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "public_dir", Default: "public", Desc: "Directory of public static files"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have access
// to configuration before any backends or handlers are built. Precedence is
// flags > env > files > defaults, handled by WAFFLE.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "IDBRIDGE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		BaseURL: appValues.String("base_url"),

		AuthSuccessURL: appValues.String("auth_success_url"),
		AuthFailureURL: appValues.String("auth_failure_url"),

		GitHubClientID:     appValues.String("github_client_id"),
		GitHubClientSecret: appValues.String("github_client_secret"),

		OIDCIssuer:       appValues.String("oidc_issuer"),
		OIDCClientID:     appValues.String("oidc_client_id"),
		OIDCClientSecret: appValues.String("oidc_client_secret"),

		UserStore:        appValues.String("user_store"),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		PublicDir: appValues.String("public_dir"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// idbridge can boot with neither provider configured (public pages still
// serve), but that is almost certainly a misconfiguration, so it is logged
// loudly rather than rejected.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.UserStore {
	case "memory":
		// nothing to validate
	case "mongo":
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	default:
		return fmt.Errorf("user_store must be 'memory' or 'mongo', got %q", appCfg.UserStore)
	}

	githubConfigured := appCfg.GitHubClientID != "" && appCfg.GitHubClientSecret != ""
	oidcConfigured := appCfg.OIDCIssuer != "" && appCfg.OIDCClientID != "" && appCfg.OIDCClientSecret != ""
	if !githubConfigured && !oidcConfigured {
		logger.Warn("no identity provider configured; logins will fail until github_* or oidc_* settings are supplied")
	}

	return nil
}
