// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging); AppConfig is everything
// specific to idbridge.
type AppConfig struct {
	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: idbridge-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL for provider redirect URIs (e.g., "https://idbridge.example.com")
	BaseURL string

	// Where the browser lands after a login attempt
	AuthSuccessURL string // after a successful login (default: "/")
	AuthFailureURL string // after a failed login (default: "/error")

	// GitHub OAuth2 (plain-OAuth2 login leg)
	GitHubClientID     string
	GitHubClientSecret string

	// OIDC login leg
	OIDCIssuer       string // issuer URL for discovery (e.g., "https://accounts.google.com")
	OIDCClientID     string
	OIDCClientSecret string

	// AppUser directory backend: "memory" or "mongo"
	UserStore string

	// MongoDB connection configuration (only used when UserStore is "mongo")
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Directory of public static files (index.html, error.html, favicon, static/)
	PublicDir string
}
