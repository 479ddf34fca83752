// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	authgithubfeature "github.com/dalemusser/idbridge/internal/app/features/authgithub"
	authoidcfeature "github.com/dalemusser/idbridge/internal/app/features/authoidc"
	healthfeature "github.com/dalemusser/idbridge/internal/app/features/health"
	homefeature "github.com/dalemusser/idbridge/internal/app/features/home"
	stufffeature "github.com/dalemusser/idbridge/internal/app/features/stuff"
	userapifeature "github.com/dalemusser/idbridge/internal/app/features/userapi"
	"github.com/dalemusser/idbridge/internal/app/identity"
	stuffstore "github.com/dalemusser/idbridge/internal/app/store/stuff"
	userstore "github.com/dalemusser/idbridge/internal/app/store/users"
	"github.com/dalemusser/idbridge/internal/app/system/auth"
	"github.com/dalemusser/idbridge/internal/app/system/oauthstate"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// Route classification follows a fixed allow-list: the public pages, static
// assets, the login legs, and the health check are reachable anonymously;
// everything else requires a session principal and answers 401 without one.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Pick the AppUser directory backend.
	var dir identity.Directory
	if deps.MongoDatabase != nil {
		dir = userstore.NewMongoDirectory(deps.MongoDatabase)
	} else {
		dir = userstore.NewMemoryDirectory(userstore.DefaultSeed)
	}

	r := chi.NewRouter()

	// Global auth middleware: loads the session principal into context.
	r.Use(sessionMgr.LoadPrincipal)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", appCfg.PublicDir))

	// Public pages
	homeHandler := homefeature.NewHandler(appCfg.PublicDir, logger)
	homefeature.MountRoutes(r, homeHandler)

	// GitHub login leg (plain OAuth2)
	githubHandler := authgithubfeature.NewHandler(
		sessionMgr, dir,
		oauthstate.NewCodec([]byte(appCfg.SessionKey), "idbridge-github-state", secure),
		appCfg.GitHubClientID, appCfg.GitHubClientSecret,
		appCfg.BaseURL, appCfg.AuthSuccessURL, appCfg.AuthFailureURL,
		logger,
	)
	r.Mount("/auth/github", authgithubfeature.Routes(githubHandler))

	// OIDC login leg; only mounted when an issuer is configured, since
	// construction performs discovery against it.
	if appCfg.OIDCIssuer != "" {
		oidcHandler, err := authoidcfeature.NewHandler(
			context.Background(),
			sessionMgr, dir,
			oauthstate.NewCodec([]byte(appCfg.SessionKey), "idbridge-oidc-state", secure),
			appCfg.OIDCIssuer, appCfg.OIDCClientID, appCfg.OIDCClientSecret,
			appCfg.BaseURL, appCfg.AuthSuccessURL, appCfg.AuthFailureURL,
			logger,
		)
		if err != nil {
			logger.Error("OIDC handler init failed", zap.Error(err))
			return nil, err
		}
		r.Mount("/auth/oidc", authoidcfeature.Routes(oidcHandler))
	}

	// Everything else requires a session principal.
	r.Group(func(pr chi.Router) {
		pr.Use(sessionMgr.RequirePrincipal)

		userHandler := userapifeature.NewHandler(sessionMgr, logger)
		pr.Mount("/api/user", userapifeature.Routes(userHandler))

		stuffHandler := stufffeature.NewHandler(stuffstore.New(), logger)
		pr.Mount("/api/stuff", stufffeature.Routes(stuffHandler))
	})

	// Paths off the allow-list are protected too: anonymous callers get 401,
	// authenticated ones a plain 404.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if _, ok := auth.CurrentPrincipal(req); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})

	return r, nil
}
