// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	advisoryfeature "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/advisory"
	directoryfeature "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/directory"
	errorsfeature "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/errors"
	healthfeature "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/health"
	loginfeature "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/login"
	profilefeature "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/profile"
	registerfeature "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/register"
	loginstore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/logins"
	profilestore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/profiles"
	userstore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/users"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/auth"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/httpjson"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/ratelimit"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/token"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the stores and the token
// issuer, then mounts one feature router per API area. Every response goes
// through the shared JSON envelope; there are no HTML routes.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	issuer, err := token.NewIssuer(appCfg.JWTSecret, appCfg.JWTExpiry, logger)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	profiles := profilestore.New(deps.MongoDatabase)
	logins := loginstore.New(deps.MongoDatabase)
	errLog := errorsfeature.NewErrorLogger(logger)

	loginLimiter := ratelimit.NewLoginLimiterWithConfig(
		appCfg.LoginIPLimit, appCfg.LoginIPWindow,
		appCfg.LoginIdentLimit, appCfg.LoginIdentWindow,
	)

	r := chi.NewRouter()

	// Global auth middleware: loads the Bearer-token user into context if
	// one is present. This makes the current user available to all
	// handlers via auth.CurrentUser(r); route groups that need a signed-in
	// user gate on it with auth.RequireSignedIn.
	r.Use(auth.LoadBearerUser(issuer))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Account creation and authentication
	registerHandler := registerfeature.NewHandler(users, profiles, issuer, errLog, logger)
	r.Mount("/api/register", registerfeature.Routes(registerHandler))

	loginHandler := loginfeature.NewHandler(users, logins, issuer, loginLimiter, errLog, logger)
	r.Mount("/api/login", loginfeature.Routes(loginHandler))

	// Own-account profile (read and update)
	profileHandler := profilefeature.NewHandler(users, profiles, errLog, logger)
	r.Mount("/api/profile", profilefeature.Routes(profileHandler))

	// Cross-role user directory
	directoryHandler := directoryfeature.NewHandler(users, errLog, logger)
	r.Mount("/api/users", directoryfeature.Routes(directoryHandler))

	// Weather-driven crop advisories; only mounted when a provider key is
	// configured, so unconfigured deployments 404 the routes outright.
	if appCfg.WeatherAPIKey != "" {
		provider := advisoryfeature.NewOpenWeatherClient(appCfg.WeatherAPIKey)
		advisoryHandler := advisoryfeature.NewHandler(provider, logger)
		r.Mount("/api/advisory", advisoryfeature.Routes(advisoryHandler))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r, nil
}
