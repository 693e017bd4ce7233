// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// appConfigKeys defines the configuration keys for KrishiSeva.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: KRISHISEVA_MONGO_URI, KRISHISEVA_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "krishiseva", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Tokens
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "JWT signing secret (must be strong in production)"},
	{Name: "jwt_expiry", Default: "168h", Desc: "JWT lifetime (e.g., 168h, 24h)"},

	// Password hashing
	{Name: "bcrypt_cost", Default: 0, Desc: "bcrypt cost factor (0 uses the library default)"},

	// Handler operation timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries and moderate writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for multi-collection writes"},

	// Login rate limiting
	{Name: "login_ip_limit", Default: 10, Desc: "Login attempts allowed per IP per window"},
	{Name: "login_ip_window", Default: "1m", Desc: "Window for the per-IP login limit"},
	{Name: "login_ident_limit", Default: 5, Desc: "Login attempts allowed per identifier per window"},
	{Name: "login_ident_window", Default: "5m", Desc: "Window for the per-identifier login limit"},

	// Weather advisory
	{Name: "weather_api_key", Default: "", Desc: "OpenWeatherMap API key (advisory routes disabled when empty)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, KRISHISEVA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "KRISHISEVA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTExpiry: appValues.Duration("jwt_expiry", 168*time.Hour),

		BcryptCost: appValues.Int("bcrypt_cost"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),

		LoginIPLimit:     appValues.Int("login_ip_limit"),
		LoginIPWindow:    appValues.Duration("login_ip_window", time.Minute),
		LoginIdentLimit:  appValues.Int("login_ident_limit"),
		LoginIdentWindow: appValues.Duration("login_ident_window", 5*time.Minute),

		WeatherAPIKey: appValues.String("weather_api_key"),
	}

	return coreCfg, appCfg, nil
}

// devJWTSecret is the default secret; acceptable only outside production.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must not be empty")
	}
	if coreCfg.Env == "prod" && appCfg.JWTSecret == devJWTSecret {
		return fmt.Errorf("jwt_secret is still the development default; set KRISHISEVA_JWT_SECRET")
	}

	if c := appCfg.BcryptCost; c != 0 && (c < bcrypt.MinCost || c > bcrypt.MaxCost) {
		return fmt.Errorf("bcrypt_cost %d outside supported range [%d, %d]", c, bcrypt.MinCost, bcrypt.MaxCost)
	}

	if appCfg.JWTExpiry <= 0 {
		return fmt.Errorf("jwt_expiry must be positive")
	}

	return nil
}
