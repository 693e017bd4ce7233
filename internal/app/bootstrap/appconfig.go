// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and body size limits. AppConfig is
// everything specific to KrishiSeva.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm

	// Token configuration
	JWTSecret string        // HMAC signing secret (must be strong in production)
	JWTExpiry time.Duration // Token lifetime (default 168h)

	// Password hashing
	BcryptCost int // bcrypt cost factor (0 keeps the library default)

	// Handler operation timeouts
	TimeoutShort  time.Duration // single-document reads
	TimeoutMedium time.Duration // list queries, moderate writes
	TimeoutLong   time.Duration // multi-collection writes

	// Login rate limiting
	LoginIPLimit     int           // attempts per IP per window
	LoginIPWindow    time.Duration
	LoginIdentLimit  int // attempts per identifier per window
	LoginIdentWindow time.Duration

	// Weather advisory provider; the advisory routes are only mounted
	// when a key is configured.
	WeatherAPIKey string
}
