package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// Local embedded store
	LocalDBPath string

	// Remote sync backend (Postgres). Empty means the app runs fully
	// offline: sync endpoints will report failure, everything else works.
	RemoteDatabaseURL string

	Port         string
	IsProduction bool

	// Local API token issued at login
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Cached credential bundle
	CredentialSealSecret  string
	OfflineValidityWindow time.Duration
	ClockSkewTolerance    time.Duration
	TokenRefreshWindow    time.Duration

	// Cloud auth endpoint (password + refresh grants)
	OAuthClientID     string
	OAuthClientSecret string
	OAuthTokenURL     string

	// Login rate limit in ulule/limiter notation, e.g. "10-M"
	LoginRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("LOCAL_DB_PATH", "tindahan.db")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "tindahan")
	viper.SetDefault("SEAL_SECRET", "")
	viper.SetDefault("OFFLINE_VALIDITY_WINDOW", "720h")
	viper.SetDefault("CLOCK_SKEW_TOLERANCE", "5m")
	viper.SetDefault("TOKEN_REFRESH_WINDOW", "10m")
	viper.SetDefault("OAUTH_CLIENT_ID", "")
	viper.SetDefault("OAUTH_CLIENT_SECRET", "")
	viper.SetDefault("OAUTH_TOKEN_URL", "")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.LocalDBPath = viper.GetString("LOCAL_DB_PATH")
	cfg.RemoteDatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.RemoteDatabaseURL == "" {
		log.Println("Warning: PGSQL_URL not set. Sync and online login are disabled.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 24 * time.Hour
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.CredentialSealSecret = viper.GetString("SEAL_SECRET")
	if cfg.CredentialSealSecret == "" {
		// Falling back to the JWT secret keeps single-variable setups
		// working; a dedicated secret is still recommended.
		cfg.CredentialSealSecret = cfg.JWTSecret
		log.Println("Warning: SEAL_SECRET not set. Reusing JWT_SECRET for credential sealing.")
	}

	cfg.OfflineValidityWindow = parseDurationOrDefault("OFFLINE_VALIDITY_WINDOW", 720*time.Hour)
	cfg.ClockSkewTolerance = parseDurationOrDefault("CLOCK_SKEW_TOLERANCE", 5*time.Minute)
	cfg.TokenRefreshWindow = parseDurationOrDefault("TOKEN_REFRESH_WINDOW", 10*time.Minute)

	cfg.OAuthClientID = viper.GetString("OAUTH_CLIENT_ID")
	cfg.OAuthClientSecret = viper.GetString("OAUTH_CLIENT_SECRET")
	cfg.OAuthTokenURL = viper.GetString("OAUTH_TOKEN_URL")
	if cfg.OAuthTokenURL == "" {
		log.Println("Warning: OAUTH_TOKEN_URL not set. Online login will not function.")
	}

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	return cfg, nil
}

func parseDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid %s (%q). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}
