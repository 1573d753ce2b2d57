package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// TMDB catalog configuration
	TMDBAPIKey      string
	TMDBBaseURL     string
	ResolverTimeout time.Duration

	// Admin gate configuration
	AdminPassphrase     string
	AdminPassphraseHash string
	AdminSessionTTL     time.Duration

	// Reservation configuration
	SeatHoldTTL time.Duration
	HostName    string

	// Venue details used for calendar export
	VenueName    string
	VenueAddress string

	// Throttling
	ThrottleLimit  int
	ThrottleWindow time.Duration

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	// Optional .env file for local development.
	_ = godotenv.Load()

	return &Config{
		// Server
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// TMDB
		TMDBAPIKey:      getEnv("TMDB_API_KEY", ""),
		TMDBBaseURL:     getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		ResolverTimeout: getEnvAsDuration("RESOLVER_TIMEOUT", "10s"),

		// Admin gate
		AdminPassphrase:     getEnv("ADMIN_PASSPHRASE", ""),
		AdminPassphraseHash: getEnv("ADMIN_PASSPHRASE_HASH", ""),
		AdminSessionTTL:     getEnvAsDuration("ADMIN_SESSION_TTL", "12h"),

		// Reservations
		SeatHoldTTL: getEnvAsDuration("SEAT_HOLD_TTL", "10s"),
		HostName:    getEnv("HOST_NAME", "Jim"),

		// Venue
		VenueName:    getEnv("VENUE_NAME", "Reels & Rye"),
		VenueAddress: getEnv("VENUE_ADDRESS", "6760 Woodland Reserve Ct. Cincinnati, OH 45243"),

		// Throttling
		ThrottleLimit:  getEnvAsInt("THROTTLE_LIMIT", 30),
		ThrottleWindow: getEnvAsDuration("THROTTLE_WINDOW", "1m"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
