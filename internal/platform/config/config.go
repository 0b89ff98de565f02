package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	TokenTTL      time.Duration

	PostgresDSN string
	Redis       Redis

	AuditQueueSize int
	AuditWorkers   int
}

// Redis captures cache configuration. An empty URL disables the cache.
type Redis struct {
	URL          string
	PrincipalTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("AGENDO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		TokenTTL:      durationEnv("JWT_TOKEN_TTL", time.Hour),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PrincipalTTL: durationEnv("REDIS_PRINCIPAL_TTL", 5*time.Minute),
		},
		AuditQueueSize: intEnv("AUDIT_QUEUE_SIZE", 1024),
		AuditWorkers:   intEnv("AUDIT_WORKERS", 2),
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
