package config

import "os"

// Getenv returns the environment value or the fallback when unset.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// IsTestEnv reports whether the service runs under ENV=test; external
// side effects (Kafka publish, Redis cache) are skipped in that mode.
func IsTestEnv() bool {
	return os.Getenv("ENV") == "test"
}

// JWTSecret is the HS256 signing key shared by login and the route guards.
func JWTSecret() []byte {
	return []byte(Getenv("JWT_SECRET", "secret"))
}
