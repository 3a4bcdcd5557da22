package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret string
	GinMode       string

	// MainDomain is the apex domain requests arrive on; the first subdomain
	// label is treated as an organization slug (acme.example.com -> "acme").
	MainDomain string

	// InvitationTTLDays is the default lifetime of a new invitation.
	InvitationTTLDays int
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "orghub"),
		DBPassword: getEnv("DB_PASSWORD", "orghub"),
		DBName:     getEnv("DB_NAME", "orghub"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),

		MainDomain:        getEnv("MAIN_DOMAIN", "localhost"),
		InvitationTTLDays: getEnvInt("INVITATION_TTL_DAYS", 7),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
