package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServiceName string

	ServerPort int

	LogLevel string

	StoreDriver string
	DatabaseURL string

	MongoURI      string
	MongoDatabase string

	KafkaBrokers []string

	SeedProducts bool
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "shop"),

		ServerPort: EnvIntDefault("SERVER_PORT", 5000),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(EnvDefault("STORE_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: EnvDefault("MONGO_DATABASE", "shop"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		SeedProducts: EnvBoolDefault("SEED_PRODUCTS", true),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
