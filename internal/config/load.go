package config

import (
	"github.com/Skotchmaster/vibe_commerce/pkg/config"
	"github.com/Skotchmaster/vibe_commerce/pkg/db"
)

const DriverMongo = "mongo"

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	cfg := config.Load()

	config.MustOneOf(cfg.StoreDriver, "STORE_DRIVER", db.DriverPostgres, db.DriverSQLite, DriverMongo)
	if cfg.StoreDriver == DriverMongo {
		config.MustNonEmpty(cfg.MongoURI, "MONGO_URI")
	} else {
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	}

	return ServiceConfig{Config: cfg}
}

func (c ServiceConfig) UsesMongo() bool {
	return c.StoreDriver == DriverMongo
}
