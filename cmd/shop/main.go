package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	shopcfg "github.com/Skotchmaster/vibe_commerce/internal/config"
	"github.com/Skotchmaster/vibe_commerce/internal/httpserver"
	"github.com/Skotchmaster/vibe_commerce/internal/mykafka"
	"github.com/Skotchmaster/vibe_commerce/internal/repo"
	"github.com/Skotchmaster/vibe_commerce/internal/seed"
	"github.com/Skotchmaster/vibe_commerce/internal/service"
	pkgdb "github.com/Skotchmaster/vibe_commerce/pkg/db"
	"github.com/Skotchmaster/vibe_commerce/pkg/logging"
	loggingmw "github.com/Skotchmaster/vibe_commerce/pkg/middleware/logging"
)

type store interface {
	service.CatalogRepo
	service.CartRepo
	service.OrderRepo
	seed.Store
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}

type eventProducer interface {
	service.EventPublisher
	Close() error
}

func openStore(ctx context.Context, cfg shopcfg.ServiceConfig) (store, func() error, error) {
	if cfg.UsesMongo() {
		r, err := repo.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return r, func() error { return r.Close(context.Background()) }, nil
	}

	db, err := pkgdb.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return &repo.GormRepo{DB: db}, func() error { return pkgdb.Close(db) }, nil
}

func newProducer(brokers []string, l *slog.Logger) eventProducer {
	if len(brokers) == 0 {
		l.Info("KAFKA_BROKERS not set, event publishing disabled")
		return mykafka.NopProducer{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mykafka.EnsureTopics(ctx, brokers[0], mykafka.TopicCartEvents, mykafka.TopicOrderEvents); err != nil {
		l.Warn("kafka topics not ensured, relying on auto creation", "error", err)
	}

	p, err := mykafka.NewProducer(brokers)
	if err != nil {
		log.Fatalf("kafka producer: %v", err)
	}
	return p
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment variables", err)
	}

	cfg := shopcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, closeStore, err := openStore(initCtx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("store open (%s): %v", cfg.StoreDriver, err)
	}
	if err := st.Migrate(initCtx); err != nil {
		cancel()
		log.Fatalf("store migrate: %v", err)
	}
	if cfg.SeedProducts {
		if _, err := seed.Products(initCtx, st, logger); err != nil {
			logger.Error("seeding failed", "error", err)
		}
	}
	cancel()

	prod := newProducer(cfg.KafkaBrokers, logger)

	carts := &service.CartService{Repo: st, Catalog: st, Events: prod}
	deps := &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: st}},
		CartHandler:    &httpserver.CartHTTP{Svc: carts},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:   st,
			Carts:  carts,
			Events: prod,
		}},
		Ready: st.Ping,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("shop listening", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := prod.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	if err := closeStore(); err != nil {
		logger.Error("store close", "error", err)
	}

	logger.Info("shutdown complete")
}

