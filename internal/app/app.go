package app

import (
	"context"
	"fmt"
	"net/http"

	"catalog-admin-go/internal/config"
	"catalog-admin-go/internal/db"
	attributedomain "catalog-admin-go/internal/domain/attribute"
	familydomain "catalog-admin-go/internal/domain/attributefamily"
	"catalog-admin-go/internal/i18n"
	"catalog-admin-go/internal/repository/cache"
	"catalog-admin-go/internal/repository/inmemory"
	attributerepo "catalog-admin-go/internal/repository/postgres/attribute"
	familyrepo "catalog-admin-go/internal/repository/postgres/attributefamily"
	"catalog-admin-go/internal/transport/httpserver"
	"catalog-admin-go/internal/transport/httpserver/handler"
	"catalog-admin-go/internal/validation"
	"catalog-admin-go/migrations"
	"catalog-admin-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.SkipAuth {
		log.Warn("app: admin authentication disabled", "mock_admin_id", cfg.Auth.MockAdminID)
	}

	translator, err := i18n.New(cfg.I18n.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("init translations: %w", err)
	}

	var (
		families   familydomain.Repository
		attributes attributedomain.Repository
		ping       handler.Pinger
		dbConn     *gorm.DB
	)

	switch cfg.Storage {
	case config.StorageMemory:
		log.Info("app: using in-memory storage")
		store := inmemory.NewCatalog()
		if err := store.SeedDefaults(ctx); err != nil {
			return nil, fmt.Errorf("seed in-memory catalog: %w", err)
		}
		families = store
		attributes = store
	default:
		log.Info("app: initializing database")
		dbConn, err = db.NewPostgres(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		if cfg.DB.AutoMigrate {
			if err := db.Migrate(ctx, dbConn, migrations.Files, log); err != nil {
				closeDB(dbConn, log)
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		families = familyrepo.NewPostgres(dbConn)
		attributes = attributerepo.NewPostgres(dbConn)
		ping = pinger(dbConn)
	}

	if cfg.Cache.AttributeTTL > 0 {
		attributes = cache.NewAttributes(attributes, cfg.Cache.AttributeTTL)
	}

	familyService := familydomain.NewService(families, attributes, validation.NewEngine())
	handlers := handler.New(familyService, translator, ping, log.With("component", "http"))

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func pinger(dbConn *gorm.DB) handler.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func closeDB(dbConn *gorm.DB, log logger.Logger) {
	sqlDB, err := dbConn.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("app: close db failed", "err", err)
	}
}
