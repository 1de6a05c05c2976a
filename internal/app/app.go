package app

import (
	"net/http"

	"finance-tracker-go/internal/config"
	"finance-tracker-go/internal/db"
	identitydomain "finance-tracker-go/internal/domain/identity"
	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	reportdomain "finance-tracker-go/internal/domain/report"
	identityrepo "finance-tracker-go/internal/repository/postgres/identity"
	ledgerrepo "finance-tracker-go/internal/repository/postgres/ledger"
	"finance-tracker-go/internal/transport/httpserver"
	"finance-tracker-go/internal/transport/httpserver/handler"
	"finance-tracker-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	identityService := identitydomain.NewService(identityrepo.NewPostgres(dbConn), identitydomain.Config{
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	ledgerService := ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn))
	reportService := reportdomain.NewService(ledgerService)

	handlers := handler.New(identityService, ledgerService, reportService, log)
	router := httpserver.NewRouter(cfg, handlers, identityService, log)

	return &App{
		cfg:        cfg,
		httpServer: httpserver.New(cfg, router),
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
