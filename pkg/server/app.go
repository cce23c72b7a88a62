package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "StockCast/internal/domain/repository"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
)

// App owns the application lifecycle: it starts the HTTP server, blocks until
// a shutdown signal arrives, then stops the server and closes infrastructure
// clients in reverse dependency order.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	handler   xhttp.Handler
	chClient  *pkgch.Client
	publisher domrepo.Publisher

	httpServer *xhttp.Server
}

func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	publisher domrepo.Publisher,
) *App {
	return &App{
		cfg:       cfg,
		logger:    l,
		handler:   handler,
		chClient:  chClient,
		publisher: publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.logger.Info("server started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
