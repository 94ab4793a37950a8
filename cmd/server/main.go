package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mozartiade/archive/modules"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/constants"
	"github.com/mozartiade/archive/pkg/eventbus"
	"github.com/mozartiade/archive/pkg/httpapi"
	"github.com/mozartiade/archive/pkg/middleware"
	"github.com/mozartiade/archive/pkg/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	conf := configuration.Use()
	defer conf.Unload()
	log := conf.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		log.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
	})
	if err := application.Load(app, modules.BuiltInModules...); err != nil {
		log.WithError(err).Fatal("failed to load modules")
	}
	if err := app.Migrations().Apply(ctx); err != nil {
		log.WithError(err).Fatal("failed to apply migrations")
	}

	app.RegisterMiddleware(
		middleware.Cors(conf.AllowedOriginList()...),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, pool),
		middleware.WithLogger(log),
	)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteFailure(w, http.StatusNotFound, "not found")
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteFailure(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	srv := server.NewHTTPServer(app, notFound, notAllowed)

	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", conf.SocketAddress).Info("server listening")
		errCh <- srv.Start(conf.SocketAddress)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
}
