// Package agenciahub assembles the API server: storage, migrations,
// cache, services, router and the HTTP listener with graceful shutdown.
package agenciahub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/agenciahub/agenciahub/internal/cache"
	"github.com/agenciahub/agenciahub/internal/config"
	"github.com/agenciahub/agenciahub/internal/entitlement"
	"github.com/agenciahub/agenciahub/internal/lib/jwt"
	"github.com/agenciahub/agenciahub/internal/lib/userlock"
	accountservice "github.com/agenciahub/agenciahub/internal/services/account"
	authservice "github.com/agenciahub/agenciahub/internal/services/auth"
	clientservice "github.com/agenciahub/agenciahub/internal/services/client"
	diagnosticservice "github.com/agenciahub/agenciahub/internal/services/diagnostic"
	meetingservice "github.com/agenciahub/agenciahub/internal/services/meeting"
	taskservice "github.com/agenciahub/agenciahub/internal/services/task"
	timelineservice "github.com/agenciahub/agenciahub/internal/services/timeline"

	"github.com/agenciahub/agenciahub/internal/migrations"
	"github.com/agenciahub/agenciahub/internal/storage/repository"
)

// App is the assembled API server.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New builds the App: connects to PostgreSQL and Redis, runs the
// migrations and wires every service into the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	engine := entitlement.New()
	locker := userlock.New()
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authSvc := authservice.New(db, jwtMaker)
	clientSvc := clientservice.New(db, db, db, cacheRedis, engine, locker, logger)
	taskSvc := taskservice.New(db, db, db, engine, locker, logger)
	meetingSvc := meetingservice.New(db, db, db, engine, locker, logger)
	diagnosticSvc := diagnosticservice.New(db, db, db, engine, locker, logger)
	timelineSvc := timelineservice.New(db)
	accountSvc := accountservice.New(db, cacheRedis, engine, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:       authSvc,
		Client:     clientSvc,
		Task:       taskSvc,
		Meeting:    meetingSvc,
		Diagnostic: diagnosticSvc,
		Timeline:   timelineSvc,
		Account:    accountSvc,
		Users:      db,
		Engine:     engine,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run starts the HTTP listener and blocks until the context is
// cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		return err
	}
}
