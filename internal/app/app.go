// Package app wires configuration, infrastructure and services together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/juju/clock"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/qfactory/mes-helper/internal/api"
	"github.com/qfactory/mes-helper/internal/core/ports"
	"github.com/qfactory/mes-helper/internal/core/service"
	"github.com/qfactory/mes-helper/internal/core/session"
	mongostore "github.com/qfactory/mes-helper/internal/infrastructure/db/mongo"
	"github.com/qfactory/mes-helper/internal/infrastructure/mes"
	"github.com/qfactory/mes-helper/internal/infrastructure/queue"
	"github.com/qfactory/mes-helper/internal/pkg/config"
	"github.com/qfactory/mes-helper/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// App holds the long-lived collaborators of one process.
type App struct {
	Config   *config.Config
	Sessions *session.Registry
	Queries  *service.QueryService

	mongoClient *mongo.Client
	db          *mongo.Database
	audit       *queue.AuditWriter
	log         zerolog.Logger
}

// New builds the application. The Mongo audit store is only connected when
// MONGO_URI is set; a connection failure is fatal so a misconfigured audit
// trail is not silently skipped.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	issuer, err := session.NewIssuer(cfg.Session.IDScheme, cfg.Session.Secret)
	if err != nil {
		return nil, err
	}
	if cfg.MES.InsecureSkipVerify {
		log.Warn().Str("base_url", cfg.MES.BaseURL).Msg("TLS certificate verification for MES is disabled")
	}

	a := &App{
		Config:   cfg,
		Sessions: session.NewRegistry(issuer),
		log:      log,
	}

	var audit ports.AuditRepository
	if cfg.AuditEnabled() {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		repo := mongostore.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to create audit indexes")
		}
		a.audit = queue.NewAuditWriter(cfg.Mongo.AuditWorkers, repo, logger.With(log, "audit"))
		a.audit.Start()
		a.mongoClient, a.db, audit = client, db, a.audit
		log.Info().Str("database", cfg.Mongo.Database).Msg("query audit enabled")
	}

	clients := mes.NewFactory(mes.Config{
		BaseURL:            cfg.MES.BaseURL,
		Origin:             cfg.MES.Origin,
		CompanyCode:        cfg.MES.CompanyCode,
		LanguageCode:       cfg.MES.LanguageCode,
		FetchLimit:         cfg.MES.FetchLimit,
		LoginTimeout:       cfg.MES.LoginTimeout,
		FetchTimeout:       cfg.MES.FetchTimeout,
		InsecureSkipVerify: cfg.MES.InsecureSkipVerify,
	}, logger.With(log, "mes"))

	a.Queries = service.NewQueryService(a.Sessions, clients, audit, clock.WallClock, logger.With(log, "query"))
	return a, nil
}

// Serve runs the machine surface until ctx is cancelled, then shuts down
// gracefully.
func (a *App) Serve(ctx context.Context) error {
	e, err := api.NewRouter(api.Dependencies{
		Queries:  a.Queries,
		Sessions: a.Sessions.Count,
		Mongo:    a.db,
		Logger:   logger.With(a.log, "http"),
	})
	if err != nil {
		return err
	}

	addr := ":" + a.Config.Port
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// Close flushes queued audit entries and releases the audit store
// connection, if any.
func (a *App) Close(ctx context.Context) error {
	if a.mongoClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.audit.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush audit: %w", err))
	}
	if err := a.mongoClient.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("mongo disconnect: %w", err))
	}
	return errors.Join(errs...)
}
