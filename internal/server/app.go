// Package server assembles the landmark intake service: storage, sessions,
// media, the intake workflow and the console transport.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/landmarkbot/internal/console"
	"github.com/dmitrijs2005/landmarkbot/internal/logging"
	"github.com/dmitrijs2005/landmarkbot/internal/server/auth"
	"github.com/dmitrijs2005/landmarkbot/internal/server/config"
	"github.com/dmitrijs2005/landmarkbot/internal/server/front"
	"github.com/dmitrijs2005/landmarkbot/internal/server/media"
	"github.com/dmitrijs2005/landmarkbot/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/landmarkbot/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/landmarkbot/internal/server/services"
	"github.com/dmitrijs2005/landmarkbot/internal/server/workflow"
	"golang.org/x/sync/errgroup"
)

// sweepInterval is how often expired sessions are purged while running.
const sweepInterval = time.Hour

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	closers  []func() error
	sessions *auth.SessionManager
	front    *front.Front
}

// openPostgres is a seam for tests.
var openPostgres = func(ctx context.Context, c *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(c.DBMaxOpenConns)
	db.SetMaxIdleConns(c.DBMaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	db, err := openPostgres(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	pg := repomanager.NewPostgresRepositoryManager()
	if err := pg.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("db migrations error: %w", err)
	}

	store, err := app.sessionStore(ctx, pg)
	if err != nil {
		app.Close()
		return nil, err
	}

	creds, err := auth.NewCredentials(c.AdminLogin, c.AdminPassword, c.AdminPasswordHash)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("credentials error: %w", err)
	}

	app.sessions = auth.NewSessionManager(store, creds, logger, auth.WithValidity(c.SessionValidity))
	if err := app.sessions.Load(ctx); err != nil {
		app.Close()
		return nil, err
	}

	sink, err := newSink(ctx, c)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("media init error: %w", err)
	}
	photos := media.NewStore(media.NewSourceFetcher(c.MediaFetchTimeout), sink, logger)

	landmarks := services.NewLandmarkService(db, pg)
	engine := workflow.NewEngine(app.sessions, landmarks, photos, workflow.NewMemoryEntryStore(), logger)
	app.front = front.NewFront(engine, landmarks, app.sessions, logger)

	return app, nil
}

// sessionStore picks the session repository for the configured backend.
func (app *App) sessionStore(ctx context.Context, pg repomanager.RepositoryManager) (sessions.Repository, error) {
	switch app.config.SessionBackend {
	case config.BackendSQLite:
		sdb, err := repomanager.OpenSQLite(app.config.SessionFile)
		if err != nil {
			return nil, fmt.Errorf("session file error: %w", err)
		}
		app.closers = append(app.closers, sdb.Close)

		m := repomanager.NewSQLiteRepositoryManager(pg)
		if err := m.RunMigrations(ctx, sdb); err != nil {
			return nil, fmt.Errorf("session file migrations error: %w", err)
		}
		return m.Sessions(sdb), nil

	case config.BackendPostgres, "":
		return pg.Sessions(app.db), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", app.config.SessionBackend)
}

// newSink is a seam for tests.
var newSink = func(ctx context.Context, c *config.Config) (media.Sink, error) {
	switch c.MediaBackend {
	case config.BackendS3:
		return media.NewS3Sink(ctx, media.S3Config{
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	case config.BackendLocal, "":
		return media.NewLocalSink(c.ImagesDir)
	}
	return nil, fmt.Errorf("unknown media backend %q", c.MediaBackend)
}

// Front is the message entry point shared by transports.
func (app *App) Front() *front.Front { return app.front }

// Run serves the console until it ends or ctx is cancelled. Expired
// sessions are purged periodically in the background.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Info(ctx, "Starting app...", "session_backend", app.config.SessionBackend, "media_backend", app.config.MediaBackend)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return console.New(app.front, app.config.ConsoleUserID, app.logger).Run(gctx)
	})

	g.Go(func() error {
		app.sweep(gctx, sweepInterval)
		return nil
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

func (app *App) sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := app.sessions.PurgeExpired(ctx)
			if err != nil {
				app.logger.Error(ctx, "session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired sessions purged", "count", n)
			}
		}
	}
}

// Close releases the database handles in reverse order of opening.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}
