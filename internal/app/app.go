// Package app wires configuration, storage, services and the HTTP router
// into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quillhub/blog/internal/api"
	"github.com/quillhub/blog/internal/core/ports"
	"github.com/quillhub/blog/internal/core/service"
	"github.com/quillhub/blog/internal/infrastructure/db/memory"
	mongodb "github.com/quillhub/blog/internal/infrastructure/db/mongo"
	redisdb "github.com/quillhub/blog/internal/infrastructure/db/redis"
	"github.com/quillhub/blog/internal/infrastructure/http/handlers"
	"github.com/quillhub/blog/internal/infrastructure/queue"
	"github.com/quillhub/blog/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// storage groups the repositories and stores a backend provides.
type storage struct {
	users         ports.UserRepository
	posts         ports.PostRepository
	subscriptions ports.SubscriptionRepository
	notifications ports.NotificationRepository
	sessions      ports.SessionStore
	dedup         service.DedupChecker
	checks        map[string]handlers.Check
	close         func(ctx context.Context) error
}

// App is a fully wired blog server.
type App struct {
	cfg        *config.Config
	log        zerolog.Logger
	router     *echo.Echo
	dispatcher *queue.Dispatcher
	closeStore func(ctx context.Context) error
}

// New connects the configured backend and builds the router.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	var (
		st  *storage
		err error
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		st = memoryStorage()
	default:
		st, err = mongoStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	authSvc := service.NewAuthService(st.users, st.sessions, cfg.Session.JWTSecret, cfg.Session.TTL, log)
	userSvc := service.NewUserService(st.users, st.posts, st.subscriptions, st.notifications, log)
	notificationSvc := service.NewNotificationService(st.subscriptions, st.notifications, st.dedup, log)
	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, notificationSvc, log)
	postSvc := service.NewPostService(st.posts, st.subscriptions, dispatcher, log)
	subscriptionSvc := service.NewSubscriptionService(st.subscriptions, st.users, log)

	router := api.NewRouter(api.Dependencies{
		Auth:          authSvc,
		Users:         userSvc,
		Posts:         postSvc,
		Subscriptions: subscriptionSvc,
		Notifications: notificationSvc,
		HealthChecks:  st.checks,
		CookieSecure:  cfg.Session.CookieSecure,
	}, log)

	return &App{
		cfg:        cfg,
		log:        log,
		router:     router,
		dispatcher: dispatcher,
		closeStore: st.close,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
// Notification workers drain their queues only after the HTTP server has.
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorkers()
	a.dispatcher.Start(workerCtx)
	defer a.dispatcher.Stop()

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Str("backend", a.cfg.StoreBackend).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.log.Info().Msg("server exited properly")
	return nil
}

// Close releases storage connections.
func (a *App) Close(ctx context.Context) error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore(ctx)
}

func memoryStorage() *storage {
	store := memory.NewStore()
	return &storage{
		users:         store.Users(),
		posts:         store.Posts(),
		subscriptions: store.Subscriptions(),
		notifications: store.Notifications(),
		sessions:      store.Sessions(),
		dedup:         store.Dedup(),
		checks:        map[string]handlers.Check{},
	}
}

func mongoStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	client, db, err := ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		URL:      cfg.Redis.URL,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &storage{
		users:         mongodb.NewUserRepository(db),
		posts:         mongodb.NewPostRepository(db),
		subscriptions: mongodb.NewSubscriptionRepository(db),
		notifications: mongodb.NewNotificationRepository(db),
		sessions:      redisdb.NewSessionStore(rdb),
		dedup:         redisdb.NewDedupChecker(rdb),
		checks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		close: func(ctx context.Context) error {
			return errors.Join(rdb.Close(), client.Disconnect(ctx))
		},
	}, nil
}

// ConnectMongo opens the configured database.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	return mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
}
