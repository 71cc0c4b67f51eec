package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfd/shelfd/internal/auth"
	"github.com/shelfd/shelfd/internal/bookmarks"
	"github.com/shelfd/shelfd/internal/config"
	"github.com/shelfd/shelfd/internal/db"
	"github.com/shelfd/shelfd/internal/handler"
	"github.com/shelfd/shelfd/internal/logging"
	"github.com/shelfd/shelfd/internal/metrics"
	"github.com/shelfd/shelfd/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Log.Pretty)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)

			ctx := context.Background()
			oidcProvider, err := auth.NewProvider(ctx, cfg)
			if err != nil {
				return err
			}

			userStore := store.NewUserStore(database)
			bookmarkStore := store.NewBookmarkStore(database)
			tagStore := store.NewTagStore(database)
			tokenStore := auth.NewSQLTokenStore(database)
			svc := bookmarks.NewService(bookmarkStore, tagStore)

			go runGaugeRefresher(ctx, logger, bookmarkStore, userStore)

			authHandlers := auth.NewHandlers(oidcProvider, sessionManager, userStore, !cfg.InsecureCookies)
			bearerMiddleware := auth.NewBearerTokenMiddleware(tokenStore, userStore)
			authMiddleware := auth.NewMiddleware(sessionManager, userStore, bearerMiddleware)

			router := handler.NewRouter(handler.Deps{
				DB:             database,
				Logger:         logger,
				SessionManager: sessionManager,
				AuthHandlers:   authHandlers,
				AuthMiddleware: authMiddleware,
				Bookmarks:      svc,
				TagStore:       tagStore,
				TokenStore:     tokenStore,
			})

			logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}

// runGaugeRefresher periodically recomputes the bookmark and user totals for
// the /metrics endpoint. Counts come from the database so they survive
// restarts, unlike the request counters.
func runGaugeRefresher(ctx context.Context, logger *zap.Logger, bs *store.BookmarkStore, us *store.UserStore) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	refresh := func() {
		if n, err := bs.CountAll(ctx); err == nil {
			metrics.BookmarksTotal.Set(float64(n))
		} else {
			logger.Warn("bookmark gauge refresh failed", zap.Error(err))
		}
		if n, err := us.CountAll(ctx); err == nil {
			metrics.UsersTotal.Set(float64(n))
		} else {
			logger.Warn("user gauge refresh failed", zap.Error(err))
		}
	}

	refresh()
	for {
		select {
		case <-ticker.C:
			refresh()
		case <-ctx.Done():
			return
		}
	}
}
