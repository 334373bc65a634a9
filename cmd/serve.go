package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pedidoshn/pedidos-app/broker"
	"github.com/pedidoshn/pedidos-app/config"
	"github.com/pedidoshn/pedidos-app/database"
	"github.com/pedidoshn/pedidos-app/kds"
	"github.com/pedidoshn/pedidos-app/repository"
	"github.com/pedidoshn/pedidos-app/router"
	"github.com/pedidoshn/pedidos-app/services"
	"github.com/pedidoshn/pedidos-app/utils"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// restaurantSource picks the catalog implementation. The writer is nil for the file source.
// With the file source, restaurants missing from the database are copied in so orders
// placed from the file catalog resolve their restaurant and dish.
func restaurantSource(ctx context.Context, cfg config.Config, db *gorm.DB) (repository.RestaurantRepository, repository.RestaurantWriter, error) {
	if cfg.RestaurantSource == config.SourceFile {
		repo, err := repository.NewFileRestaurantRepository(cfg.RestaurantFile)
		if err != nil {
			return nil, nil, err
		}
		if _, err := database.SeedFromFile(ctx, db, cfg.RestaurantFile); err != nil {
			return nil, nil, fmt.Errorf("syncing file catalog: %w", err)
		}
		return repo, nil, nil
	}
	repo := repository.NewGormRestaurantRepository(db)
	return repo, repo, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.JWTSecret = []byte(cfg.JWTSecret)

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}

	restaurants, writer, err := restaurantSource(ctx, cfg, db)
	if err != nil {
		return err
	}

	store := services.NewSessionStore(db, cfg.SessionMaxAge, []byte(cfg.SessionSecret))
	reaper := services.NewSessionReaper(store)
	reaper.Start()
	defer reaper.Stop()

	hub := kds.NewHub()
	notifier := services.MultiNotifier{hub}
	if cfg.AMQPURL != "" {
		publisher, err := broker.Dial(cfg.AMQPURL, broker.DefaultExchange)
		if err != nil {
			// events still reach the dashboards
			utils.ErrorLogger.WithError(err).Warn("order events will not be published to the broker")
		} else {
			defer publisher.Close()
			notifier = append(notifier, publisher)
		}
	}

	r, err := router.SetupRouter(router.Dependencies{
		DB:          db,
		Config:      cfg,
		Restaurants: restaurants,
		Writer:      writer,
		Sessions:    store,
		Hub:         hub,
		Notifier:    notifier,
		Clock:       cfg.Clock(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
