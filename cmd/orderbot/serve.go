package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lumiflux/orderbot/internal/bot"
	"github.com/lumiflux/orderbot/internal/catalog"
	"github.com/lumiflux/orderbot/internal/config"
	"github.com/lumiflux/orderbot/internal/logging"
	"github.com/lumiflux/orderbot/internal/metrics"
	"github.com/lumiflux/orderbot/internal/receipts"
	"github.com/lumiflux/orderbot/internal/transport/httpapi"
	memorystore "github.com/lumiflux/orderbot/pkg/adapters/memory"
	redisstore "github.com/lumiflux/orderbot/pkg/adapters/redis"
	"github.com/lumiflux/orderbot/pkg/flow"
	"github.com/lumiflux/orderbot/pkg/ports"
	"github.com/lumiflux/orderbot/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server and take orders",
	Long: `Loads the catalog, opens the session store and serves the messaging
webhook until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return runServe(cfg)
	},
}

func runServe(cfg *config.Config) error {
	logger := logging.FromDebug(cfg.Debug)

	// Catalog: fatal if the first load fails, last-good afterwards.
	provider := catalog.NewProvider(cfg.DataDir, catalog.WithLogger(logger))
	if err := provider.Load(); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	sink, err := receipts.NewDirSink(cfg.ReceiptsDir)
	if err != nil {
		return err
	}

	// Session store: Redis when configured, in-memory otherwise.
	var store ports.SessionStore
	var managerOpts []session.Option
	managerOpts = append(managerOpts, session.WithLogger(logger))
	if cfg.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store = redisstore.NewFromClient(client, redisstore.WithTTL(cfg.SessionTTL))
		managerOpts = append(managerOpts, session.WithLocker(redisstore.NewLocker(client, "orderbot:")))
		logger.Info("Using Redis session store", "addr", cfg.RedisAddr)
	} else {
		store = memorystore.NewStore()
		logger.Info("Using in-memory session store")
	}
	sessions := session.NewManager(store, managerOpts...)

	var dispatcher ports.MessageDispatcher
	if cfg.SendURL != "" {
		dispatcher = httpapi.NewDispatcher(cfg.SendURL)
	} else {
		dispatcher = &httpapi.LogDispatcher{Logger: logger}
	}

	m := metrics.New()

	machine := flow.NewMachine(flow.Config{
		BotName:        cfg.BotName,
		TriggerPhrase:  cfg.TriggerPhrase,
		PixKey:         cfg.PixKey,
		SupportContact: cfg.SupportContact,
	}, provider, sink, flow.WithLogger(logger))

	b := bot.New(machine, sessions, dispatcher, m, cfg.IdleTimeout, bot.WithLogger(logger))
	defer b.Close()

	router := httpapi.NewRouter(b, provider,
		httpapi.WithLogger(logger),
		httpapi.WithMetricsHandler(m.Handler()),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Bot ready",
			"bot_name", cfg.BotName,
			"addr", cfg.Addr,
			"idle_timeout", cfg.IdleTimeout,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// File watching complements the POST /reload signal.
		if err := provider.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Catalog watcher stopped", "err", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
