package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/budgetlink/internal/auth"
	"github.com/mmynk/budgetlink/internal/config"
	"github.com/mmynk/budgetlink/internal/events"
	"github.com/mmynk/budgetlink/internal/events/amqp"
	"github.com/mmynk/budgetlink/internal/ids"
	"github.com/mmynk/budgetlink/internal/metrics"
	"github.com/mmynk/budgetlink/internal/server"
	"github.com/mmynk/budgetlink/internal/service"
	"github.com/mmynk/budgetlink/internal/storage/sqlite"
	"github.com/mmynk/budgetlink/pkg/logging"
)

const amqpDialAttempts = 5

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect API server",
		Long: `Run the BudgetLink API server. Settings come from the environment
(or a .env file): PORT, DB_PATH, JWT_SECRET, SPLIT_POLICY, AMQP_URL and friends.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().Int("port", 0, "Listen port (overrides PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	policy, _ := cfg.Policy()

	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		p, err := amqp.NewPublisher(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, amqpDialAttempts)
		if err != nil {
			return fmt.Errorf("connect to AMQP: %w", err)
		}
		publisher = p
		slog.Info("Publishing events", "exchange", cfg.AMQPExchange, "routing_key", cfg.AMQPRoutingKey)
	}
	defer publisher.Close()

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	guard := auth.NewPasswordGuard(auth.NewHasher(cfg.BcryptCost), tokens)
	recorder := events.NewRecorder(store, publisher)
	m := metrics.New()

	srv := server.New(server.Options{
		Budgets:  service.NewBudgetService(store, guard, recorder, ids.Random{}, cfg.FrontendURL),
		Expenses: service.NewExpenseService(store, guard, recorder),
		Settle: service.NewSettleService(store, guard, recorder, service.SettleConfig{
			Policy:   policy,
			Epsilon:  cfg.SettlementEpsilon,
			Observer: m,
		}),
		Tokens:     tokens,
		Metrics:    m,
		Health:     store,
		StaticPath: cfg.StaticPath,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting",
			"address", httpServer.Addr,
			"url", fmt.Sprintf("http://localhost%s", httpServer.Addr),
			"split_policy", policy.String(),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
