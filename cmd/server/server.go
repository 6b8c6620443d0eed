package main

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

	"github.com/lunarpine/menagerie-api/internal/engine/economy"
	"github.com/lunarpine/menagerie-api/internal/events"
	"github.com/lunarpine/menagerie-api/internal/gateway"
	"github.com/lunarpine/menagerie-api/internal/integrity"
	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
	"github.com/lunarpine/menagerie-api/internal/pkg/clock"
	"github.com/lunarpine/menagerie-api/internal/pkg/idgen"
	"github.com/lunarpine/menagerie-api/internal/redis"
	playerstaterepo "github.com/lunarpine/menagerie-api/internal/repositories/playerstate"
	rosterrepo "github.com/lunarpine/menagerie-api/internal/repositories/roster"
)

var listenAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the websocket gateway server",
	Long:  `Start the menagerie server: Redis-backed player sessions exposed over a websocket gateway.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides MENAGERIE_LISTEN_ADDR)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	orchestrator, bus, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}

	gw, err := gateway.New(&gateway.Config{
		Orchestrator: orchestrator,
		EventBus:     bus,
	})
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed, closing", "error", err)
			_ = srv.Close()
		}
		return nil
	case err := <-errChan:
		return err
	}
}

// buildOrchestrator wires the Redis repositories, event bus, and session
// orchestrator from configuration.
func buildOrchestrator(cfg *config) (*session.Orchestrator, events.Bus, error) {
	redisClient, err := redis.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	entropy := cfg.Entropy
	if entropy == "" {
		entropy = integrity.DefaultEntropy()
	}
	tagger := integrity.NewTagger(entropy)

	stateRepo, err := playerstaterepo.NewRedis(&playerstaterepo.RedisConfig{
		Client: redisClient,
		Tagger: tagger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create player-state repository: %w", err)
	}

	rosterRepo, err := rosterrepo.NewRedis(&rosterrepo.RedisConfig{
		Client: redisClient,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create roster repository: %w", err)
	}

	bus := events.NewBus()

	eco := economy.EcosystemState{
		CirculatingSupply: cfg.CirculatingSupply,
		TotalBurned:       cfg.TotalBurned,
	}
	if eco.CirculatingSupply == 0 {
		eco.CirculatingSupply = economy.InitialSupply
	}

	orchestrator, err := session.New(&session.Config{
		PlayerStateRepo: stateRepo,
		RosterRepo:      rosterRepo,
		EventBus:        bus,
		Clock:           clock.New(),
		IDGenerator:     idgen.NewUUID("evt-"),
		Ecosystem:       eco,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session orchestrator: %w", err)
	}

	return orchestrator, bus, nil
}
