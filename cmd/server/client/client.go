// Package client provides operational commands that run session
// operations directly against the configured Redis, bypassing the
// websocket gateway.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lunarpine/menagerie-api/internal/engine/economy"
	"github.com/lunarpine/menagerie-api/internal/events"
	"github.com/lunarpine/menagerie-api/internal/integrity"
	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
	"github.com/lunarpine/menagerie-api/internal/pkg/clock"
	"github.com/lunarpine/menagerie-api/internal/pkg/idgen"
	"github.com/lunarpine/menagerie-api/internal/redis"
	playerstaterepo "github.com/lunarpine/menagerie-api/internal/repositories/playerstate"
	rosterrepo "github.com/lunarpine/menagerie-api/internal/repositories/roster"
)

var (
	// Connection flags
	redisAddr string
	playerID  string
	entropy   string
	timeout   time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Run session operations against Redis directly",
	Long:  `Client commands open a player session against the configured Redis and run one operation, printing the result.`,
}

func init() {
	// Add persistent flags for all client commands
	ClientCmd.PersistentFlags().StringVar(&redisAddr, "redis", "localhost:6379", "Redis address")
	ClientCmd.PersistentFlags().StringVar(&playerID, "player", "", "Player ID (required)")
	ClientCmd.PersistentFlags().StringVar(&entropy, "entropy", "", "Integrity-tag entropy override")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")
	_ = ClientCmd.MarkPersistentFlagRequired("player") // nolint:errcheck // safe to ignore in init

	// Add subcommands
	ClientCmd.AddCommand(statsCmd)
	ClientCmd.AddCommand(equipCmd)
	ClientCmd.AddCommand(unequipCmd)
	ClientCmd.AddCommand(buyCmd)
	ClientCmd.AddCommand(craftCmd)
	ClientCmd.AddCommand(addMaterialCmd)
	ClientCmd.AddCommand(grantXPCmd)
	ClientCmd.AddCommand(rosterCmd)
	ClientCmd.AddCommand(addCreatureCmd)
}

// createSession opens a session for the configured player against Redis
func createSession() (*session.Session, error) {
	redisClient, err := redis.NewClient(redisAddr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	tagEntropy := entropy
	if tagEntropy == "" {
		tagEntropy = integrity.DefaultEntropy()
	}

	stateRepo, err := playerstaterepo.NewRedis(&playerstaterepo.RedisConfig{
		Client: redisClient,
		Tagger: integrity.NewTagger(tagEntropy),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create player-state repository: %w", err)
	}

	rosterRepo, err := rosterrepo.NewRedis(&rosterrepo.RedisConfig{
		Client: redisClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create roster repository: %w", err)
	}

	orchestrator, err := session.New(&session.Config{
		PlayerStateRepo: stateRepo,
		RosterRepo:      rosterRepo,
		EventBus:        events.NewBus(),
		Clock:           clock.New(),
		IDGenerator:     idgen.NewUUID("evt-"),
		Ecosystem:       economy.EcosystemState{CirculatingSupply: economy.InitialSupply},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session orchestrator: %w", err)
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	sess, err := orchestrator.Start(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return sess, nil
}

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
