package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
	"github.com/lunarpine/menagerie-api/internal/unlock"
)

var (
	addCreatureTemplateID string
	addCreatureLevel      int
	addCreatureQuests     []string
	addCreatureAchievs    []string
	addCreatureEvents     []string
	addCreatureSecrets    []string
	addCreatureFactions   map[string]int
)

var addCreatureCmd = &cobra.Command{
	Use:   "add-creature",
	Short: "Add a creature or ally to the roster",
	Long:  `Add a template's instance to the roster. Unlock conditions are evaluated against the supplied snapshot flags.`,
	RunE:  runAddCreature,
}

func init() {
	addCreatureCmd.Flags().StringVar(&addCreatureTemplateID, "template", "", "Template ID (required)")
	addCreatureCmd.Flags().IntVar(&addCreatureLevel, "level", 1, "Player level for the unlock snapshot")
	addCreatureCmd.Flags().StringSliceVar(&addCreatureQuests, "quest", nil, "Completed quest IDs")
	addCreatureCmd.Flags().StringSliceVar(&addCreatureAchievs, "achievement", nil, "Earned achievement IDs")
	addCreatureCmd.Flags().StringSliceVar(&addCreatureEvents, "event", nil, "Triggered event IDs")
	addCreatureCmd.Flags().StringSliceVar(&addCreatureSecrets, "secret", nil, "Discovered secret IDs")
	addCreatureCmd.Flags().StringToIntVar(&addCreatureFactions, "faction", nil, "Faction standings as faction=value")
	_ = addCreatureCmd.MarkFlagRequired("template") // nolint:errcheck // safe to ignore in init
}

func runAddCreature(_ *cobra.Command, _ []string) error {
	sess, err := createSession()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	out, err := sess.AddCreature(ctx, &session.AddCreatureInput{
		TemplateID: addCreatureTemplateID,
		Snapshot: unlock.Snapshot{
			Level:           addCreatureLevel,
			CompletedQuests: addCreatureQuests,
			Achievements:    addCreatureAchievs,
			FactionStanding: addCreatureFactions,
			TriggeredEvents: addCreatureEvents,
			Secrets:         addCreatureSecrets,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add creature: %w", err)
	}
	if !out.Success {
		fmt.Printf("Locked: %s\n", out.Message)
		return nil
	}

	fmt.Printf("Added %s at level %d\n", addCreatureTemplateID, out.Instance.Level)
	return nil
}
