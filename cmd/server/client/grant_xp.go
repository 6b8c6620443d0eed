package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
)

var (
	grantXPTemplateID string
	grantXPAmount     int64
)

var grantXPCmd = &cobra.Command{
	Use:   "grant-xp",
	Short: "Grant experience to a roster instance",
	RunE:  runGrantXP,
}

func init() {
	grantXPCmd.Flags().StringVar(&grantXPTemplateID, "template", "", "Template ID (required)")
	grantXPCmd.Flags().Int64Var(&grantXPAmount, "amount", 0, "Experience amount (required)")
	_ = grantXPCmd.MarkFlagRequired("template") // nolint:errcheck // safe to ignore in init
	_ = grantXPCmd.MarkFlagRequired("amount")   // nolint:errcheck // safe to ignore in init
}

func runGrantXP(_ *cobra.Command, _ []string) error {
	sess, err := createSession()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	out, err := sess.GrantExperience(ctx, &session.GrantExperienceInput{
		TemplateID: grantXPTemplateID,
		Amount:     grantXPAmount,
	})
	if err != nil {
		return fmt.Errorf("failed to grant experience: %w", err)
	}
	if !out.Success {
		fmt.Printf("Grant refused: %s\n", out.Message)
		return nil
	}

	if out.LevelChange.LeveledUp {
		fmt.Printf("Level up! %d -> %d\n", out.LevelChange.OldLevel, out.LevelChange.NewLevel)
	} else {
		fmt.Printf("Experience granted (level %d)\n", out.LevelChange.NewLevel)
	}
	fmt.Println("Available abilities:")
	for _, ability := range out.Abilities {
		fmt.Printf("  - %s\n", ability.Name)
	}

	return nil
}
