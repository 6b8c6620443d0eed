package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
)

var craftRecipeID string

var craftCmd = &cobra.Command{
	Use:   "craft",
	Short: "Craft a recipe from owned materials",
	RunE:  runCraft,
}

func init() {
	craftCmd.Flags().StringVar(&craftRecipeID, "recipe", "", "Recipe ID (required)")
	_ = craftCmd.MarkFlagRequired("recipe") // nolint:errcheck // safe to ignore in init
}

func runCraft(_ *cobra.Command, _ []string) error {
	sess, err := createSession()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	out, err := sess.Craft(ctx, &session.CraftInput{RecipeID: craftRecipeID})
	if err != nil {
		return fmt.Errorf("failed to craft: %w", err)
	}
	if !out.Success {
		fmt.Printf("Craft refused: %s\n", out.Message)
		for _, sf := range out.Shortfalls {
			fmt.Printf("  need %d more %s (%d/%d)\n", sf.Missing, sf.Material, sf.Owned, sf.Required)
		}
		return nil
	}

	fmt.Printf("Crafted %s (%s, %s slot)\n", out.Item.Name, out.Item.Rarity, out.Item.Slot)
	return nil
}
