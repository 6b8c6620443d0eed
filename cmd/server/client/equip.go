package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
)

var equipItemID string

var equipCmd = &cobra.Command{
	Use:   "equip",
	Short: "Equip an owned item",
	RunE:  runEquip,
}

func init() {
	equipCmd.Flags().StringVar(&equipItemID, "item", "", "Item ID (required)")
	_ = equipCmd.MarkFlagRequired("item") // nolint:errcheck // safe to ignore in init
}

func runEquip(_ *cobra.Command, _ []string) error {
	sess, err := createSession()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	out, err := sess.Equip(ctx, &session.EquipInput{ItemID: equipItemID})
	if err != nil {
		return fmt.Errorf("failed to equip: %w", err)
	}
	if !out.Success {
		fmt.Printf("Equip refused: %s\n", out.Message)
		return nil
	}

	fmt.Printf("Equipped %s in the %s slot\n", equipItemID, out.Slot)
	if out.PreviousItem != "" {
		fmt.Printf("Displaced %s\n", out.PreviousItem)
	}
	for stat, value := range out.Bonuses.Stats {
		fmt.Printf("  %-10s %+d\n", stat, value)
	}

	return nil
}
