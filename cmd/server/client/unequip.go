package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
)

var unequipSlot string

var unequipCmd = &cobra.Command{
	Use:   "unequip",
	Short: "Clear an equipment slot",
	RunE:  runUnequip,
}

func init() {
	unequipCmd.Flags().StringVar(&unequipSlot, "slot", "", "Slot name (required)")
	_ = unequipCmd.MarkFlagRequired("slot") // nolint:errcheck // safe to ignore in init
}

func runUnequip(_ *cobra.Command, _ []string) error {
	sess, err := createSession()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	out, err := sess.Unequip(ctx, &session.UnequipInput{Slot: catalog.Slot(unequipSlot)})
	if err != nil {
		return fmt.Errorf("failed to unequip: %w", err)
	}
	if !out.Success {
		fmt.Printf("Unequip refused: %s\n", out.Message)
		return nil
	}

	fmt.Printf("Removed %s from the %s slot\n", out.ItemID, unequipSlot)
	return nil
}
