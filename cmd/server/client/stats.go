package client

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
)

var statsTemplateID string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the player's state, equipment bonuses, and effective stats",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsTemplateID, "template", "", "Roster instance to show effective stats for (default: companion)")
}

func runStats(_ *cobra.Command, _ []string) error {
	sess, err := createSession()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	stateOut, err := sess.GetState(ctx)
	if err != nil {
		return fmt.Errorf("failed to get state: %w", err)
	}
	bonusOut, err := sess.GetBonuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bonuses: %w", err)
	}

	state := stateOut.State
	fmt.Printf("Player: %s\n", state.PlayerID)
	if stateOut.Reset {
		fmt.Println("(stored state was invalid and has been reset)")
	}

	fmt.Printf("\nInventory (%d items):\n", len(state.Inventory))
	for _, id := range state.Inventory {
		fmt.Printf("  - %s\n", id)
	}

	fmt.Println("\nEquipped:")
	for slot, id := range state.Equipped {
		fmt.Printf("  %-10s %s\n", slot, id)
	}

	if len(state.Materials) > 0 {
		fmt.Println("\nMaterials:")
		names := make([]string, 0, len(state.Materials))
		for name := range state.Materials {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-16s %d\n", name, state.Materials[name])
		}
	}

	fmt.Println("\nEffective bonuses:")
	statNames := make([]string, 0, len(bonusOut.Bonuses.Stats))
	for name := range bonusOut.Bonuses.Stats {
		statNames = append(statNames, name)
	}
	sort.Strings(statNames)
	for _, name := range statNames {
		fmt.Printf("  %-10s %+d\n", name, bonusOut.Bonuses.Stats[name])
	}
	for effect, magnitude := range bonusOut.Bonuses.Effects {
		fmt.Printf("  %-16s %.2f\n", effect, magnitude)
	}
	for _, active := range bonusOut.Bonuses.ActiveSets {
		fmt.Printf("  set %s (%d pieces) active\n", active.SetID, active.Pieces)
	}

	statsOut, err := sess.GetEffectiveStats(ctx, &session.GetEffectiveStatsInput{TemplateID: statsTemplateID})
	if err != nil {
		fmt.Println("\nEffective stats: (no roster instance to read)")
	} else {
		fmt.Printf("\nEffective stats (%s, level %d):\n", statsOut.TemplateID, statsOut.Level)
		merged := make([]string, 0, len(statsOut.Stats))
		for name := range statsOut.Stats {
			merged = append(merged, name)
		}
		sort.Strings(merged)
		for _, name := range merged {
			fmt.Printf("  %-10s %d (base %d)\n", name, statsOut.Stats[name], statsOut.Base[name])
		}
	}

	fmt.Printf("\nTotal spent: %d\n", state.TotalSpent)
	fmt.Printf("Purchases recorded: %d\n", len(state.PurchaseHistory))

	return nil
}
