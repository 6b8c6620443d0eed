package client

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the player's creatures and allies",
	RunE:  runRoster,
}

func runRoster(_ *cobra.Command, _ []string) error {
	sess, err := createSession()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	out, err := sess.GetRoster(ctx)
	if err != nil {
		return fmt.Errorf("failed to get roster: %w", err)
	}

	if len(out.Entries) == 0 {
		fmt.Println("Roster is empty")
		return nil
	}

	entries := out.Entries
	sort.Slice(entries, func(i, j int) bool { return entries[i].TemplateID < entries[j].TemplateID })

	for _, entry := range entries {
		marker := " "
		if entry.Companion {
			marker = "*"
		}
		fmt.Printf("%s %s (%s %s) level %d", marker, entry.Name, entry.Element, entry.Kind, entry.Level)
		if entry.Kind == "ally" {
			fmt.Printf(", affinity %d", entry.Affinity)
		}
		fmt.Println()

		statNames := make([]string, 0, len(entry.Stats))
		for name := range entry.Stats {
			statNames = append(statNames, name)
		}
		sort.Strings(statNames)
		for _, name := range statNames {
			fmt.Printf("    %-10s %d\n", name, entry.Stats[name])
		}
		for _, ability := range entry.Abilities {
			fmt.Printf("    ability: %s\n", ability.Name)
		}
	}

	return nil
}
