package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
)

var (
	buyItemID       string
	buyStandingTier int
	buyBalance      int64
	buyCheckOnly    bool
)

var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Purchase a listed item",
	RunE:  runBuy,
}

func init() {
	buyCmd.Flags().StringVar(&buyItemID, "item", "", "Item ID (required)")
	buyCmd.Flags().IntVar(&buyStandingTier, "standing", 0, "Player standing tier")
	buyCmd.Flags().Int64Var(&buyBalance, "balance", 0, "Token balance")
	buyCmd.Flags().BoolVar(&buyCheckOnly, "check", false, "Only check eligibility, do not buy")
	_ = buyCmd.MarkFlagRequired("item") // nolint:errcheck // safe to ignore in init
}

func runBuy(_ *cobra.Command, _ []string) error {
	sess, err := createSession()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	if buyCheckOnly {
		out, err := sess.CanPurchase(ctx, &session.CanPurchaseInput{
			ItemID:       buyItemID,
			StandingTier: buyStandingTier,
			Balance:      buyBalance,
		})
		if err != nil {
			return fmt.Errorf("failed to check purchase: %w", err)
		}
		if !out.Allowed {
			fmt.Printf("Not purchasable: %s\n", out.Reason)
			return nil
		}
		fmt.Printf("Purchasable at %d\n", out.Price)
		return nil
	}

	out, err := sess.Purchase(ctx, &session.PurchaseInput{
		ItemID:       buyItemID,
		StandingTier: buyStandingTier,
		Balance:      buyBalance,
	})
	if err != nil {
		return fmt.Errorf("failed to purchase: %w", err)
	}
	if !out.Success {
		fmt.Printf("Purchase refused: %s\n", out.Message)
		return nil
	}

	fmt.Printf("Bought %s for %d\n", out.Item.Name, out.Price)
	if out.XPGained > 0 {
		fmt.Printf("Companion gained %d XP", out.XPGained)
		if out.LevelChange.LeveledUp {
			fmt.Printf(" and reached level %d", out.LevelChange.NewLevel)
		}
		fmt.Println()
	}

	return nil
}
