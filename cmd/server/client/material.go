package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
)

var (
	materialName string
	materialQty  int
)

var addMaterialCmd = &cobra.Command{
	Use:   "add-material",
	Short: "Credit crafting materials to the player",
	RunE:  runAddMaterial,
}

func init() {
	addMaterialCmd.Flags().StringVar(&materialName, "material", "", "Material name (required)")
	addMaterialCmd.Flags().IntVar(&materialQty, "quantity", 1, "Quantity to add")
	_ = addMaterialCmd.MarkFlagRequired("material") // nolint:errcheck // safe to ignore in init
}

func runAddMaterial(_ *cobra.Command, _ []string) error {
	sess, err := createSession()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	out, err := sess.AddMaterial(ctx, &session.AddMaterialInput{
		Material: materialName,
		Quantity: materialQty,
	})
	if err != nil {
		return fmt.Errorf("failed to add material: %w", err)
	}

	fmt.Printf("%s: %d owned\n", materialName, out.NewQuantity)
	return nil
}
