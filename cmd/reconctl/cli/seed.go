package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recondash/recondash/internal/app"
	"github.com/recondash/recondash/internal/documents"
	"github.com/recondash/recondash/internal/payers"
	"github.com/recondash/recondash/internal/platform/db"
	"github.com/recondash/recondash/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert development fixtures",
	Long: `Seed inserts generated invoices with line items plus the default
payer master list into the configured database.`,
	Example: `  reconctl seed --count 50`,
	RunE:    runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Int("count", 25, "Number of documents to generate")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	count, _ := cmd.Flags().GetInt("count")
	if count <= 0 {
		return fmt.Errorf("count must be positive")
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := seed.Load(ctx, documents.NewRepository(pool), payers.NewRepository(pool), count); err != nil {
		return err
	}
	fmt.Printf("seeded %d documents\n", count)
	return nil
}
