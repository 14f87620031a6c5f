package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peekknuf/appprofile/internal/config"
	"github.com/peekknuf/appprofile/internal/store"
)

var exportDB string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Save the cleaned free apps and frequency tables to SQLite",
	Long: `Runs the analysis and writes the cleaned free-app tables of both exports,
plus their genre and category frequencies, into a SQLite database.
Existing tables of the same name are replaced.

Examples:
  appprofile export --db apps.sqlite
  appprofile export --db apps.sqlite --data-dir ./data`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}

		res, err := runPipeline(cfg)
		if err != nil {
			return err
		}

		db, err := store.Open(exportDB)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SaveTable("free_appstore", res.FreeAppStore); err != nil {
			return err
		}
		if err := db.SaveTable("free_marketplace", res.FreeMarketplace); err != nil {
			return err
		}
		if err := db.SaveFrequency("appstore_genres", res.AppStoreGenres); err != nil {
			return err
		}
		if err := db.SaveFrequency("marketplace_genres", res.MarketplaceGenres); err != nil {
			return err
		}
		if err := db.SaveFrequency("marketplace_categories", res.MarketplaceCategories); err != nil {
			return err
		}

		logger.Info().
			Str("db", exportDB).
			Int("appstore", res.FreeAppStore.Len()).
			Int("marketplace", res.FreeMarketplace.Len()).
			Msg("exported free apps")
		fmt.Fprintf(cmd.OutOrStdout(), "Results saved to %s\n", exportDB)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDB, "db", "",
		"SQLite database file to write (required)")
	exportCmd.MarkFlagRequired("db")
}
