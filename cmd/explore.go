package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peekknuf/appprofile/internal/config"
	"github.com/peekknuf/appprofile/internal/dataset"
	"github.com/peekknuf/appprofile/internal/pipeline"
	"github.com/peekknuf/appprofile/internal/report"
)

var (
	exploreStart  int
	exploreEnd    int
	exploreShape  bool
	exploreHeader bool
)

var exploreCmd = &cobra.Command{
	Use:   "explore [appstore|marketplace]",
	Short: "Print raw rows of one export",
	Long: `Print a slice of the raw data rows of one export, before any cleaning.

Examples:
  appprofile explore marketplace                     # first four rows
  appprofile explore appstore --start 10 --end 12    # rows 10 and 11
  appprofile explore marketplace --shape --header    # with header and counts`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"appstore", "marketplace"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		src, err := pipeline.ResolveSources(cfg.Sources)
		if err != nil {
			return err
		}

		path := src.AppStore
		if strings.EqualFold(args[0], "marketplace") {
			path = src.Marketplace
		}

		table, err := dataset.Load(path)
		if err != nil {
			return err
		}
		logger.Debug().Str("path", path).Int("rows", table.Len()).Msg("loaded export")

		if exploreHeader {
			fmt.Fprintf(cmd.OutOrStdout(), "%q\n\n", []string(table.Header))
		}
		return report.WriteRows(cmd.OutOrStdout(), table, exploreStart, exploreEnd, exploreShape)
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)

	exploreCmd.Flags().IntVar(&exploreStart, "start", 0,
		"First data row to print (0-based, header excluded)")
	exploreCmd.Flags().IntVar(&exploreEnd, "end", 4,
		"Row to stop before")
	exploreCmd.Flags().BoolVar(&exploreShape, "shape", false,
		"Print the number of rows and columns")
	exploreCmd.Flags().BoolVar(&exploreHeader, "header", false,
		"Print the header row first")
}
