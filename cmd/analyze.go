package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peekknuf/appprofile/internal/config"
	"github.com/peekknuf/appprofile/internal/pipeline"
	"github.com/peekknuf/appprofile/internal/report"
)

var outputFile string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Clean both exports and summarize free apps by genre and category",
	Long: `Runs the whole analysis: drops malformed rows, keeps the most reviewed
entry of every duplicated app, filters out apps with non-English names and
paid apps, then prints genre/category frequencies, average ratings and
installs, outlier-adjusted install averages and a recommendation.

Examples:
  appprofile analyze
  appprofile analyze --data-dir ./data
  appprofile analyze --appstore AppleStore.csv --marketplace googleplaystore.csv
  appprofile analyze --output report.txt`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outputFile, "output", "",
		"Output file to save results (default: stdout)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	res, err := runPipeline(cfg)
	if err != nil {
		return err
	}

	if outputFile == "" {
		return report.Write(cmd.OutOrStdout(), res)
	}

	var output strings.Builder
	if err := report.Write(&output, res); err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, []byte(output.String()), 0644); err != nil {
		return fmt.Errorf("failed to write to output file %s: %w", outputFile, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Results saved to %s\n", outputFile)
	return nil
}

// runPipeline resolves the sources and runs every stage behind a progress bar
func runPipeline(cfg config.Config) (*pipeline.Result, error) {
	src, err := pipeline.ResolveSources(cfg.Sources)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(pipeline.Stages),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][reset] Profiling apps..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	p := pipeline.New(cfg, logger)
	p.OnStage(func(stage string) {
		bar.Describe(fmt.Sprintf("[cyan][reset] %s", stage))
		bar.Add(1)
	})

	res, err := p.Run(src)
	if err != nil {
		bar.Exit()
		return nil, err
	}
	bar.Finish()
	return res, nil
}
