package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docdeck/internal/progress"
	"github.com/ziadkadry99/docdeck/internal/site"
)

var siteCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"site"},
	Short:   "Generate a static documentation website",
	Long: `Generates a self-contained static HTML site from the Markdown docs. Pages
carry their slide markup so decks work without a server; drawing needs
docdeck serve.`,
	RunE: runSite,
}

func init() {
	siteCmd.Flags().String("output", "", "override output directory (defaults to output_dir)")
	rootCmd.AddCommand(siteCmd)
}

func runSite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	lib, err := newLibrary(cfg, logger)
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	generator := site.NewSiteGenerator(lib, outputDir, cfg.ProjectName)
	generator.Logger = logger
	generator.Reporter = progress.NewReporter(os.Stderr, "Building slides")

	pageCount, err := generator.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generating site: %w", err)
	}

	fmt.Printf("Static site generated: %s (%d pages)\n", outputDir, pageCount)
	return nil
}
