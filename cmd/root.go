package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/derivatives/internal/config"
	"github.com/lehigh-university-libraries/derivatives/internal/pipeline"
	"github.com/lehigh-university-libraries/derivatives/internal/tiler"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var inputDir string
	var outputDir string
	var maxWidth int
	var thumbWidth int
	var tileSize int
	var concurrency int
	var maxID int
	var tilerBinary string

	cmd := &cobra.Command{
		Use:   "derivatives",
		Short: "Batch derivative generator for catalog photography",
		Long: `Derivatives converts a directory of high-resolution catalog photographs
into the standardized asset set the digital collections site serves: a
bounded display image, a thumbnail, and a deep-zoom tile pyramid per
view, plus a manifest recording every view's pixel dimensions.

Source filenames encode the catalog id and pose, e.g. 7__main.tif or
7__top__retouched.tif. Files that do not match the naming convention are
skipped with a warning.`,
		Example: `  # Generate derivatives for the full photo drop
  derivatives --input ./photos --output ./public/assets

  # Smaller display bound, more tiling workers
  derivatives -i ./photos -o ./public/assets --max-width 1600 --concurrency 8`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Historically this tool exits 0 on bad invocation so the
			// publishing cron does not halt; keep that contract.
			if inputDir == "" || outputDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "must provide input and output directory")
				return nil
			}
			if info, err := os.Stat(inputDir); err != nil || !info.IsDir() {
				fmt.Fprintf(cmd.OutOrStdout(), "invalid directory: %s\n", inputDir)
				return nil
			}

			cfg := config.Default()
			cfg.InputDir = inputDir
			cfg.OutputDir = outputDir
			if cmd.Flags().Changed("max-width") {
				cfg.MaxWidth = maxWidth
			}
			if cmd.Flags().Changed("thumb-width") {
				cfg.ThumbWidth = thumbWidth
			}
			if cmd.Flags().Changed("tile-size") {
				cfg.TileSize = tileSize
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Concurrency = concurrency
			}
			if cmd.Flags().Changed("max-id") {
				cfg.MaxCatalogID = maxID
			}
			if cmd.Flags().Changed("tiler") {
				cfg.TilerBinary = tilerBinary
			}

			tiles, err := tiler.NewVips(cfg.TilerBinary, cfg.TileTimeout)
			if err != nil {
				return err
			}

			p := pipeline.New(cfg, tiles)
			res, err := p.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("derivative run failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nDerivative run complete!\n")
			fmt.Fprintf(out, "  Artifacts scanned: %d\n", res.Artifacts)
			fmt.Fprintf(out, "  Main images:       %d\n", res.MainImages)
			fmt.Fprintf(out, "  Thumbnails:        %d\n", res.Thumbnails)
			fmt.Fprintf(out, "  Tile jobs:         %d (%d failed)\n", res.TileJobs, res.TileFailures)
			fmt.Fprintf(out, "  Manifest:          %s\n", filepath.Join(cfg.OutputDir, pipeline.ManifestName))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of source photographs (required)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write derivatives under (required)")
	cmd.Flags().IntVar(&maxWidth, "max-width", 2000, "Longer-edge bound for the main display image")
	cmd.Flags().IntVar(&thumbWidth, "thumb-width", 500, "Longer-edge bound for thumbnails")
	cmd.Flags().IntVar(&tileSize, "tile-size", 256, "Deep-zoom tile edge length")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Concurrent tiling invocations")
	cmd.Flags().IntVar(&maxID, "max-id", 0, "Skip catalog ids above this bound (0 = unbounded)")
	cmd.Flags().StringVar(&tilerBinary, "tiler", "vips", "Deep-zoom tiling executable")

	return cmd
}
