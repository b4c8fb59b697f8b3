package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/rm-hull/wasm-image-filters/cmd"
	"github.com/rm-hull/wasm-image-filters/internal"
	"github.com/spf13/cobra"
)

func main() {
	var port int
	var debug bool
	var applyFilters []string
	var animateFilters []string
	var outDir string
	var outFile string
	var format string
	var workers int
	var seed uint64
	var frames int
	var frameDelay float64

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	rootCmd := &cobra.Command{
		Use:  "image-filters",
		Long: `In-place RGBA pixel filters: adjust, sepia, grayscale, invert and noise`,
	}

	applyCmd := &cobra.Command{
		Use:   "apply --filter <spec> [--filter <spec>...] [--out <dir>] <file|url>...",
		Short: "Apply filters to one or more images",
		Example: `  image-filters apply --filter adjust:r=1.2,a=0.25 photo.jpg
  image-filters apply --filter sepia --filter noise --seed 7 --out ./filtered *.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Apply(args, applyFilters, outDir, workers, format, seed)
		},
	}
	applyCmd.Flags().StringArrayVarP(&applyFilters, "filter", "f", nil, "Filter spec name[:key=value,...]; repeat to chain")
	applyCmd.Flags().StringVar(&outDir, "out", "./filtered", "Output directory")
	applyCmd.Flags().StringVar(&format, "format", "", "Output format (png, jpeg, bmp); defaults to the input's")
	applyCmd.Flags().IntVar(&workers, "workers", 2, "Number of images processed concurrently")
	applyCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the noise filter (0 = random)")
	_ = applyCmd.MarkFlagRequired("filter")

	animateCmd := &cobra.Command{
		Use:   "animate --filter <spec> [--frames <n>] [--delay <secs>] --out <file.png> <file|url>",
		Short: "Render an animated PNG by filtering the image once per frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Animate(args[0], animateFilters, frames, frameDelay, outFile, seed)
		},
	}
	animateCmd.Flags().StringArrayVarP(&animateFilters, "filter", "f", []string{"noise"}, "Filter spec name[:key=value,...]; repeat to chain")
	animateCmd.Flags().IntVar(&frames, "frames", 8, "Number of frames")
	animateCmd.Flags().Float64Var(&frameDelay, "delay", 0.1, "Seconds per frame, up to 65.535")
	animateCmd.Flags().StringVar(&outFile, "out", "animated.png", "Output APNG file")
	animateCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the noise filter (0 = random)")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.ApiServer(port, debug)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(internal.Version())
		},
	}

	rootCmd.AddCommand(applyCmd, animateCmd, apiServerCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
