package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gauravsurtani/social-media-reader/internal/config"
	"github.com/gauravsurtani/social-media-reader/internal/post"
	"github.com/gauravsurtani/social-media-reader/internal/reader"
	"github.com/gauravsurtani/social-media-reader/internal/vision"
)

var (
	cfgFile    string
	noVision   bool
	pasteMode  bool
	imagesOnly bool
	recording  string
	timeout    int
	verbose    bool
	quiet      bool
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "smr <url>",
	Short: "Extract content from social media posts",
	Long: `smr extracts images, text, and metadata from social media posts.
It tries several extraction strategies per platform in order, falling back
from cheap local scraping to remote services, and can describe the result
with a vision model.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	RunE:          run,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !quiet {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/smr/config.toml)")

	rootCmd.Flags().BoolVar(&noVision, "no-vision", false, "skip vision model analysis")
	rootCmd.Flags().BoolVar(&pasteMode, "paste", false, "read pasted post text from stdin as a fallback source")
	rootCmd.Flags().BoolVar(&imagesOnly, "images-only", false, "print only resolved image URLs")
	rootCmd.Flags().StringVar(&recording, "recording", "", "reconstruct text from a scrolling screen recording file")
	rootCmd.Flags().IntVar(&timeout, "timeout", 0, "request timeout in seconds (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all non-content output")
}

func initLogging(cfg *config.Config) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Network.Timeout = timeout
	}
	initLogging(cfg)

	ctx := context.Background()

	var gateway *vision.Gateway
	if !noVision {
		gateway, err = vision.NewGateway(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.VisionModel)
		if err != nil {
			if recording != "" {
				return err
			}
			// Extraction still works without the model, just without analysis.
			log.Warn().Err(err).Msg("continuing without vision analysis")
		} else {
			defer gateway.Close()
		}
	}

	r := reader.New(cfg, gateway)

	if recording != "" {
		text, err := r.ReadRecording(ctx, recording)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}

	pasted, err := readPaste()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if pasted == "" {
			return fmt.Errorf("no URL provided (pass a URL, or --paste with text on stdin)")
		}
		printRecord(r.ReadPaste(pasted))
		return nil
	}

	rec, err := r.Read(ctx, args[0], reader.Options{
		NoVision:   noVision,
		ImagesOnly: imagesOnly,
		Paste:      pasted,
	})
	if err != nil {
		return err
	}
	if rec.Err != nil {
		printRecord(rec)
		return fmt.Errorf("extraction failed: %v", rec.Err)
	}

	printRecord(rec)
	return nil
}

// readPaste pulls pasted post text from stdin when --paste is set.
func readPaste() (string, error) {
	if !pasteMode {
		return "", nil
	}

	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", fmt.Errorf("--paste requires post text piped on stdin")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printRecord(rec *post.Record) {
	if imagesOnly {
		for _, img := range rec.Images {
			fmt.Println(img.URL)
		}
		return
	}

	fmt.Printf("Platform: %s\n", rec.Platform)
	if rec.SourceURL != "" {
		fmt.Printf("Source:   %s\n", rec.SourceURL)
	}
	if rec.ExtractionMethod != "" {
		fmt.Printf("Method:   %s\n", rec.ExtractionMethod)
	}

	labels := []struct{ key, label string }{
		{"author", "Author"},
		{"author_url", "Profile"},
		{"title", "Title"},
		{"description", "Desc"},
		{"duration", "Duration"},
	}
	for _, l := range labels {
		if v, ok := rec.Metadata[l.key]; ok {
			fmt.Printf("%-9s %s\n", l.label+":", v)
		}
	}

	if len(rec.Images) > 0 {
		fmt.Printf("\nImages (%d):\n", len(rec.Images))
		for _, img := range rec.Images {
			fmt.Printf("  %s\n", img.URL)
		}
	}
	if rec.Text != "" {
		fmt.Printf("\nText:\n%s\n", rec.Text)
	}
	if rec.Analysis != "" {
		fmt.Printf("\nAnalysis:\n%s\n", rec.Analysis)
	}
}
