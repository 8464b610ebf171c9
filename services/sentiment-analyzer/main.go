package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"puresearch/sentiment-analyzer/common/artifacts"
	"puresearch/sentiment-analyzer/common/config"
	"puresearch/sentiment-analyzer/common/logging"
	"puresearch/sentiment-analyzer/common/models"
	"puresearch/sentiment-analyzer/common/rnn"
	"puresearch/sentiment-analyzer/common/sentiment"
)

// @title          Sentiment Analyzer API
// @version        1.0
// @description    Binary sentiment classification of short reviews with a pre-trained recurrent network

// @license.name MIT
// @license.url  https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

var (
	// Global flags
	verbose      bool
	manifestPath string
	serverAddr   string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Classify movie reviews as positive or negative",
	Long: `sentiment-analyzer loads a trained recurrent network and its tokenizer once,
then labels reviews as POSITIVE or NEGATIVE with a confidence score.

Use "serve" for the web page and JSON API, or "predict" for a one-shot answer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if cmd.Flags().Changed("manifest") {
			cfg.ManifestPath = manifestPath
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		if logger, err = logging.New(level, cfg.GinMode == gin.DebugMode); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web page and JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.ServerAddr = serverAddr
		}
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "", "Artifact manifest (default: MANIFEST_PATH or artifacts/manifest.yaml)")

	serveCmd.Flags().StringVar(&serverAddr, "addr", "", "Listen address (default: SERVER_ADDR or :8080)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// predict has already printed the warning for a blank review
		if !errors.Is(err, sentiment.ErrEmptyReview) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	gin.SetMode(cfg.GinMode)

	analyzer, info, err := loadAnalyzer(ctx, cfg.ManifestPath)
	if err != nil {
		return err
	}

	router, err := newRouter(&server{analyzer: analyzer, info: info, logger: logger}, cfg.CORSOrigins)
	if err != nil {
		return err
	}
	return serve(cfg, router, logger)
}

// loadAnalyzer loads the artifact bundle once and wires it into an analyzer.
// Any failure here is fatal to the caller.
func loadAnalyzer(ctx context.Context, path string) (*sentiment.Analyzer, models.ModelInfo, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	bundle, err := artifacts.Load(ctx, path, logger)
	if err != nil {
		return nil, models.ModelInfo{}, fmt.Errorf("failed to load artifacts: %w", err)
	}

	analyzer, err := sentiment.NewAnalyzer(
		bundle.Tokenizer,
		bundle.Model,
		bundle.Manifest.PadOptions(),
		bundle.Manifest.DecisionThreshold(),
		logger,
	)
	if err != nil {
		return nil, models.ModelInfo{}, fmt.Errorf("failed to build analyzer: %w", err)
	}
	return analyzer, modelInfo(bundle), nil
}

func modelInfo(bundle *artifacts.Bundle) models.ModelInfo {
	pad := bundle.Manifest.PadOptions()
	return models.ModelInfo{
		Name:       bundle.Manifest.Name,
		MaxLen:     pad.MaxLen,
		Threshold:  bundle.Manifest.DecisionThreshold(),
		Padding:    string(pad.Padding),
		Truncating: string(pad.Truncating),
		Vocabulary: bundle.Tokenizer.VocabularySize(),
		Layers: lo.Map(bundle.Model.Summary(), func(l rnn.LayerInfo, _ int) models.LayerInfo {
			return models.LayerInfo{
				Name:       l.Name,
				Type:       l.Type,
				OutputSize: l.OutputSize,
				Params:     l.Params,
			}
		}),
	}
}
