// Command server runs the dream analyzer web form.
//
// Usage:
//
//	# Start the server (reads .env / .env.dev and the environment)
//	server
//	server serve
//
//	# List the models visible to GEMINI_API_KEY
//	server models
package main

import (
	"context"
	"fmt"
	"os"

	"dream-analyzer/internal/adapter/api"
	"dream-analyzer/internal/adapter/client"
	"dream-analyzer/internal/adapter/markdown"
	"dream-analyzer/internal/config"
	"dream-analyzer/internal/domain/repository"
	"dream-analyzer/internal/logging"
	"dream-analyzer/internal/metrics"
	"dream-analyzer/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Dream analysis web form backed by Gemini",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "models",
			Short: "List the generation models available to the configured API key",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runModels(cmd.Context(), cmd)
			},
		},
	)
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Error("failed to load configuration")
		return nil, err
	}
	logging.Init(cfg.Logging)
	return cfg, nil
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(metrics.NewDefaultRegistry())

	var (
		provider *usecase.ResilientProvider
		filter   repository.DreamFilter = usecase.NewKeywordFilter()
	)
	if cfg.HasAPIKey() {
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			logrus.WithError(err).Error("failed to init genai client")
			return err
		}

		provider = usecase.NewResilientProvider(
			client.NewGeminiClientFromClient(genaiClient),
			usecase.WithMetrics(collector),
		)
		if cfg.Server.DreamFilter == config.FilterModel {
			filter = usecase.ChainFilter{filter, client.NewModelClassifier(genaiClient, cfg.Gemini.Model)}
		}
	} else {
		logrus.Warn("GEMINI_API_KEY is not set; analyses will report a configuration error")
	}

	analyzer := usecase.NewDreamAnalyzer(
		usecase.AnalyzerConfig{HasAPIKey: cfg.HasAPIKey(), Model: cfg.Gemini.Model},
		filter,
		provider,
		markdown.NewConverter(),
		collector,
	)

	app := api.NewApp(cfg.Server)
	api.SetupRouter(app, cfg.Server, api.NewDreamHandler(analyzer), collector)

	logrus.WithFields(logrus.Fields{
		"port":   cfg.Server.Port,
		"model":  cfg.Gemini.Model,
		"filter": cfg.Server.DreamFilter,
	}).Info("Dream analyzer running")
	return app.Listen(":" + cfg.Server.Port)
}

func runModels(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.HasAPIKey() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error fetching models: GEMINI_API_KEY is not set")
		return fmt.Errorf("missing api key")
	}

	gc, err := client.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error fetching models: %v\n", err)
		return err
	}
	return printModels(ctx, cmd, gc)
}

func printModels(ctx context.Context, cmd *cobra.Command, lister repository.ModelLister) error {
	names, err := lister.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error fetching models: %v\n", err)
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "--- Available Models List ---")
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
