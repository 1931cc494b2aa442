package cli

import (
	"context"
	"fmt"

	"resumelift/internal/ai"
	"resumelift/internal/common"
	"resumelift/internal/types"

	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [resume-file] [job-description-file]",
	Short: "Optimize a resume for applicant tracking systems",
	Long: `Optimize your resume using the configured AI provider cascade.
The command takes the path to your resume file and, optionally, the path to
a job description file to target. Both files should be in plain text format.

Providers are tried in the configured cascade order; if every provider fails
a deterministic fallback rewrite is produced instead.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if optimizeConfig.OutputFormat == "" {
			optimizeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(optimizeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runOptimize,
}

var (
	optimizeConfig       common.CommandConfig
	optimizeLanguage     string
	optimizeInstructions []string
	optimizeProvider     string
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	optimizeCmd.Flags().StringVar(&optimizeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	optimizeCmd.Flags().StringVar(&optimizeLanguage, "language", "", "Language for the optimized resume (default from config)")
	optimizeCmd.Flags().StringArrayVar(&optimizeInstructions, "instruction", nil, "Custom instruction for the provider (repeatable)")
	optimizeCmd.Flags().StringVar(&optimizeProvider, "provider", "", "Provider to try first (gemini, openai, claude); the cascade still backs it up")

	// Add completion for format flag
	_ = optimizeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	registry, err := ai.NewProviderRegistry(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build provider registry: %w", err)
	}
	defer func() {
		if err := registry.Close(); err != nil {
			logger.Warn("Failed to close provider registry", "error", err)
		}
	}()

	orchestrator := ai.NewOrchestrator(registry, cfg.AI.CascadeOrder, logger, nil)

	createInput := func(contents []string) (types.OptimizeInput, error) {
		input := types.OptimizeInput{
			ResumeContent:      contents[0],
			Language:           optimizeLanguage,
			CustomInstructions: optimizeInstructions,
		}
		if len(contents) > 1 {
			input.JobDescription = contents[1]
		}
		return input, nil
	}

	logDetails := func(input types.OptimizeInput, cfg common.CommandConfig) {
		logger.Info("Starting resume optimization",
			"resume_chars", len(input.ResumeContent),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	optimizeOperation := func(ctx context.Context, input types.OptimizeInput) (types.OptimizationResult, *ai.TokenUsage, error) {
		if optimizeProvider != "" {
			return orchestrator.Reoptimize(ctx, input, optimizeProvider)
		}
		return orchestrator.Optimize(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		optimizeConfig,
		args,
		createInput,
		optimizeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to optimize resume: %w", err)
	}
	logger.Info("Resume optimization completed successfully")
	return nil
}
