package cli

import (
	"encoding/json"
	"fmt"

	"resumelift/internal/common"
	"resumelift/internal/score"
	"resumelift/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file]",
	Short: "Compute a detailed ATS score breakdown for a resume",
	Long: `Compute a heuristic ATS score breakdown for a resume without calling any
AI provider. Section detection contributes the base score; pass a previous
optimization result with --result to include suggestion and keyword points.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var (
	scoreConfig     common.CommandConfig
	scoreBase       float64
	scoreResultFile string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	scoreCmd.Flags().Float64Var(&scoreBase, "base", 0, "Base score override (default: derived from section analysis)")
	scoreCmd.Flags().StringVar(&scoreResultFile, "result", "", "Optimization result JSON whose suggestions and keywords are scored")
}

func runScore(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	contents, err := fileProcessor.ValidateAndReadFiles(args[0])
	if err != nil {
		return err
	}
	resumeContent := contents[0]

	var suggestions []types.Suggestion
	var keywords []types.Keyword
	if scoreResultFile != "" {
		raw, err := fileProcessor.ReadFile(scoreResultFile)
		if err != nil {
			return err
		}
		var result types.OptimizationResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return fmt.Errorf("failed to parse optimization result %s: %w", scoreResultFile, err)
		}
		suggestions = result.Suggestions
		keywords = result.Keywords
	}

	engine := score.NewEngine()

	base := scoreBase
	if base <= 0 {
		base = engine.SectionBaseScore(resumeContent)
	}

	logger.Info("Computing ATS score breakdown",
		"resume_chars", len(resumeContent),
		"base_score", base,
		"suggestions", len(suggestions),
		"keywords", len(keywords))

	breakdown := engine.DetailedATSScore(base, suggestions, keywords, resumeContent)

	return common.NewOutputHandler(logger).HandleOutput(breakdown, scoreConfig)
}
