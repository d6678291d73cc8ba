package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/bizscout/internal/api"
	"github.com/sells-group/bizscout/internal/config"
	"github.com/sells-group/bizscout/internal/generate"
)

var (
	geminiAPIKey      string
	generatePrompt    string
	generateModel     string
	generateTemp      float64
	generateMaxTokens int
)

// geminiKey prefers the flag, then GEMINI_API_KEY.
func geminiKey() string {
	if geminiAPIKey != "" {
		return geminiAPIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Send a prompt to Gemini",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := api.GenerateRequest{
			APIKey:      geminiKey(),
			Prompt:      generatePrompt,
			Temperature: &generateTemp,
		}
		if cmd.Flags().Changed("max-tokens") {
			flags.MaxTokens = &generateMaxTokens
		}
		if err := checkFlags(flags); err != nil {
			return err
		}
		if err := cfg.Validate(config.ModeGenerate); err != nil {
			return err
		}

		model := generateModel
		if model == "" {
			model = cfg.Gemini.DefaultModel
		}
		req := generate.Request{
			APIKey:      flags.APIKey,
			Prompt:      flags.Prompt,
			Model:       model,
			Temperature: generateTemp,
			MaxTokens:   flags.MaxTokens,
		}

		result, err := newGateway(cfg.Gemini).Generate(cmd.Context(), req)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, result)
	},
}

var validateKeyCmd = &cobra.Command{
	Use:   "validate-key",
	Short: "Check whether a Gemini API key works",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeGenerate); err != nil {
			return err
		}
		result := newGateway(cfg.Gemini).ValidateKey(cmd.Context(), geminiKey())
		return writeOutput(cmd.OutOrStdout(), outputFormat, result)
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, validateKeyCmd} {
		c.Flags().StringVar(&geminiAPIKey, "api-key", "", "Gemini API key (default $GEMINI_API_KEY)")
		rootCmd.AddCommand(c)
	}
	generateCmd.Flags().StringVar(&generatePrompt, "prompt", "", "prompt text")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "model name (default from config)")
	generateCmd.Flags().Float64Var(&generateTemp, "temperature", 0.7, "sampling temperature, 0 to 1")
	generateCmd.Flags().IntVar(&generateMaxTokens, "max-tokens", 0, "maximum output tokens (provider default when unset)")
	_ = generateCmd.MarkFlagRequired("prompt")
}
