package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	"github.com/ultrapreps/visionqa/pkg/domain/qa"
)

var (
	improvePrompt     string
	improvePromptFile string
	improveResult     string
)

var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Build a corrected generation prompt from a validation result",
	Long: `Improve appends the corrections a validation asked for, plus the standing
quality requirements, to the prompt that generated the image.

The result is the JSON printed by 'validate --json'; pass "-" to read it from stdin.`,
	Example: `  visionqa validate eagle.png -t mascot ... --json > result.json
  visionqa improve --prompt "Fierce eagle mascot on navy" --result result.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := improvePrompt
		if improvePromptFile != "" {
			// #nosec G304 -- the user names the prompt file
			data, err := os.ReadFile(improvePromptFile)
			if err != nil {
				return fmt.Errorf("read prompt: %w", err)
			}
			prompt = string(data)
		}
		prompt = strings.TrimSpace(prompt)
		if prompt == "" {
			return NewCLIError("original prompt is required", "Pass --prompt or --prompt-file", nil)
		}

		result, err := readResult(cmd.InOrStdin(), improveResult)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), qa.GenerateImprovementPrompt(prompt, result))
		return err
	},
}

func readResult(stdin io.Reader, path string) (asset.ValidationResult, error) {
	var result asset.ValidationResult
	if path == "" {
		return result, NewCLIError("validation result is required", "Pass --result result.json or --result - for stdin", nil)
	}

	var r io.Reader = stdin
	if path != "-" {
		// #nosec G304 -- the user names the result file
		f, err := os.Open(path)
		if err != nil {
			return result, fmt.Errorf("open result: %w", err)
		}
		defer f.Close() //nolint:errcheck // read-only
		r = f
	}
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return result, NewCLIError("could not parse validation result", "Use the JSON printed by 'visionqa validate --json'", err)
	}
	return result, nil
}

func init() {
	improveCmd.Flags().StringVarP(&improvePrompt, "prompt", "p", "", "Prompt that generated the image")
	improveCmd.Flags().StringVar(&improvePromptFile, "prompt-file", "", "Read the original prompt from a file")
	improveCmd.Flags().StringVarP(&improveResult, "result", "r", "", "Validation result JSON file, or - for stdin")
	RootCmd.AddCommand(improveCmd)
}
