package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntoC-dev/recipelens/internal/extract"
	"github.com/AntoC-dev/recipelens/internal/recognizer"
)

// extractResult is the CLI output for one extraction.
type extractResult struct {
	Field    string        `json:"field" yaml:"field"`
	Patch    extract.Patch `json:"patch" yaml:"patch"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract [image]",
	Short: "Extract one recipe field from a recipe card image",
	Long: `Send a recipe card image (or a cropped region of one) to the recognition
service and parse the requested field from the recognized text.

Examples:
  recipelens extract card.jpg --field title
  recipelens extract ingredients.png --field ingredients --servings 4
  recipelens extract nutrition.png --field nutrition --lang fr --format yaml`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		fieldName, _ := cmd.Flags().GetString("field")
		field, err := parseField(fieldName)
		if err != nil {
			return err
		}

		servings, _ := cmd.Flags().GetInt("servings")
		lang, _ := cmd.Flags().GetString("lang")

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}

		imageData, err := recognizer.LoadImage(args[0])
		if err != nil {
			return fmt.Errorf("loading image %s: %w", args[0], err)
		}

		extractor, err := buildExtractor(cfg)
		if err != nil {
			return err
		}

		patch, warnings := extractor.Extract(cmd.Context(), imageData, field, lang,
			extract.State{Servings: servings})

		return writeResult(extractResult{
			Field:    string(field),
			Patch:    patch,
			Warnings: warnings,
		}, format, outputFile)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("field", "", "recipe field to extract (title, description, persons, time, preparation, ingredients, tags, nutrition)")
	extractCmd.Flags().Int("servings", 0, "serving count to scale ingredient quantities to")
	extractCmd.Flags().String("lang", "", "term catalog language override for this call")
	extractCmd.Flags().StringP("format", "f", "json", "output format (json, yaml)")
	extractCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	_ = extractCmd.MarkFlagRequired("field")
}
