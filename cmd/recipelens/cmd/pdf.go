package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntoC-dev/recipelens/internal/extract"
	"github.com/AntoC-dev/recipelens/internal/pdfimage"
	"github.com/AntoC-dev/recipelens/internal/recognizer"
)

// pageResult is the CLI output for one PDF page image.
type pageResult struct {
	Page     int           `json:"page" yaml:"page"`
	Field    string        `json:"field" yaml:"field"`
	Patch    extract.Patch `json:"patch" yaml:"patch"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// pdfCmd represents the pdf command.
var pdfCmd = &cobra.Command{
	Use:   "pdf [file]",
	Short: "Extract a recipe field from recipe cards scanned into a PDF",
	Long: `Pull the page images out of a PDF and run field extraction on each one.

Examples:
  recipelens pdf scans.pdf --field title
  recipelens pdf scans.pdf --pages 1-3 --field ingredients --servings 2`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		fieldName, _ := cmd.Flags().GetString("field")
		field, err := parseField(fieldName)
		if err != nil {
			return err
		}

		pages, _ := cmd.Flags().GetString("pages")
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

		cards, err := pdfimage.ExtractCards(args[0], pages)
		if err != nil {
			return fmt.Errorf("extracting images from %s: %w", args[0], err)
		}
		if len(cards) == 0 {
			return fmt.Errorf("no page images found in %s", args[0])
		}

		extractor, err := buildExtractor(cfg)
		if err != nil {
			return err
		}

		results := make([]pageResult, 0, len(cards))
		for _, card := range cards {
			imageData, err := recognizer.PrepareImage(card.Image)
			if err != nil {
				return fmt.Errorf("preparing page %d image: %w", card.Page, err)
			}
			patch, warnings := extractor.Extract(cmd.Context(), imageData, field, lang,
				extract.State{Servings: servings})
			results = append(results, pageResult{
				Page:     card.Page,
				Field:    string(field),
				Patch:    patch,
				Warnings: warnings,
			})
		}

		return writeResult(results, format, outputFile)
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)

	pdfCmd.Flags().String("pages", "", "page range to process, e.g. \"1-3\" or \"1,4\" (default all)")
	pdfCmd.Flags().String("field", "", "recipe field to extract")
	pdfCmd.Flags().Int("servings", 0, "serving count to scale ingredient quantities to")
	pdfCmd.Flags().String("lang", "", "term catalog language override for this call")
	pdfCmd.Flags().StringP("format", "f", "json", "output format (json, yaml)")
	pdfCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	_ = pdfCmd.MarkFlagRequired("field")
}
