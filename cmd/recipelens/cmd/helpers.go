package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AntoC-dev/recipelens/internal/config"
	"github.com/AntoC-dev/recipelens/internal/extract"
	"github.com/AntoC-dev/recipelens/internal/recognizer"
	"github.com/AntoC-dev/recipelens/internal/terms"
)

const (
	outputFormatJSON = "json"
	outputFormatYAML = "yaml"
)

// buildExtractor assembles the extraction dispatcher from configuration.
func buildExtractor(cfg *config.Config) (*extract.Extractor, error) {
	store, err := terms.NewStore()
	if err != nil {
		return nil, fmt.Errorf("loading term catalogs: %w", err)
	}
	if cfg.Extraction.TermsDir != "" {
		if err := store.LoadDir(cfg.Extraction.TermsDir); err != nil {
			return nil, fmt.Errorf("loading term catalogs from %s: %w", cfg.Extraction.TermsDir, err)
		}
	}

	client := recognizer.NewClient(recognizer.ClientConfig{
		BaseURL: cfg.Recognizer.BaseURL,
		APIKey:  cfg.Recognizer.APIKey,
		Timeout: time.Duration(cfg.Recognizer.TimeoutSec) * time.Second,
	})

	return extract.NewExtractor(client, store,
		extract.WithLanguage(cfg.Language),
		extract.WithHeuristics(cfg.ToHeuristics()),
	), nil
}

// parseField validates a field name from the command line.
func parseField(name string) (extract.FieldKind, error) {
	field := extract.FieldKind(name)
	if !extract.ValidField(field) {
		return "", fmt.Errorf("unknown field %q (one of: %v)", name, extract.AllFields())
	}
	return field, nil
}

// writeResult marshals the result in the requested format, to stdout or the
// output file.
func writeResult(result interface{}, format, outputFile string) error {
	var data []byte
	var err error

	switch format {
	case outputFormatYAML:
		data, err = yaml.Marshal(result)
	case outputFormatJSON, "":
		data, err = json.MarshalIndent(result, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		return fmt.Errorf("unknown output format %q (one of: json, yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if outputFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outputFile, data, 0o600)
}
