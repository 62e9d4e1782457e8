// Package terms provides the localized phrase catalogs the extraction
// heuristics depend on: recipe-box header phrases, servings-suffix phrases,
// nutrition label term lists, and the table boundary phrases.
package terms

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// Catalog holds the phrase lists for one language.
type Catalog struct {
	// BoxHeaders are card headlines that precede the actual content and
	// must be stripped (e.g. "dans votre box").
	BoxHeaders []string `yaml:"box_headers"`

	// ServingSuffixes are fragments the recognizer splits off a person
	// marker onto their own line (e.g. "pers.").
	ServingSuffixes []string `yaml:"serving_suffixes"`

	// PerHundredGrams and PerPortion are the nutrition table boundary
	// phrases.
	PerHundredGrams []string `yaml:"per_100g"`
	PerPortion      []string `yaml:"per_portion"`

	// NutritionLabels maps a nutrition key ("energy", "fat", ...) to the
	// localized label variants seen on packaging.
	NutritionLabels map[string][]string `yaml:"nutrition_labels"`
}

// Provider exposes catalogs per language tag.
type Provider interface {
	// Catalog returns the catalog for a language, or false when the
	// language is not covered.
	Catalog(lang string) (*Catalog, bool)
}

// Store is a Provider backed by embedded defaults, optionally extended with
// catalogs loaded from a directory.
type Store struct {
	catalogs map[string]*Catalog
}

// NewStore loads the embedded default catalogs.
func NewStore() (*Store, error) {
	s := &Store{catalogs: make(map[string]*Catalog)}

	entries, err := embedded.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("reading embedded catalogs: %w", err)
	}
	for _, e := range entries {
		data, err := embedded.ReadFile("data/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded catalog %s: %w", e.Name(), err)
		}
		if err := s.add(langFromFilename(e.Name()), data); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoadDir adds or overrides catalogs from *.yaml files in dir, keyed by
// file base name (fr.yaml -> "fr").
func (s *Store) LoadDir(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return err
	}
	for _, path := range matches {
		data, err := os.ReadFile(path) //nolint:gosec // G304: catalog dir is operator-provided
		if err != nil {
			return fmt.Errorf("reading catalog %s: %w", path, err)
		}
		if err := s.add(langFromFilename(filepath.Base(path)), data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) add(lang string, data []byte) error {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parsing catalog %q: %w", lang, err)
	}
	s.catalogs[lang] = &c
	return nil
}

// Catalog returns the catalog for lang. A region subtag is ignored, so
// "fr-FR" resolves to "fr".
func (s *Store) Catalog(lang string) (*Catalog, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if c, ok := s.catalogs[lang]; ok {
		return c, true
	}
	if base, _, found := strings.Cut(lang, "-"); found {
		if c, ok := s.catalogs[base]; ok {
			return c, true
		}
	}
	return nil, false
}

// Languages lists the available language tags, sorted.
func (s *Store) Languages() []string {
	langs := make([]string, 0, len(s.catalogs))
	for l := range s.catalogs {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// NutritionKeys lists the catalog's nutrition keys in a stable order.
func (c *Catalog) NutritionKeys() []string {
	keys := make([]string, 0, len(c.NutritionLabels))
	for k := range c.NutritionLabels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func langFromFilename(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), filepath.Ext(name))
}
