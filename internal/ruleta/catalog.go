package ruleta

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Categories []Category `yaml:"categories"`
}

// DefaultCatalog returns the built-in categories. Each call returns a fresh copy.
func DefaultCatalog() []Category {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog document from path, or returns the built-in
// catalog when path is empty.
func LoadCatalog(path string) ([]Category, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseCatalog(b)
}

func ParseCatalog(b []byte) ([]Category, error) {
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := validateCatalog(f.Categories); err != nil {
		return nil, err
	}
	return f.Categories, nil
}

func validateCatalog(categories []Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("%w: catalog has no categories", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: category %d has no name", ErrInvalidInput, i)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidInput, c.Name)
		}
		seen[c.Name] = struct{}{}
		if len(c.Questions) == 0 {
			return fmt.Errorf("%w: category %q: %w", ErrInvalidInput, c.Name, ErrEmptyCategory)
		}
		for _, q := range c.Questions {
			if strings.TrimSpace(q) == "" {
				return fmt.Errorf("%w: category %q has an empty question", ErrInvalidInput, c.Name)
			}
		}
	}
	return nil
}

// HasCategory reports whether name is a category of catalog.
func HasCategory(catalog []Category, name string) bool {
	for _, c := range catalog {
		if c.Name == name {
			return true
		}
	}
	return false
}
