package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedEntries returns the built-in starter list of GOST materials.
func SeedEntries() ([]Entry, error) {
	var out []Entry
	if err := yaml.Unmarshal(seedYAML, &out); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	return out, nil
}
