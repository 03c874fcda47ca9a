package config

import (
	"fmt"
	"os"

	"github.com/dgallion1/readinglist/internal/reading"
	"gopkg.in/yaml.v3"
)

// LoadGroups reads group metadata keyed by section number:
//
//	1:
//	  slug: foundations
//	  title: Foundations of Social Friction
//	  theme_tags: [Sociology, Interaction]
//
// An empty path yields no metadata.
func LoadGroups(path string) (map[int]reading.Group, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read groups file: %w", err)
	}
	return ParseGroups(data)
}

// ParseGroups decodes the YAML form accepted by LoadGroups.
func ParseGroups(data []byte) (map[int]reading.Group, error) {
	var groups map[int]reading.Group
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parse groups yaml: %w", err)
	}
	for n := range groups {
		if n <= 0 {
			return nil, fmt.Errorf("groups: section number must be positive, got %d", n)
		}
	}
	return groups, nil
}
