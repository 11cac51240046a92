package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads and validates a single story YAML file.
//
// Precondition: path must point to a valid YAML story file.
// Postcondition: returns a validated Definition or a non-nil error.
func LoadFromFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading story file %s: %w", path, err)
	}
	def, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading story from %s: %w", path, err)
	}
	return def, nil
}

// LoadFromBytes parses and validates a story from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the story schema.
// Postcondition: returns a validated Definition or a non-nil error.
func LoadFromBytes(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing story YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("validating story: %w", err)
	}
	return &def, nil
}
