package importer

import (
	"fmt"
	"linkroute/core"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLImporter imports scenes written in YAML with the same field names as
// the JSON format.
type YAMLImporter struct{}

// NewYAMLImporter creates a YAML importer.
func NewYAMLImporter() *YAMLImporter {
	return &YAMLImporter{}
}

// CanImport accepts content with a top-level shapes key.
func (i *YAMLImporter) CanImport(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "shapes:") {
			return true
		}
	}
	return false
}

// Import decodes a YAML scene. Unknown fields are rejected.
func (i *YAMLImporter) Import(content string) (*core.Scene, error) {
	var scene core.Scene
	dec := yaml.NewDecoder(strings.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&scene); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return finish(&scene)
}

// GetFormatName returns the format name.
func (i *YAMLImporter) GetFormatName() string {
	return "YAML"
}

// GetFileExtensions returns the YAML file extensions.
func (i *YAMLImporter) GetFileExtensions() []string {
	return []string{".yaml", ".yml"}
}
