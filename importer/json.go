package importer

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"linkroute/core"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed scene.schema.json
var sceneSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(sceneSchema)

// JSONImporter imports scenes in the native JSON format.
type JSONImporter struct{}

// NewJSONImporter creates a JSON importer.
func NewJSONImporter() *JSONImporter {
	return &JSONImporter{}
}

// CanImport accepts content that starts like a JSON object.
func (i *JSONImporter) CanImport(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "{")
}

// Import validates content against the scene schema and decodes it.
func (i *JSONImporter) Import(content string) (*core.Scene, error) {
	if err := ValidateJSON([]byte(content)); err != nil {
		return nil, err
	}
	var scene core.Scene
	if err := json.Unmarshal([]byte(content), &scene); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return finish(&scene)
}

// GetFormatName returns the format name.
func (i *JSONImporter) GetFormatName() string {
	return "JSON"
}

// GetFileExtensions returns the JSON file extensions.
func (i *JSONImporter) GetFileExtensions() []string {
	return []string{".json"}
}

// ValidateJSON checks data against the scene schema. Violations are
// reported together in one error wrapping ErrSchema.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]error, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, errors.New(e.String()))
	}
	return fmt.Errorf("%w: %w", ErrSchema, errors.Join(errs...))
}
