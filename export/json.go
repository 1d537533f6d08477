package export

import (
	"encoding/json"
	"io"
	"linkroute/core"
)

// JSONExporter writes the computed routes.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

type routesDocument struct {
	Name   string       `json:"name,omitempty"`
	Routes []core.Route `json:"routes"`
}

// Export writes {"routes": [...]} with anchors and bend points per link.
func (e *JSONExporter) Export(w io.Writer, doc Document) error {
	out := routesDocument{Routes: doc.Routes}
	if doc.Scene != nil {
		out.Name = doc.Scene.Metadata.Name
	}
	if out.Routes == nil {
		out.Routes = []core.Route{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
