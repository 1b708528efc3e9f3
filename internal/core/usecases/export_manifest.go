package usecases

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/semio-ai/drydoc/internal/core/entities"
)

// ExportFormat selects the serialization of a manifest export.
type ExportFormat string

const (
	// ExportJSON pretty-prints the manifest as JSON.
	ExportJSON ExportFormat = "json"
	// ExportYAML renders the manifest as YAML.
	ExportYAML ExportFormat = "yaml"
)

// ExportManifest serializes a built manifest without emitting the site,
// for inspection and tooling.
type ExportManifest struct{}

// NewExportManifest creates the export use case.
func NewExportManifest() *ExportManifest {
	return &ExportManifest{}
}

// Execute encodes the manifest in the requested format.
func (uc *ExportManifest) Execute(manifest entities.Manifest, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportJSON:
		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		return append(data, '\n'), nil
	case ExportYAML:
		data, err := yaml.Marshal(manifest)
		if err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
