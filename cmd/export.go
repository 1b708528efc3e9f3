package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/semio-ai/drydoc/internal/core/usecases"
)

// ExportCommand builds the declaration tree and writes the resulting
// manifest without emitting the site.
type ExportCommand struct {
	gen    *GenCommand
	format usecases.ExportFormat
	output string
}

// NewExportCommand creates a new export command around a configured build.
func NewExportCommand(gen *GenCommand) *ExportCommand {
	return &ExportCommand{
		gen:    gen,
		format: usecases.ExportJSON,
		output: "-",
	}
}

// WithFormat sets the export format (json or yaml).
func (c *ExportCommand) WithFormat(format string) *ExportCommand {
	c.format = usecases.ExportFormat(format)
	return c
}

// WithOutput sets the output file; "-" writes to stdout.
func (c *ExportCommand) WithOutput(path string) *ExportCommand {
	c.output = path
	return c
}

// Execute builds and exports the manifest.
func (c *ExportCommand) Execute(ctx context.Context) error {
	bundle, supervisor, err := c.gen.build(ctx)
	if supervisor != nil {
		defer supervisor.Close()
	}
	if err != nil {
		return err
	}

	data, err := usecases.NewExportManifest().Execute(bundle.Manifest, c.format)
	if err != nil {
		return err
	}

	if c.output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	return nil
}
