package cmd

import (
	"context"
	"fmt"

	"github.com/semio-ai/drydoc/internal/adapters/cli"
	"github.com/semio-ai/drydoc/internal/adapters/config"
	"github.com/semio-ai/drydoc/internal/core/usecases"
)

// ValidateCommand checks a declaration tree without running any generator.
type ValidateCommand struct {
	configPath string
}

// NewValidateCommand creates a new validate command.
func NewValidateCommand(configPath string) *ValidateCommand {
	return &ValidateCommand{configPath: configPath}
}

// Execute runs validation and reports the findings. A tree with issues is
// a command failure.
func (c *ValidateCommand) Execute(ctx context.Context) error {
	issues, err := usecases.NewValidateDecl(config.NewDeclLoader()).Execute(ctx, c.configPath)
	if err != nil {
		return err
	}

	cli.NewReportFormatter().PrintValidationReport(issues)
	if len(issues) > 0 {
		return fmt.Errorf("%d validation issue(s) in %s", len(issues), c.configPath)
	}
	return nil
}
