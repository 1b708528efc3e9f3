package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultRepositoryURL is the public generator package repository.
const DefaultRepositoryURL = "https://semio-ai.github.io/drydoc-packages"

// Settings is the tool-level configuration read from config.toml files.
// Declaration files configure what to build; settings configure how.
type Settings struct {
	Repository RepositorySettings `toml:"repository"`
	Build      BuildSettings      `toml:"build"`
	Serve      ServeSettings      `toml:"serve"`
}

// RepositorySettings configures the package manager.
type RepositorySettings struct {
	URL string `toml:"url"`
	Dir string `toml:"dir"`
}

// BuildSettings configures the gen command.
type BuildSettings struct {
	Config string `toml:"config"`
	Output string `toml:"output"`
}

// ServeSettings configures the static file server.
type ServeSettings struct {
	Address string `toml:"address"`
	Port    int    `toml:"port"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Repository: RepositorySettings{
			URL: DefaultRepositoryURL,
			Dir: NewXDGPathResolver().DefaultStoreDir(),
		},
		Build: BuildSettings{
			Config: "drydoc.yaml",
			Output: "html",
		},
		Serve: ServeSettings{
			Address: "127.0.0.1",
			Port:    8888,
		},
	}
}

// LoadSettings reads the global XDG settings file and merges the
// project-local drydoc.toml over it, starting from defaults. Missing files
// are not errors.
func LoadSettings() (Settings, error) {
	settings := DefaultSettings()

	if err := mergeFile(&settings, NewXDGPathResolver().ConfigFile()); err != nil {
		return Settings{}, err
	}
	if err := mergeFile(&settings, "drydoc.toml"); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func mergeFile(settings *Settings, path string) error {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(content, settings); err != nil {
		return fmt.Errorf("invalid settings file %s: %w", path, err)
	}
	return nil
}
