package config

import (
	"os"
	"path/filepath"
)

// XDGPathResolver resolves application directories per the XDG Base
// Directory Specification, with DRYDOC_* env overrides.
type XDGPathResolver struct{}

// NewXDGPathResolver creates a path resolver.
func NewXDGPathResolver() *XDGPathResolver {
	return &XDGPathResolver{}
}

// ConfigDir returns the configuration directory.
// Resolution: DRYDOC_CONFIG_HOME → XDG_CONFIG_HOME/drydoc → ~/.config/drydoc
func (r *XDGPathResolver) ConfigDir() string {
	if dir := os.Getenv("DRYDOC_CONFIG_HOME"); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "drydoc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "drydoc")
}

// ConfigFile returns the path of the global settings file.
func (r *XDGPathResolver) ConfigFile() string {
	return filepath.Join(r.ConfigDir(), "config.toml")
}

// CacheDir returns the cache directory.
// Resolution: XDG_CACHE_HOME/drydoc → ~/.cache/drydoc
func (r *XDGPathResolver) CacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "drydoc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "drydoc")
}

// DefaultStoreDir returns the default package store, ~/.drydoc/repository.
func (r *XDGPathResolver) DefaultStoreDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".drydoc", "repository")
}
