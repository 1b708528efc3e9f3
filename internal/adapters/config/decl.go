// Package config loads drydoc's two configuration surfaces: the YAML
// declaration files that describe a build graph, and the TOML settings
// files that configure the tool itself.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/semio-ai/drydoc/internal/core/entities"
	"github.com/semio-ai/drydoc/internal/core/usecases"
)

// Ensure DeclLoader implements the usecases port.
var _ usecases.DeclLoader = (*DeclLoader)(nil)

// DeclLoader reads declaration files. Every string in the document passes
// through the $(...) command preprocessor, with the declaration file's
// directory as the working directory, before the tree is decoded.
type DeclLoader struct {
	preprocess bool
}

// NewDeclLoader creates a loader with preprocessing enabled.
func NewDeclLoader() *DeclLoader {
	return &DeclLoader{preprocess: true}
}

// WithoutPreprocessing disables $(...) substitution. For tests and trusted
// tooling paths only.
func (l *DeclLoader) WithoutPreprocessing() *DeclLoader {
	l.preprocess = false
	return l
}

// Load implements usecases.DeclLoader.
func (l *DeclLoader) Load(ctx context.Context, path string) (entities.Decl, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return entities.Decl{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return entities.Decl{}, fmt.Errorf("invalid declaration file %s: %w", path, err)
	}

	if l.preprocess {
		doc, err = Preprocess(ctx, doc, filepath.Dir(path))
		if err != nil {
			return entities.Decl{}, fmt.Errorf("failed to preprocess %s: %w", path, err)
		}
	}

	// The document is either {decl: <node>} or a bare node.
	if m, ok := doc.(map[string]any); ok {
		if inner, ok := m["decl"]; ok {
			doc = inner
		}
	}

	decl, err := decodeDecl(doc)
	if err != nil {
		return entities.Decl{}, fmt.Errorf("invalid declaration file %s: %w", path, err)
	}
	return decl, nil
}

// rawGenerate mirrors a generate node before recursion into children.
type rawGenerate struct {
	ID       string            `mapstructure:"id"`
	Using    string            `mapstructure:"using"`
	With     map[string]string `mapstructure:"with"`
	Children []any             `mapstructure:"children"`
}

// rawImport mirrors an import node.
type rawImport struct {
	Path string `mapstructure:"path"`
}

// decodeDecl turns one preprocessed YAML node into a Decl. The node kind
// is discriminated by its "type" key; a node without one is a generate
// node.
func decodeDecl(raw any) (entities.Decl, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return entities.Decl{}, fmt.Errorf("declaration node must be a mapping, got %T", raw)
	}

	kind := "generate"
	if t, ok := node["type"].(string); ok {
		kind = t
	}

	switch kind {
	case "import":
		var imp rawImport
		if err := decodeInto(node, &imp); err != nil {
			return entities.Decl{}, err
		}
		if imp.Path == "" {
			return entities.Decl{}, fmt.Errorf("import node is missing a path")
		}
		return entities.Decl{Import: &entities.ImportDecl{Path: imp.Path}}, nil

	case "generate":
		var gen rawGenerate
		if err := decodeInto(node, &gen); err != nil {
			return entities.Decl{}, err
		}
		out := entities.GenerateDecl{
			ID:    gen.ID,
			Using: gen.Using,
			With:  gen.With,
		}
		for i, child := range gen.Children {
			sub, err := decodeDecl(child)
			if err != nil {
				return entities.Decl{}, fmt.Errorf("child %d of %q: %w", i, gen.ID, err)
			}
			out.Children = append(out.Children, sub)
		}
		return entities.Decl{Generate: &out}, nil

	default:
		return entities.Decl{}, fmt.Errorf("unknown declaration type %q", kind)
	}
}

// decodeInto maps a YAML node onto a struct. Scalar parameter values
// (numbers, booleans) decode into the string-valued `with` map via their
// display form.
func decodeInto(raw map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     target,
		DecodeHook: scalarToStringHook,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("malformed declaration node: %w", err)
	}
	return nil
}

// scalarToStringHook renders non-string scalars targeted at string fields
// in their natural display form.
func scalarToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || from.Kind() == reflect.String {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%v", data), nil
	default:
		return data, nil
	}
}
