package entities

import (
	"fmt"
	"strings"
)

// GenerateDecl is a build-graph node that invokes a generator package.
// "Using" names the generator as "name" or "name@versionReq"; "With" carries
// string parameters through to the generator untouched.
type GenerateDecl struct {
	ID       string            `mapstructure:"id"`
	Using    string            `mapstructure:"using"`
	With     map[string]string `mapstructure:"with"`
	Children []Decl            `mapstructure:"children"`
}

// ImportDecl pulls in another declaration file, resolved relative to the
// directory of the file that imports it.
type ImportDecl struct {
	Path string `mapstructure:"path"`
}

// Decl is one node of the declaration tree: either a generator invocation
// or an import of a further declaration file.
type Decl struct {
	Generate *GenerateDecl
	Import   *ImportDecl
}

// ParseUsing splits a "name" or "name@versionReq" generator reference. An
// absent requirement defaults to "*".
func ParseUsing(using string) (string, VersionReq, error) {
	name, reqStr, found := strings.Cut(using, "@")
	if name == "" {
		return "", VersionReq{}, fmt.Errorf("empty generator name in %q", using)
	}
	if !found {
		return name, AnyVersion(), nil
	}
	req, err := ParseVersionReq(reqStr)
	if err != nil {
		return "", VersionReq{}, fmt.Errorf("invalid generator reference %q: %w", using, err)
	}
	return name, req, nil
}
