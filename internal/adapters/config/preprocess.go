package config

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// cmdPattern matches $(...) command substitutions inside scalar values.
var cmdPattern = regexp.MustCompile(`\$\(.*\)`)

// Preprocess walks a decoded YAML document and replaces every $(...)
// substring with the trimmed stdout of running that command in workDir.
// Map keys are preprocessed like values.
func Preprocess(ctx context.Context, doc any, workDir string) (any, error) {
	switch v := doc.(type) {
	case map[string]any:
		next := make(map[string]any, len(v))
		for key, value := range v {
			newKey, err := preprocessString(ctx, key, workDir)
			if err != nil {
				return nil, err
			}
			newValue, err := Preprocess(ctx, value, workDir)
			if err != nil {
				return nil, err
			}
			next[newKey] = newValue
		}
		return next, nil

	case []any:
		next := make([]any, len(v))
		for i, item := range v {
			newItem, err := Preprocess(ctx, item, workDir)
			if err != nil {
				return nil, err
			}
			next[i] = newItem
		}
		return next, nil

	case string:
		return preprocessString(ctx, v, workDir)

	default:
		return doc, nil
	}
}

func preprocessString(ctx context.Context, s, workDir string) (string, error) {
	var substErr error
	result := cmdPattern.ReplaceAllStringFunc(s, func(match string) string {
		if substErr != nil {
			return match
		}
		out, err := execute(ctx, match[2:len(match)-1], workDir)
		if err != nil {
			substErr = err
			return match
		}
		return out
	})
	if substErr != nil {
		return "", substErr
	}
	return result, nil
}

// execute runs one substituted command in workDir and returns its trimmed
// stdout. The binary is located through PATH.
func execute(ctx context.Context, cmdline, workDir string) (string, error) {
	args := strings.Fields(cmdline)
	if len(args) == 0 {
		return "", fmt.Errorf("empty command substitution")
	}

	bin, err := exec.LookPath(args[0])
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", args[0], err)
	}

	cmd := exec.CommandContext(ctx, bin, args[1:]...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("command substitution %q failed: %w", cmdline, err)
	}
	return strings.TrimSpace(string(out)), nil
}
