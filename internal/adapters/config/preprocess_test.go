package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess_LeavesPlainValuesAlone(t *testing.T) {
	doc := map[string]any{
		"id":    "docs",
		"count": 3,
		"flag":  true,
		"list":  []any{"a", "b"},
	}

	out, err := Preprocess(context.Background(), doc, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestPreprocess_SubstitutesCommandOutput(t *testing.T) {
	doc := map[string]any{
		"with": map[string]any{"greeting": "$(echo hello world)"},
	}

	out, err := Preprocess(context.Background(), doc, t.TempDir())
	require.NoError(t, err)

	with := out.(map[string]any)["with"].(map[string]any)
	assert.Equal(t, "hello world", with["greeting"])
}

func TestPreprocess_SubstitutesInsideLargerString(t *testing.T) {
	doc := map[string]any{"path": "prefix-$(echo mid)-suffix"}

	out, err := Preprocess(context.Background(), doc, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "prefix-mid-suffix", out.(map[string]any)["path"])
}

func TestPreprocess_PreprocessesKeys(t *testing.T) {
	doc := map[string]any{"$(echo key)": "value"}

	out, err := Preprocess(context.Background(), doc, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "value", out.(map[string]any)["key"])
}

func TestPreprocess_MissingBinaryFails(t *testing.T) {
	doc := map[string]any{"x": "$(no-such-binary-drydoc-test)"}

	_, err := Preprocess(context.Background(), doc, t.TempDir())
	assert.Error(t, err)
}

func TestPreprocess_EmptySubstitutionFails(t *testing.T) {
	doc := map[string]any{"x": "$()"}

	_, err := Preprocess(context.Background(), doc, t.TempDir())
	assert.Error(t, err)
}
