package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetTriple(t *testing.T) {
	triple, err := ParseTargetTriple("x86_64-unknown-linux-gnu")
	require.NoError(t, err)
	assert.Equal(t, "x86_64", triple.Machine)
	assert.Equal(t, "unknown", triple.Vendor)
	// Everything past the second separator belongs to the OS.
	assert.Equal(t, "linux-gnu", triple.OS)
	assert.Equal(t, "x86_64-unknown-linux-gnu", triple.String())
}

func TestParseTargetTriple_ThreeParts(t *testing.T) {
	triple, err := ParseTargetTriple("aarch64-apple-darwin")
	require.NoError(t, err)
	assert.Equal(t, TargetTriple{Machine: "aarch64", Vendor: "apple", OS: "darwin"}, triple)
}

func TestParseTargetTriple_Invalid(t *testing.T) {
	_, err := ParseTargetTriple("x86_64-linux")
	assert.Error(t, err)
}

func TestHostTriple(t *testing.T) {
	triple := HostTriple()
	assert.NotEmpty(t, triple.Machine)
	assert.NotEmpty(t, triple.Vendor)
	assert.NotEmpty(t, triple.OS)
}
