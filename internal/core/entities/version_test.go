package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 2, Patch: 3}, v)
	assert.Equal(t, "1.2.3", v.String())
}

func TestParseVersion_Invalid(t *testing.T) {
	for _, input := range []string{"", "1", "1.2", "1.2.3.4", "v1.2.3", "a.b.c"} {
		_, err := ParseVersion(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestVersion_RoundTripsThroughDisplayForm(t *testing.T) {
	v := Version{Major: 10, Minor: 0, Patch: 7}
	parsed, err := ParseVersion(v.String())
	require.NoError(t, err)
	assert.Equal(t, v, parsed)
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.9.9", 1},
		{"0.9.0", "1.0.0", -1},
	}
	for _, tt := range tests {
		a := MustParseVersion(tt.a)
		b := MustParseVersion(tt.b)
		assert.Equal(t, tt.want, a.Compare(b), "%s vs %s", tt.a, tt.b)
	}
}

func TestVersionReq_Matches(t *testing.T) {
	tests := []struct {
		req     string
		version string
		want    bool
	}{
		{"*", "0.1.0", true},
		{"*", "2.0.0", true},
		{"^1", "1.1.0", true},
		{"^1", "2.0.0", false},
		{"~1.2", "1.2.9", true},
		{"~1.2", "1.3.0", false},
		{">=1.0.0", "1.0.0", true},
		{"<1.0.0", "1.0.0", false},
		{"3", "2.0.0", false},
	}
	for _, tt := range tests {
		req, err := ParseVersionReq(tt.req)
		require.NoError(t, err, "req %q", tt.req)
		assert.Equal(t, tt.want, req.Matches(MustParseVersion(tt.version)),
			"%q vs %s", tt.req, tt.version)
	}
}

func TestVersionReq_TextRoundTrip(t *testing.T) {
	req, err := ParseVersionReq("^1.2")
	require.NoError(t, err)

	text, err := req.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "^1.2", string(text))

	var back VersionReq
	require.NoError(t, back.UnmarshalText(text))
	assert.True(t, back.Matches(MustParseVersion("1.3.0")))
}
