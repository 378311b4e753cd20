package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Version
		wantErr bool
	}{
		{input: "1.0.0", want: Version{1, 0, 0}},
		{input: "0.12.345", want: Version{0, 12, 345}},
		{input: "1.0", wantErr: true},
		{input: "1.0.0-rc1", wantErr: true},
		{input: "v1.0.0", wantErr: true},
		{input: "", wantErr: true},
		{input: "one.two.three", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext(t *testing.T) {
	v := Version{Major: 2, Minor: 3, Patch: 7}

	assert.Equal(t, "2.3.8", v.Next(BumpPatch).String())
	assert.Equal(t, "2.4.0", v.Next(BumpMinor).String())
	assert.Equal(t, "3.0.0", v.Next(BumpMajor).String())
}

func TestNextIsMonotonic(t *testing.T) {
	v := Initial()
	for i := 1; i <= 5; i++ {
		v = v.Next(BumpPatch)
		assert.Equal(t, i, v.Patch)
		assert.Equal(t, 1, v.Major)
		assert.Equal(t, 0, v.Minor)
	}
}

func TestParseBump(t *testing.T) {
	for input, want := range map[string]Bump{
		"":      BumpPatch,
		"patch": BumpPatch,
		"minor": BumpMinor,
		"major": BumpMajor,
	} {
		got, err := ParseBump(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseBump("huge")
	assert.Error(t, err)
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "1.0.0", Initial().String())
}
