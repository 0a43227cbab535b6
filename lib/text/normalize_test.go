package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "collapse internal whitespace",
			input:    "2019  (2)\n SA\t343 (SCA)",
			expected: "2019 (2) SA 343 (SCA)",
		},
		{
			name:     "trim both ends",
			input:    "  Act 71 of 2008 \n",
			expected: "Act 71 of 2008",
		},
		{
			name:     "non-breaking space becomes a space",
			input:    "[2021] ZACC 13",
			expected: "[2021] ZACC 13",
		},
		{
			name:     "normalize unicode characters",
			input:    "x²",
			expected: "x2",
		},
		{
			name:     "only whitespace",
			input:    " \t\n ",
			expected: "",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Normalize(tt.input), tt.name)
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "res judicata", Fold("  Res   JUDICATA "))
}

func TestIsBlankAndValid(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \n\t"))
	assert.False(t, IsBlank(" a "))

	assert.True(t, Valid("Constitution"))
	assert.False(t, Valid(string([]byte{0xff, 0xfe, 0xfd})))
}
