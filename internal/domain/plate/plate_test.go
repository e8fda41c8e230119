package plate

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"legacy with dash", "abc-1234", "ABC1234"},
		{"mercosul lowercase", "abc1d23", "ABC1D23"},
		{"spaces and symbols", " a.b c/1 2 3 4 ", "ABC1234"},
		{"truncates at seven", "ABC1234999", "ABC1234"},
		{"drops digit in letter position", "A1BC1234", "ABC1234"},
		{"drops letter in digit position", "ABCD1234", "ABC1234"},
		{"drops letter at position five", "ABC1DX23", "ABC1D23"},
		{"partial typing", "ab", "AB"},
		{"empty", "", ""},
		{"accented letters dropped", "ÁBC1234", "BC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeNeverExceedsSevenCharsOrCharset(t *testing.T) {
	charset := regexp.MustCompile(`^[A-Z0-9]*$`)
	inputs := []string{
		"", "zzzzzzzzzzzzzzzz", "1234567890", "ABC-1D23-XYZ", "!!@@##", "abc 1 d 2 3 4 5 6",
		"Ç%ãõ12ab", "AAA9999AAA9999", "a-b-c-1-2-3-4",
	}
	for _, in := range inputs {
		out := Normalize(in)
		assert.LessOrEqual(t, len(out), MaxLen, "input %q", in)
		assert.Regexp(t, charset, out, "input %q", in)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("ABC1234"))
	assert.True(t, IsValid("ABC-1234"))
	assert.True(t, IsValid("ABC1D23"))
	assert.True(t, IsValid("abc1d23"))
	assert.False(t, IsValid("AB1234"))
	assert.False(t, IsValid("ABCD123"))
	assert.False(t, IsValid("ABC12345"))
	assert.False(t, IsValid(""))
}
