package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "empty path",
			input:   "",
			wantErr: true,
		},
		{
			name:    "absolute path",
			input:   "/tmp/test",
			wantErr: false,
		},
		{
			name:    "home path",
			input:   "~/test",
			wantErr: false,
		},
		{
			name:    "relative path",
			input:   "exports",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotContains(t, got, "~")
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer reflection", 10, "a longe..."},
		{"abcdef", 3, "abc"},
		{"héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateString(tt.input, tt.maxLen))
		})
	}
}

func TestIsYes(t *testing.T) {
	assert.True(t, isYes("y"))
	assert.True(t, isYes("Y\n"))
	assert.False(t, isYes(""))
	assert.False(t, isYes("yes please"))
}

func TestPrintInfoBox(t *testing.T) {
	var buf bytes.Buffer

	printInfoBox(&buf, "Journal Statistics", [][2]string{{"Total", "3"}, {"Words", "42"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "Journal Statistics")
	assert.Contains(t, lines[3], "Total: 3")

	for _, l := range lines {
		assert.Len(t, []rune(l), boxWidth)
	}
}

func TestPrintEmptyResult(t *testing.T) {
	var buf bytes.Buffer

	printEmptyResult(&buf, "entries", addHint)

	assert.Equal(t, "No entries yet.\nCreate one with: journal add \"<text>\"\n", buf.String())
}
