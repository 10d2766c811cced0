package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"table", false},
		{"json", false},
		{"ndjson", false},
		{"yaml", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validateOutputFormat(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTable("ID", "NAME")
	tbl.addRow("a-1", "alpha")
	tbl.addRow("b-2", "beta")

	require.NoError(t, tbl.render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "alpha")
	assert.Contains(t, lines[2], "beta")
}

func TestRenderNDJSON(t *testing.T) {
	type row struct {
		ID string `json:"id"`
	}

	var buf bytes.Buffer
	require.NoError(t, renderNDJSON(&buf, []row{{ID: "a"}, {ID: "b"}}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for i, want := range []string{"a", "b"} {
		var got row
		require.NoError(t, json.Unmarshal([]byte(lines[i]), &got))
		assert.Equal(t, want, got.ID)
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "999", formatCount(999))
	assert.Equal(t, "12,345", formatCount(12345))
	assert.Equal(t, "1,000,000", formatCount(1000000))
}

func TestTruncateCell(t *testing.T) {
	assert.Equal(t, "short", truncateCell("short", 10))
	assert.Equal(t, "multi line", truncateCell("multi\nline", 20))
	assert.Equal(t, "0123456...", truncateCell("0123456789abc", 10))
}

func TestTruncateCellMultibyte(t *testing.T) {
	// Truncation counts runes, never splitting a multi-byte sequence.
	assert.Equal(t, "日本語のメモリー...", truncateCell("日本語のメモリーブロックの内容", 11))
	assert.Equal(t, "héllo", truncateCell("héllo", 5))
	assert.True(t, utf8.ValidString(truncateCell("éééééééééééé", 6)))
}
