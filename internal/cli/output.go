package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hindsight-ai/memctl/internal/config"
)

// Output format names accepted by --output and output.default_format.
const (
	formatTable  = "table"
	formatJSON   = "json"
	formatNDJSON = "ndjson"
)

// countPrinter renders large counts with locale separators (12,345).
var countPrinter = message.NewPrinter(language.English) //nolint:gochecknoglobals // Shared formatter.

// validateOutputFormat rejects unknown format names.
func validateOutputFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatNDJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q (expected table, json, or ndjson)", format)
	}
}

// outputFormat resolves the effective format for this invocation.
func outputFormat() string {
	return config.GetDefaultOutputFormat()
}

// renderJSON writes v as indented JSON.
func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderNDJSON writes one compact JSON document per item.
func renderNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// table accumulates rows and renders them aligned with tabwriter.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header ...string) *table {
	return &table{header: header}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// renderList writes a page of items in the configured format. toRow is
// used only for the table format; footer (optional) prints after the
// table, typically a pagination summary.
func renderList[T any](cmd *cobra.Command, items []T, header []string, toRow func(T) []string, footer string) error {
	out := cmd.OutOrStdout()

	switch outputFormat() {
	case formatJSON:
		return renderJSON(out, items)
	case formatNDJSON:
		return renderNDJSON(out, items)
	default:
		if len(items) == 0 {
			cmd.Println("No results.")
			return nil
		}
		t := newTable(header...)
		for _, item := range items {
			t.addRow(toRow(item)...)
		}
		if err := t.render(out); err != nil {
			return err
		}
		if footer != "" {
			cmd.Println(footer)
		}
		return nil
	}
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// truncateCell shortens long text for table cells.
func truncateCell(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
