// Package formatting renders command output for the cloud-cli-mcp CLI.
//
// Three formats are supported: JSON (indented), YAML and a rounded go-pretty
// table. Tables flatten the shapes tool results usually take: an object
// becomes KEY/VALUE rows, a list of objects becomes one row per item with the
// union of their keys as columns, and anything else is printed as-is.
package formatting

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatTable OutputFormat = "table"
)

const maxCellWidth = 100

// ParseFormat validates a user supplied --output value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use json, yaml or table)", s)
	}
}

// PrettyJSON formats any value as indented JSON, falling back to %v if it
// cannot be marshalled.
func PrettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// Write renders data to w in the given format.
func Write(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case FormatJSON:
		_, err := fmt.Fprintln(w, PrettyJSON(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(normalize(data)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return writeTable(w, normalize(data))
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// NewTable returns a table writer with the standard styling.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// Header builds a coloured header row.
func Header(names ...string) table.Row {
	row := make(table.Row, len(names))
	for i, n := range names {
		row[i] = text.FgHiCyan.Sprint(strings.ToUpper(n))
	}
	return row
}

func writeTable(w io.Writer, data any) error {
	switch v := data.(type) {
	case map[string]any:
		return writeObject(w, v)
	case []any:
		return writeList(w, v)
	case nil:
		_, err := fmt.Fprintln(w, text.FgYellow.Sprint("No data"))
		return err
	default:
		_, err := fmt.Fprintln(w, Cell(v))
		return err
	}
}

func writeObject(w io.Writer, obj map[string]any) error {
	// A single nested list (e.g. {"subscriptions": [...]}) reads better as
	// its own table.
	if len(obj) == 1 {
		for key, v := range obj {
			if list, ok := v.([]any); ok {
				fmt.Fprintln(w, text.FgHiBlue.Sprint(key))
				return writeList(w, list)
			}
		}
	}

	t := NewTable(w)
	t.AppendHeader(Header("key", "value"))
	for _, key := range sortedKeys(obj) {
		t.AppendRow(table.Row{text.FgHiCyan.Sprint(key), Cell(obj[key])})
	}
	t.Render()
	return nil
}

func writeList(w io.Writer, list []any) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, text.FgYellow.Sprint("No items found"))
		return err
	}

	columns := listColumns(list)
	if columns == nil {
		for i, item := range list {
			fmt.Fprintf(w, "  %d. %s\n", i+1, Cell(item))
		}
		return nil
	}

	t := NewTable(w)
	t.AppendHeader(Header(columns...))
	for _, item := range list {
		obj := item.(map[string]any)
		row := make(table.Row, len(columns))
		for i, c := range columns {
			row[i] = Cell(obj[c])
		}
		t.AppendRow(row)
	}
	t.Render()
	fmt.Fprintf(w, "%s %s\n", text.FgHiBlue.Sprint("Total:"), text.FgHiWhite.Sprint(len(list)))
	return nil
}

// listColumns returns the sorted union of keys when every item is an
// object, or nil otherwise.
func listColumns(list []any) []string {
	seen := map[string]bool{}
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		for k := range obj {
			seen[k] = true
		}
	}
	return sortedKeys(seen)
}

// Cell renders a single value for a table cell, truncating long values.
func Cell(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		s = ""
	case string:
		s = x
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		s = string(b)
	default:
		s = fmt.Sprintf("%v", x)
	}
	return truncate(s, maxCellWidth)
}

// truncate collapses whitespace so the value stays on one line and cuts it
// to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// normalize round-trips typed values through JSON so tables and YAML see
// the same generic maps and slices the JSON output does.
func normalize(data any) any {
	switch data.(type) {
	case nil, string, map[string]any, []any:
		return data
	}
	b, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return data
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
