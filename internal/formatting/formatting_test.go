package formatting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"table", FormatTable, false},
		{"", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"object", map[string]any{"name": "test", "value": 42}, "{\n  \"name\": \"test\",\n  \"value\": 42\n}"},
		{"array", []string{"a", "b"}, "[\n  \"a\",\n  \"b\"\n]"},
		{"string", "hello", "\"hello\""},
		{"nil", nil, "null"},
		{"unmarshalable", make(chan int), "0x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrettyJSON(tt.input)
			if tt.name == "unmarshalable" {
				assert.True(t, strings.HasPrefix(got, tt.expected))
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWriteJSONAndYAML(t *testing.T) {
	data := struct {
		OK   bool           `json:"ok"`
		Data map[string]any `json:"data"`
	}{OK: true, Data: map[string]any{"job": "j1"}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, data))
	assert.JSONEq(t, `{"ok":true,"data":{"job":"j1"}}`, buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatYAML, data))
	assert.Equal(t, "data:\n  job: j1\nok: true\n", buf.String())
}

func TestWriteTableObject(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, map[string]any{"beta": 2, "alpha": "x"}))

	out := buf.String()
	assert.Contains(t, out, "KEY")
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "beta"))
}

func TestWriteTableNestedList(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"subscriptions": []any{
		map[string]any{"id": "s1", "name": "Prod"},
		map[string]any{"id": "s2"},
	}}
	require.NoError(t, Write(&buf, FormatTable, data))

	out := buf.String()
	assert.Contains(t, out, "subscriptions")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "s2")
	assert.Contains(t, out, "Total:")
}

func TestWriteTableScalarsAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, []any{"line one", "line two"}))
	assert.Contains(t, buf.String(), "2. line two")

	buf.Reset()
	require.NoError(t, Write(&buf, FormatTable, []any{}))
	assert.Contains(t, buf.String(), "No items found")
}

func TestCellTruncates(t *testing.T) {
	long := strings.Repeat("x", 150)
	got := Cell(long)
	assert.Len(t, got, maxCellWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, `{"a":1}`, Cell(map[string]any{"a": 1}))
	assert.Equal(t, "", Cell(nil))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world this is long", 15, "hello world ..."},
		{"multiline", "line one\n\tline two", 40, "line one line two"},
		{"unicode", "héllo wörld ünïcode", 10, "héllo w..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.input, tt.maxLen))
		})
	}
}
