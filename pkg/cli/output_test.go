package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func sampleTable() *Table {
	table := &Table{Headers: []string{"plugin", "hooks"}}
	table.Append("style.go", "validateSentence")
	table.Append("headings.go", "preValidateSection,validateSection")
	return table
}

func TestTextFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&TextFormatter{}).FormatTo(buf, sampleTable()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "PLUGIN") || !strings.Contains(lines[0], "HOOKS") {
		t.Errorf("header = %q", lines[0])
	}
	// columns are aligned
	if strings.Index(lines[1], "validateSentence") != strings.Index(lines[2], "preValidateSection") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		indent bool
	}{
		{"compact", false},
		{"indented", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &JSONFormatter{Indent: tt.indent}
			if err := formatter.FormatTo(buf, sampleTable()); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}

			var result []map[string]string
			if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
				t.Fatalf("FormatTo() produced invalid JSON: %v", err)
			}
			if len(result) != 2 || result[0]["plugin"] != "style.go" {
				t.Errorf("result = %v", result)
			}
		})
	}
}

func TestJSONFormatter_EmptyTable(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&JSONFormatter{}).FormatTo(buf, &Table{Headers: []string{"id"}}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("FormatTo() = %q, want []", buf.String())
	}
}

func TestCSVFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&CSVFormatter{}).FormatTo(buf, sampleTable()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	want := "plugin,hooks\nstyle.go,validateSentence\nheadings.go,\"preValidateSection,validateSection\"\n"
	if buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}
}

func TestTable_RecordsShortRow(t *testing.T) {
	table := &Table{Headers: []string{"a", "b"}}
	table.Append("1")

	records := table.Records()
	if len(records) != 1 || records[0]["a"] != "1" || records[0]["b"] != "" {
		t.Errorf("Records() = %v", records)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
		want   string
	}{
		{"text formatter", FormatText, "*cli.TextFormatter"},
		{"json formatter", FormatJSON, "*cli.JSONFormatter"},
		{"csv formatter", FormatCSV, "*cli.CSVFormatter"},
		{"default to text", "unknown", "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fmt.Sprintf("%T", NewFormatter(tt.format))
			if got != tt.want {
				t.Errorf("NewFormatter(%q) type = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}
