package ui

import (
	"strings"
	"testing"

	"github.com/aidanlsb/cite/internal/model"
)

func TestStatusSymbol(t *testing.T) {
	tests := []struct {
		status model.ValidationStatus
		want   string
	}{
		{model.StatusValid, SymbolSuccess},
		{model.StatusWarning, SymbolWarning},
		{model.StatusError, SymbolError},
	}
	for _, tt := range tests {
		if got := StatusSymbol(tt.status); got != tt.want {
			t.Errorf("StatusSymbol(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
	if got := ExtractionSymbol(model.ExtractionSkipped); got != SymbolInfo {
		t.Errorf("ExtractionSymbol(skipped) = %q", got)
	}
}

func TestErrorWarningCounts(t *testing.T) {
	tests := []struct {
		errors, warnings int
		want             string
	}{
		{2, 1, "(2 errors, 1 warning)"},
		{1, 0, "(1 error)"},
		{0, 3, "(3 warnings)"},
	}
	for _, tt := range tests {
		if got := ErrorWarningCounts(tt.errors, tt.warnings); got != tt.want {
			t.Errorf("ErrorWarningCounts(%d, %d) = %q, want %q", tt.errors, tt.warnings, got, tt.want)
		}
	}
}

func TestTable(t *testing.T) {
	tbl := NewTable("LINE", "KIND")
	if tbl.String() != "" {
		t.Fatal("empty table should render nothing")
	}
	tbl.AddRow("1", "header")
	tbl.AddRow("12")

	out := tbl.String()
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d", tbl.Len())
	}
	for _, want := range []string{"LINE", "KIND", "header", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}
