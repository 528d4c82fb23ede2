package filemodel

import (
	"errors"
	"testing"
)

func intColumn(name string) Column {
	return Column{Name: name, Type: IntType{}}
}

func TestNewCsvFileModel_Valid(t *testing.T) {
	m, err := NewCsvFileModel(1, 0, ",", []Column{intColumn("accountId")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.HeaderLines() != 1 || m.FooterLines() != 0 {
		t.Fatalf("header/footer = %d/%d, want 1/0", m.HeaderLines(), m.FooterLines())
	}
}

func TestNewCsvFileModel_Invalid(t *testing.T) {
	cases := []struct {
		name      string
		header    int
		footer    int
		delimiter string
		columns   []Column
	}{
		{"negative header lines", -1, 0, ",", []Column{intColumn("a")}},
		{"negative footer lines", 0, -2, ",", []Column{intColumn("a")}},
		{"empty delimiter", 0, 0, "", []Column{intColumn("a")}},
		{"no columns", 0, 0, ",", nil},
		{"blank column name", 0, 0, ",", []Column{intColumn("   ")}},
		{"nil column type", 0, 0, ",", []Column{{Name: "a"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCsvFileModel(tc.header, tc.footer, tc.delimiter, tc.columns)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %T, want *ValidationError", err)
			}
		})
	}
}

func TestNewFixedWidthFileModel_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		columns []FixedWidthColumn
	}{
		{"no columns", nil},
		{"negative offset", []FixedWidthColumn{{Name: "a", Offset: -1, Width: 5, Type: StringType{}}}},
		{"negative width", []FixedWidthColumn{{Name: "a", Offset: 0, Width: -5, Type: StringType{}}}},
		{"blank name", []FixedWidthColumn{{Name: " ", Offset: 0, Width: 5, Type: StringType{}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFixedWidthFileModel(0, 0, tc.columns)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestColumnType_Nullability(t *testing.T) {
	if (StringType{}).IsNullable() {
		t.Fatal("no sentinels should mean not nullable")
	}
	ct := IntType{NullValues: []string{""}}
	if !ct.IsNullable() {
		t.Fatal("sentinel list should mean nullable")
	}
	if got := ct.NullSentinels(); len(got) != 1 || got[0] != "" {
		t.Fatalf("sentinels = %v, want [\"\"]", got)
	}
}

func TestNewDateType_DefaultFormat(t *testing.T) {
	if got := NewDateType("", nil).Format; got != DefaultDateFormat {
		t.Fatalf("format = %q, want %q", got, DefaultDateFormat)
	}
	if got := NewDateType("dd/MM/yyyy", nil).Format; got != "dd/MM/yyyy" {
		t.Fatalf("format = %q, want dd/MM/yyyy", got)
	}
}
