package filemodel

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDateFormat is the pattern assumed for date columns that do not
// declare their own.
const DefaultDateFormat = "yyyy-MM-dd"

// ValidationError rejects a malformed model before any command side effect.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid file model: " + e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ColumnType is a closed variant set: StringType, IntType, FloatType and
// DateType. A column is nullable when it carries at least one raw sentinel
// string that stands for "no value".
type ColumnType interface {
	TypeName() string
	NullSentinels() []string
	IsNullable() bool

	columnType()
}

type StringType struct {
	NullValues []string
}

func (t StringType) TypeName() string        { return "string" }
func (t StringType) NullSentinels() []string { return t.NullValues }
func (t StringType) IsNullable() bool        { return len(t.NullValues) > 0 }
func (t StringType) columnType()             {}

type IntType struct {
	Format     string
	NullValues []string
}

func (t IntType) TypeName() string        { return "int" }
func (t IntType) NullSentinels() []string { return t.NullValues }
func (t IntType) IsNullable() bool        { return len(t.NullValues) > 0 }
func (t IntType) columnType()             {}

type FloatType struct {
	Format     string
	NullValues []string
}

func (t FloatType) TypeName() string        { return "float" }
func (t FloatType) NullSentinels() []string { return t.NullValues }
func (t FloatType) IsNullable() bool        { return len(t.NullValues) > 0 }
func (t FloatType) columnType()             {}

type DateType struct {
	Format     string
	NullValues []string
}

func (t DateType) TypeName() string        { return "date" }
func (t DateType) NullSentinels() []string { return t.NullValues }
func (t DateType) IsNullable() bool        { return len(t.NullValues) > 0 }
func (t DateType) columnType()             {}

// NewDateType applies the default format when none is given.
func NewDateType(format string, nullValues []string) DateType {
	if format == "" {
		format = DefaultDateFormat
	}
	return DateType{Format: format, NullValues: nullValues}
}

type Column struct {
	Name         string
	Type         ColumnType
	IsIdentifier bool
}

func (c Column) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return validationErrorf("column name cannot be blank")
	}
	if c.Type == nil {
		return validationErrorf("column %q has no type", c.Name)
	}
	return nil
}

type FixedWidthColumn struct {
	Name         string
	Offset       int
	Width        int
	Type         ColumnType
	IsIdentifier bool
}

func (c FixedWidthColumn) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return validationErrorf("column name cannot be blank")
	}
	if c.Type == nil {
		return validationErrorf("column %q has no type", c.Name)
	}
	if c.Offset < 0 {
		return validationErrorf("column %q has invalid offset %d", c.Name, c.Offset)
	}
	if c.Width < 0 {
		return validationErrorf("column %q has invalid width %d", c.Name, c.Width)
	}
	return nil
}

// FileModel is a closed variant set: CsvFileModel or FixedWidthFileModel.
type FileModel interface {
	HeaderLines() int
	FooterLines() int
	Validate() error

	fileModel()
}

type CsvFileModel struct {
	NumHeaderLines int
	NumFooterLines int
	Delimiter      string
	Columns        []Column
}

func (m CsvFileModel) HeaderLines() int { return m.NumHeaderLines }
func (m CsvFileModel) FooterLines() int { return m.NumFooterLines }
func (m CsvFileModel) fileModel()       {}

func (m CsvFileModel) Validate() error {
	if m.NumHeaderLines < 0 {
		return validationErrorf("numHeaderLines cannot be negative: %d", m.NumHeaderLines)
	}
	if m.NumFooterLines < 0 {
		return validationErrorf("numFooterLines cannot be negative: %d", m.NumFooterLines)
	}
	if m.Delimiter == "" {
		return validationErrorf("delimiter cannot be empty")
	}
	if len(m.Columns) == 0 {
		return validationErrorf("columns must not be empty")
	}
	for _, col := range m.Columns {
		if err := col.validate(); err != nil {
			return err
		}
	}
	return nil
}

// NewCsvFileModel builds a validated csv model.
func NewCsvFileModel(numHeaderLines, numFooterLines int, delimiter string, columns []Column) (CsvFileModel, error) {
	m := CsvFileModel{
		NumHeaderLines: numHeaderLines,
		NumFooterLines: numFooterLines,
		Delimiter:      delimiter,
		Columns:        columns,
	}
	if err := m.Validate(); err != nil {
		return CsvFileModel{}, err
	}
	return m, nil
}

type FixedWidthFileModel struct {
	NumHeaderLines int
	NumFooterLines int
	Columns        []FixedWidthColumn
}

func (m FixedWidthFileModel) HeaderLines() int { return m.NumHeaderLines }
func (m FixedWidthFileModel) FooterLines() int { return m.NumFooterLines }
func (m FixedWidthFileModel) fileModel()       {}

func (m FixedWidthFileModel) Validate() error {
	if m.NumHeaderLines < 0 {
		return validationErrorf("numHeaderLines cannot be negative: %d", m.NumHeaderLines)
	}
	if m.NumFooterLines < 0 {
		return validationErrorf("numFooterLines cannot be negative: %d", m.NumFooterLines)
	}
	if len(m.Columns) == 0 {
		return validationErrorf("columns must not be empty")
	}
	for _, col := range m.Columns {
		if err := col.validate(); err != nil {
			return err
		}
	}
	return nil
}

// NewFixedWidthFileModel builds a validated fixed-width model.
func NewFixedWidthFileModel(numHeaderLines, numFooterLines int, columns []FixedWidthColumn) (FixedWidthFileModel, error) {
	m := FixedWidthFileModel{
		NumHeaderLines: numHeaderLines,
		NumFooterLines: numFooterLines,
		Columns:        columns,
	}
	if err := m.Validate(); err != nil {
		return FixedWidthFileModel{}, err
	}
	return m, nil
}

// VersionedFileModel is the append-only unit of record. VersionID, FileID,
// CreatedAt, CreatedBy and Model never change after creation; Active and
// InactiveReconDate only change by superseding the version with a new one.
type VersionedFileModel struct {
	FileID            int64
	VersionID         int64
	Active            bool
	ActiveReconDate   time.Time
	InactiveReconDate *time.Time
	CreatedAt         time.Time
	CreatedBy         string
	Model             FileModel
}
