package guess

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"filemodel-registry/internal/filemodel"

	"github.com/xuri/excelize/v2"
)

// GuessService proposes a csv file model from a sample file. The result is a
// starting point for a create request, not a registered model.
type GuessService struct{}

var delimiterCandidates = []string{",", ";", "|", "\t"}

// dateLayouts maps Go parse layouts to the stored date format names. Numeric
// layouts like yyyyMMdd are left out so integer columns are not mistaken for
// dates.
var dateLayouts = []struct {
	layout string
	format string
}{
	{"2006-01-02", "yyyy-MM-dd"},
	{"02/01/2006", "dd/MM/yyyy"},
	{"01/02/2006", "MM/dd/yyyy"},
}

func (gs *GuessService) Guess(r io.Reader, filename string) (filemodel.CsvFileModel, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var headers []string
	var rows [][]string
	var delimiter string
	var err error

	switch ext {
	case ".xlsx", ".xls":
		delimiter = ","
		headers, rows, err = parseExcelSample(r)
	case ".csv", ".txt":
		headers, rows, delimiter, err = parseCSVSample(r)
	default:
		return filemodel.CsvFileModel{}, fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return filemodel.CsvFileModel{}, err
	}

	return buildModel(headers, rows, delimiter)
}

func parseCSVSample(r io.Reader) ([]string, [][]string, string, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, nil, "", fmt.Errorf("failed to read csv file: %w", err)
	}

	delimiter := sniffDelimiter(buf.String())

	reader := csv.NewReader(bytes.NewReader(buf.Bytes()))
	reader.Comma = []rune(delimiter)[0]
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to read csv file: %w", err)
	}
	if len(allRows) < 1 {
		return nil, nil, "", fmt.Errorf("csv file is empty")
	}

	return allRows[0], allRows[1:], delimiter, nil
}

func parseExcelSample(r io.Reader) ([]string, [][]string, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, nil, fmt.Errorf("failed to read excel file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 1 {
		return nil, nil, fmt.Errorf("excel file is empty")
	}

	return rows[0], rows[1:], nil
}

// sniffDelimiter counts candidate delimiters on the first line and takes the
// most frequent one, comma when nothing matches.
func sniffDelimiter(content string) string {
	firstLine := content
	if idx := strings.IndexAny(content, "\r\n"); idx >= 0 {
		firstLine = content[:idx]
	}

	best := ","
	bestCount := 0
	for _, candidate := range delimiterCandidates {
		if count := strings.Count(firstLine, candidate); count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

func buildModel(headers []string, rows [][]string, delimiter string) (filemodel.CsvFileModel, error) {
	if len(headers) == 0 {
		return filemodel.CsvFileModel{}, fmt.Errorf("sample file has no columns")
	}

	names := columnNames(headers)
	columns := make([]filemodel.Column, 0, len(headers))
	for i, name := range names {
		values := columnValues(rows, i)
		columns = append(columns, filemodel.Column{
			Name:         name,
			Type:         guessColumnType(values),
			IsIdentifier: looksLikeIdentifier(name),
		})
	}

	return filemodel.NewCsvFileModel(1, 0, delimiter, columns)
}

// columnNames trims headers, fills in blanks and deduplicates so the guessed
// model always passes validation.
func columnNames(headers []string) []string {
	names := make([]string, len(headers))
	seen := map[string]int{}

	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			names[i] = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			names[i] = name
		}
		seen[name]++
	}
	return names
}

func columnValues(rows [][]string, col int) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if col < len(row) {
			values = append(values, strings.TrimSpace(row[col]))
		} else {
			values = append(values, "")
		}
	}
	return values
}

// guessColumnType infers the narrowest type that accepts every sample value.
// Empty values mark the column nullable and do not participate in inference.
func guessColumnType(values []string) filemodel.ColumnType {
	var nonEmpty []string
	nullable := false
	for _, v := range values {
		if v == "" {
			nullable = true
			continue
		}
		nonEmpty = append(nonEmpty, v)
	}

	var nullValues []string
	if nullable {
		nullValues = []string{""}
	}

	if len(nonEmpty) == 0 {
		return filemodel.StringType{NullValues: nullValues}
	}

	if allParse(nonEmpty, func(v string) bool {
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	}) {
		return filemodel.IntType{NullValues: nullValues}
	}

	if allParse(nonEmpty, func(v string) bool {
		_, err := strconv.ParseFloat(v, 64)
		return err == nil
	}) {
		return filemodel.FloatType{NullValues: nullValues}
	}

	for _, dl := range dateLayouts {
		layout := dl.layout
		if allParse(nonEmpty, func(v string) bool {
			_, err := time.Parse(layout, v)
			return err == nil
		}) {
			return filemodel.NewDateType(dl.format, nullValues)
		}
	}

	return filemodel.StringType{NullValues: nullValues}
}

func allParse(values []string, ok func(string) bool) bool {
	for _, v := range values {
		if !ok(v) {
			return false
		}
	}
	return true
}

func looksLikeIdentifier(name string) bool {
	lower := strings.ToLower(name)
	return lower == "id" || strings.HasSuffix(lower, "id")
}
