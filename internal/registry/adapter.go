package registry

import (
	"fmt"
	"regexp"

	"filemodel-registry/internal/filemodel"
)

// AdaptError is fatal for the version under adaptation: the read is aborted
// rather than returning a partially populated model.
type AdaptError struct {
	FileID    int64
	VersionID int64
	Reason    string
}

func (e *AdaptError) Error() string {
	return fmt.Sprintf("cannot adapt file model fileId=%d version=%d: %s", e.FileID, e.VersionID, e.Reason)
}

func adaptErrorf(row FileModelHistory, format string, args ...any) error {
	return &AdaptError{FileID: row.FileID, VersionID: row.Version, Reason: fmt.Sprintf(format, args...)}
}

var dateFormatPattern = regexp.MustCompile(`date:"([^"]+)"`)

// toVersionedFileModel adapts one header row plus its position-ordered column
// rows into the domain model.
func toVersionedFileModel(row FileModelHistory, cols []FileModelColumn) (filemodel.VersionedFileModel, error) {
	var model filemodel.FileModel

	switch row.Type {
	case rowTypeCsv:
		if row.Delimiter == nil {
			return filemodel.VersionedFileModel{}, adaptErrorf(row, "null delimiter in csv file model")
		}
		columns := make([]filemodel.Column, 0, len(cols))
		for _, col := range cols {
			ct, err := adaptColumnType(row, col)
			if err != nil {
				return filemodel.VersionedFileModel{}, err
			}
			columns = append(columns, filemodel.Column{
				Name:         col.Name,
				Type:         ct,
				IsIdentifier: col.Identifier,
			})
		}
		model = filemodel.CsvFileModel{
			NumHeaderLines: row.HeaderLines,
			NumFooterLines: row.FooterLines,
			Delimiter:      *row.Delimiter,
			Columns:        columns,
		}
	case rowTypeFixedWidth:
		columns := make([]filemodel.FixedWidthColumn, 0, len(cols))
		for _, col := range cols {
			ct, err := adaptColumnType(row, col)
			if err != nil {
				return filemodel.VersionedFileModel{}, err
			}
			columns = append(columns, filemodel.FixedWidthColumn{
				Name:         col.Name,
				Offset:       col.Position,
				Width:        col.Length,
				Type:         ct,
				IsIdentifier: col.Identifier,
			})
		}
		model = filemodel.FixedWidthFileModel{
			NumHeaderLines: row.HeaderLines,
			NumFooterLines: row.FooterLines,
			Columns:        columns,
		}
	default:
		return filemodel.VersionedFileModel{}, adaptErrorf(row, "unknown model type %q", row.Type)
	}

	return filemodel.VersionedFileModel{
		FileID:            row.FileID,
		VersionID:         row.Version,
		Active:            row.Active,
		ActiveReconDate:   decodeGlobalDate(row.ActiveReconDate),
		InactiveReconDate: decodeGlobalDatePtr(row.InactiveReconDate),
		CreatedAt:         row.Created,
		CreatedBy:         row.CreatedBy,
		Model:             model,
	}, nil
}

// adaptColumnType maps a coarse row data type onto the domain variant. The
// nullable flag seeds a single empty-string sentinel: "nullable" and "empty
// string is null" are deliberately the same thing here.
func adaptColumnType(row FileModelHistory, col FileModelColumn) (filemodel.ColumnType, error) {
	var nullValues []string
	if col.Nullable {
		nullValues = []string{""}
	}

	format := ""
	if col.Format != nil {
		format = *col.Format
	}

	switch col.DataType {
	case dataTypeString:
		return filemodel.StringType{NullValues: nullValues}, nil
	case dataTypeInteger:
		return filemodel.IntType{NullValues: nullValues}, nil
	case dataTypeDouble:
		return filemodel.FloatType{NullValues: nullValues}, nil
	case dataTypeDate:
		dateFmt := ""
		if m := dateFormatPattern.FindStringSubmatch(format); m != nil {
			dateFmt = m[1]
		}
		return filemodel.NewDateType(dateFmt, nullValues), nil
	default:
		return nil, adaptErrorf(row, "unknown column data type %q for column %q", col.DataType, col.Name)
	}
}

// toRows adapts a domain version into its header and column rows.
func toRows(v filemodel.VersionedFileModel) (FileModelHistory, []FileModelColumn, error) {
	row := FileModelHistory{
		Version:           v.VersionID,
		FileID:            v.FileID,
		ActiveReconDate:   encodeGlobalDate(v.ActiveReconDate),
		InactiveReconDate: encodeGlobalDatePtr(v.InactiveReconDate),
		Active:            v.Active,
		Created:           v.CreatedAt,
		CreatedBy:         v.CreatedBy,
		Useable:           true,
	}

	var cols []FileModelColumn

	switch fm := v.Model.(type) {
	case filemodel.CsvFileModel:
		row.Type = rowTypeCsv
		delim := fm.Delimiter
		row.Delimiter = &delim
		row.HeaderLines = fm.NumHeaderLines
		row.FooterLines = fm.NumFooterLines
		for i, col := range fm.Columns {
			colRow, err := toColumnRow(v.VersionID, i, 0, col.Name, col.Type, col.IsIdentifier)
			if err != nil {
				return FileModelHistory{}, nil, err
			}
			cols = append(cols, colRow)
		}
	case filemodel.FixedWidthFileModel:
		row.Type = rowTypeFixedWidth
		row.HeaderLines = fm.NumHeaderLines
		row.FooterLines = fm.NumFooterLines
		for _, col := range fm.Columns {
			colRow, err := toColumnRow(v.VersionID, col.Offset, col.Width, col.Name, col.Type, col.IsIdentifier)
			if err != nil {
				return FileModelHistory{}, nil, err
			}
			cols = append(cols, colRow)
		}
	default:
		return FileModelHistory{}, nil, &AdaptError{
			FileID:    v.FileID,
			VersionID: v.VersionID,
			Reason:    fmt.Sprintf("unknown file model variant %T", v.Model),
		}
	}

	return row, cols, nil
}

func toColumnRow(versionID int64, position, length int, name string, t filemodel.ColumnType, identifier bool) (FileModelColumn, error) {
	row := FileModelColumn{
		FileModelVersion: versionID,
		Position:         position,
		Length:           length,
		Name:             name,
		Identifier:       identifier,
		Nullable:         t.IsNullable(),
	}

	switch ct := t.(type) {
	case filemodel.StringType:
		row.DataType = dataTypeString
	case filemodel.IntType:
		row.DataType = dataTypeInteger
		if ct.Format != "" {
			f := ct.Format
			row.Format = &f
		}
	case filemodel.FloatType:
		row.DataType = dataTypeDouble
		if ct.Format != "" {
			f := ct.Format
			row.Format = &f
		}
	case filemodel.DateType:
		row.DataType = dataTypeDate
		f := fmt.Sprintf("date:%q", ct.Format)
		row.Format = &f
	default:
		return FileModelColumn{}, fmt.Errorf("unknown column type variant %T for column %q", t, name)
	}

	return row, nil
}
