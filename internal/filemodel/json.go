package filemodel

import (
	"encoding/json"
	"fmt"
)

// Wire representation of the tagged unions. Models are discriminated by a
// "type" property: csv|fixed for file models, string|int|float|date for
// column types.

type columnTypeDTO struct {
	Type       string   `json:"type"`
	Format     string   `json:"format,omitempty"`
	NullValues []string `json:"nullValues,omitempty"`
}

func columnTypeToDTO(t ColumnType) columnTypeDTO {
	switch ct := t.(type) {
	case StringType:
		return columnTypeDTO{Type: "string", NullValues: ct.NullValues}
	case IntType:
		return columnTypeDTO{Type: "int", Format: ct.Format, NullValues: ct.NullValues}
	case FloatType:
		return columnTypeDTO{Type: "float", Format: ct.Format, NullValues: ct.NullValues}
	case DateType:
		return columnTypeDTO{Type: "date", Format: ct.Format, NullValues: ct.NullValues}
	default:
		// closed variant set, unreachable for domain-built values
		return columnTypeDTO{Type: "string"}
	}
}

func (d columnTypeDTO) toDomain() (ColumnType, error) {
	switch d.Type {
	case "string":
		return StringType{NullValues: d.NullValues}, nil
	case "int":
		return IntType{Format: d.Format, NullValues: d.NullValues}, nil
	case "float":
		return FloatType{Format: d.Format, NullValues: d.NullValues}, nil
	case "date":
		return NewDateType(d.Format, d.NullValues), nil
	default:
		return nil, fmt.Errorf("unknown column type %q", d.Type)
	}
}

type columnJSON struct {
	Name         string        `json:"name"`
	Type         columnTypeDTO `json:"type"`
	IsIdentifier bool          `json:"isIdentifier"`
}

func (c Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(columnJSON{
		Name:         c.Name,
		Type:         columnTypeToDTO(c.Type),
		IsIdentifier: c.IsIdentifier,
	})
}

func (c *Column) UnmarshalJSON(data []byte) error {
	var raw columnJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ct, err := raw.Type.toDomain()
	if err != nil {
		return err
	}
	c.Name = raw.Name
	c.Type = ct
	c.IsIdentifier = raw.IsIdentifier
	return nil
}

type fixedWidthColumnJSON struct {
	Name         string        `json:"name"`
	Offset       int           `json:"offset"`
	Width        int           `json:"width"`
	Type         columnTypeDTO `json:"type"`
	IsIdentifier bool          `json:"isIdentifier"`
}

func (c FixedWidthColumn) MarshalJSON() ([]byte, error) {
	return json.Marshal(fixedWidthColumnJSON{
		Name:         c.Name,
		Offset:       c.Offset,
		Width:        c.Width,
		Type:         columnTypeToDTO(c.Type),
		IsIdentifier: c.IsIdentifier,
	})
}

func (c *FixedWidthColumn) UnmarshalJSON(data []byte) error {
	var raw fixedWidthColumnJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ct, err := raw.Type.toDomain()
	if err != nil {
		return err
	}
	c.Name = raw.Name
	c.Offset = raw.Offset
	c.Width = raw.Width
	c.Type = ct
	c.IsIdentifier = raw.IsIdentifier
	return nil
}

type csvFileModelJSON struct {
	Type           string   `json:"type"`
	NumHeaderLines int      `json:"numHeaderLines"`
	NumFooterLines int      `json:"numFooterLines"`
	Delimiter      string   `json:"delimiter"`
	Columns        []Column `json:"columns"`
}

type fixedWidthFileModelJSON struct {
	Type           string             `json:"type"`
	NumHeaderLines int                `json:"numHeaderLines"`
	NumFooterLines int                `json:"numFooterLines"`
	Columns        []FixedWidthColumn `json:"columns"`
}

// MarshalFileModel encodes a model with its "type" discriminator.
func MarshalFileModel(m FileModel) ([]byte, error) {
	switch fm := m.(type) {
	case CsvFileModel:
		return json.Marshal(csvFileModelJSON{
			Type:           "csv",
			NumHeaderLines: fm.NumHeaderLines,
			NumFooterLines: fm.NumFooterLines,
			Delimiter:      fm.Delimiter,
			Columns:        fm.Columns,
		})
	case FixedWidthFileModel:
		return json.Marshal(fixedWidthFileModelJSON{
			Type:           "fixed",
			NumHeaderLines: fm.NumHeaderLines,
			NumFooterLines: fm.NumFooterLines,
			Columns:        fm.Columns,
		})
	default:
		return nil, fmt.Errorf("unknown file model variant %T", m)
	}
}

// UnmarshalFileModel decodes a discriminated model. The result is not
// validated; callers run Validate before acting on it.
func UnmarshalFileModel(data []byte) (FileModel, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	switch envelope.Type {
	case "csv":
		var raw csvFileModelJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return CsvFileModel{
			NumHeaderLines: raw.NumHeaderLines,
			NumFooterLines: raw.NumFooterLines,
			Delimiter:      raw.Delimiter,
			Columns:        raw.Columns,
		}, nil
	case "fixed":
		var raw fixedWidthFileModelJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return FixedWidthFileModel{
			NumHeaderLines: raw.NumHeaderLines,
			NumFooterLines: raw.NumFooterLines,
			Columns:        raw.Columns,
		}, nil
	default:
		return nil, fmt.Errorf("unknown file model type %q", envelope.Type)
	}
}
