package filemodel

import (
	"encoding/json"
	"fmt"
)

const (
	avroNamespace  = "registry.filemodels"
	avroRecordName = "FileModel"
)

// AvroSchema is the exported record-shaped descriptor. Field types are either
// a bare type name, an int/date logical type object, or a ["null", base]
// union for nullable columns.
type AvroSchema struct {
	Namespace string      `json:"namespace"`
	Type      string      `json:"type"`
	Name      string      `json:"name"`
	Fields    []AvroField `json:"fields"`
}

type AvroField struct {
	Name string `json:"name"`
	Type any    `json:"type"`
}

// ToAvroSchema is a pure function of the model; field order mirrors column
// order.
func ToAvroSchema(m FileModel) (AvroSchema, error) {
	schema := AvroSchema{
		Namespace: avroNamespace,
		Type:      "record",
		Name:      avroRecordName,
	}

	switch fm := m.(type) {
	case CsvFileModel:
		for _, col := range fm.Columns {
			ft, err := avroFieldType(col.Type)
			if err != nil {
				return AvroSchema{}, err
			}
			schema.Fields = append(schema.Fields, AvroField{Name: col.Name, Type: ft})
		}
	case FixedWidthFileModel:
		for _, col := range fm.Columns {
			ft, err := avroFieldType(col.Type)
			if err != nil {
				return AvroSchema{}, err
			}
			schema.Fields = append(schema.Fields, AvroField{Name: col.Name, Type: ft})
		}
	default:
		return AvroSchema{}, fmt.Errorf("unknown file model variant %T", m)
	}

	return schema, nil
}

// ToAvroJSON renders the descriptor as a JSON document.
func ToAvroJSON(m FileModel) ([]byte, error) {
	schema, err := ToAvroSchema(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(schema)
}

func avroFieldType(t ColumnType) (any, error) {
	var base any
	switch t.(type) {
	case StringType:
		base = "string"
	case IntType:
		base = "int"
	case FloatType:
		base = "double"
	case DateType:
		base = map[string]string{"type": "int", "logicalType": "date"}
	default:
		return nil, fmt.Errorf("unknown column type variant %T", t)
	}

	if t.IsNullable() {
		return []any{"null", base}, nil
	}
	return base, nil
}
