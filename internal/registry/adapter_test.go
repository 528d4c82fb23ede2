package registry

import (
	"errors"
	"testing"
	"time"

	"filemodel-registry/internal/filemodel"
)

func strPtr(s string) *string { return &s }

func headerRow(modelType string, delimiter *string) FileModelHistory {
	return FileModelHistory{
		Version:         7,
		FileID:          231,
		ActiveReconDate: 6606, // 2018-01-31
		Type:            modelType,
		Delimiter:       delimiter,
		HeaderLines:     1,
		FooterLines:     0,
		Active:          true,
		Created:         time.Date(2018, 1, 15, 10, 0, 0, 0, time.UTC),
		CreatedBy:       "dg",
		Useable:         true,
	}
}

func TestToVersionedFileModel_Csv(t *testing.T) {
	row := headerRow(rowTypeCsv, strPtr("|"))
	cols := []FileModelColumn{
		{FileModelVersion: 7, Position: 0, Name: "accountId", Identifier: true, Nullable: false, DataType: dataTypeInteger},
		{FileModelVersion: 7, Position: 1, Name: "note", Identifier: false, Nullable: true, DataType: dataTypeString},
	}

	vfm, err := toVersionedFileModel(row, cols)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if vfm.FileID != 231 || vfm.VersionID != 7 {
		t.Fatalf("identity mismatch: %+v", vfm)
	}
	if got := vfm.ActiveReconDate; !got.Equal(time.Date(2018, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("active recon date = %v", got)
	}
	if vfm.InactiveReconDate != nil {
		t.Fatalf("inactive recon date = %v, want nil", vfm.InactiveReconDate)
	}

	csv, ok := vfm.Model.(filemodel.CsvFileModel)
	if !ok {
		t.Fatalf("model = %T, want CsvFileModel", vfm.Model)
	}
	if csv.Delimiter != "|" {
		t.Fatalf("delimiter = %q", csv.Delimiter)
	}
	if csv.Columns[0].Name != "accountId" || !csv.Columns[0].IsIdentifier {
		t.Fatalf("column[0] = %+v", csv.Columns[0])
	}
	if _, ok := csv.Columns[0].Type.(filemodel.IntType); !ok {
		t.Fatalf("column[0] type = %T", csv.Columns[0].Type)
	}
}

func TestToVersionedFileModel_CsvNullDelimiterIsFatal(t *testing.T) {
	row := headerRow(rowTypeCsv, nil)

	_, err := toVersionedFileModel(row, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var aErr *AdaptError
	if !errors.As(err, &aErr) {
		t.Fatalf("err = %T, want *AdaptError", err)
	}
	if aErr.FileID != 231 || aErr.VersionID != 7 {
		t.Fatalf("error does not identify the version: %+v", aErr)
	}
}

func TestToVersionedFileModel_UnknownModelType(t *testing.T) {
	row := headerRow("XML", nil)

	_, err := toVersionedFileModel(row, nil)
	var aErr *AdaptError
	if !errors.As(err, &aErr) {
		t.Fatalf("err = %v, want *AdaptError", err)
	}
}

func TestToVersionedFileModel_UnknownDataTypeIsFatal(t *testing.T) {
	row := headerRow(rowTypeCsv, strPtr(","))
	cols := []FileModelColumn{
		{FileModelVersion: 7, Position: 0, Name: "x", DataType: "DECIMAL"},
	}

	_, err := toVersionedFileModel(row, cols)
	var aErr *AdaptError
	if !errors.As(err, &aErr) {
		t.Fatalf("err = %v, want *AdaptError", err)
	}
}

func TestAdaptColumnType_NullableSeedsEmptySentinel(t *testing.T) {
	row := headerRow(rowTypeCsv, strPtr(","))

	ct, err := adaptColumnType(row, FileModelColumn{Name: "a", Nullable: true, DataType: dataTypeString})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := ct.NullSentinels(); len(got) != 1 || got[0] != "" {
		t.Fatalf("sentinels = %v, want single empty string", got)
	}

	ct, err = adaptColumnType(row, FileModelColumn{Name: "b", Nullable: false, DataType: dataTypeString})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ct.IsNullable() {
		t.Fatal("non-nullable row adapted to nullable type")
	}
}

func TestAdaptColumnType_DateFormatScan(t *testing.T) {
	row := headerRow(rowTypeCsv, strPtr(","))

	ct, err := adaptColumnType(row, FileModelColumn{
		Name:     "d",
		DataType: dataTypeDate,
		Format:   strPtr(`some prefix date:"dd/MM/yyyy" some suffix`),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	dt := ct.(filemodel.DateType)
	if dt.Format != "dd/MM/yyyy" {
		t.Fatalf("format = %q, want dd/MM/yyyy", dt.Format)
	}

	ct, err = adaptColumnType(row, FileModelColumn{Name: "d2", DataType: dataTypeDate})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := ct.(filemodel.DateType).Format; got != filemodel.DefaultDateFormat {
		t.Fatalf("format = %q, want default", got)
	}
}

func TestToVersionedFileModel_FixedWidthPositionAndLength(t *testing.T) {
	row := headerRow(rowTypeFixedWidth, nil)
	cols := []FileModelColumn{
		{FileModelVersion: 7, Position: 0, Length: 12, Name: "accountId", DataType: dataTypeInteger},
		{FileModelVersion: 7, Position: 12, Length: 10, Name: "amount", DataType: dataTypeDouble},
	}

	vfm, err := toVersionedFileModel(row, cols)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	fw := vfm.Model.(filemodel.FixedWidthFileModel)
	if fw.Columns[1].Offset != 12 || fw.Columns[1].Width != 10 {
		t.Fatalf("column[1] = %+v", fw.Columns[1])
	}
}

func TestToRows_RoundTrip(t *testing.T) {
	orig := sampleVersion(t, 231, 3, "2018-01-31")

	row, cols, err := toRows(orig)
	if err != nil {
		t.Fatalf("toRows: %v", err)
	}
	if row.Type != rowTypeCsv || row.Delimiter == nil || *row.Delimiter != "," {
		t.Fatalf("header row = %+v", row)
	}
	if !row.Useable {
		t.Fatal("written rows must be useable")
	}
	if len(cols) != 2 {
		t.Fatalf("cols = %d, want 2", len(cols))
	}
	if cols[1].DataType != dataTypeDate || cols[1].Format == nil || *cols[1].Format != `date:"yyyy-MM-dd"` {
		t.Fatalf("date column row = %+v", cols[1])
	}
	if !cols[1].Nullable {
		t.Fatal("nullable date column lost its flag")
	}

	back, err := toVersionedFileModel(row, cols)
	if err != nil {
		t.Fatalf("adapt back: %v", err)
	}
	if back.FileID != orig.FileID || back.VersionID != orig.VersionID {
		t.Fatalf("identity changed: %+v", back)
	}
	if !back.ActiveReconDate.Equal(orig.ActiveReconDate) {
		t.Fatalf("recon date changed: %v vs %v", back.ActiveReconDate, orig.ActiveReconDate)
	}
	csv := back.Model.(filemodel.CsvFileModel)
	if len(csv.Columns) != 2 || csv.Columns[0].Name != "accountId" {
		t.Fatalf("columns changed: %+v", csv.Columns)
	}
}
