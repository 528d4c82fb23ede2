package registry

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"filemodel-registry/internal/filemodel"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:registry_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&FileModelHistory{}, &FileModelColumn{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func reconDate(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d.UTC()
}

func sampleCsvModel(t *testing.T) filemodel.CsvFileModel {
	t.Helper()

	m, err := filemodel.NewCsvFileModel(1, 0, ",", []filemodel.Column{
		{Name: "accountId", Type: filemodel.IntType{}, IsIdentifier: true},
		{Name: "settleDate", Type: filemodel.NewDateType("", []string{""})},
	})
	if err != nil {
		t.Fatalf("sample model: %v", err)
	}
	return m
}

func sampleFixedWidthModel(t *testing.T) filemodel.FixedWidthFileModel {
	t.Helper()

	m, err := filemodel.NewFixedWidthFileModel(1, 0, []filemodel.FixedWidthColumn{
		{Name: "accountId", Offset: 0, Width: 12, Type: filemodel.IntType{}},
		{Name: "amount", Offset: 12, Width: 10, Type: filemodel.FloatType{NullValues: []string{""}}},
	})
	if err != nil {
		t.Fatalf("sample model: %v", err)
	}
	return m
}

func sampleVersion(t *testing.T, fileID, versionID int64, activeReconDate string) filemodel.VersionedFileModel {
	t.Helper()

	return filemodel.VersionedFileModel{
		FileID:          fileID,
		VersionID:       versionID,
		Active:          true,
		ActiveReconDate: reconDate(t, activeReconDate),
		CreatedAt:       time.Date(2018, 1, 15, 10, 0, 0, 0, time.UTC),
		CreatedBy:       "dg",
		Model:           sampleCsvModel(t),
	}
}
