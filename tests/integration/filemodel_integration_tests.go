//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filemodel-registry/internal/audit"
	"filemodel-registry/internal/eventbus"
	"filemodel-registry/internal/registry"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServer wires the full stack the way cmd/server does, against an
// in-memory database.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
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
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&registry.FileModelHistory{},
		&registry.FileModelColumn{},
		&audit.AuditEntry{},
	); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	bus := eventbus.New()

	store := registry.NewDBStore(db)
	bus.Subscribe(store.Apply)

	auditService := &audit.AuditService{DB: db}
	bus.Subscribe(auditService.HandleEvent)

	registryService, err := registry.NewRegistryService(bus, store)
	if err != nil {
		t.Fatalf("registry service: %v", err)
	}

	r := gin.New()
	registry.RegisterRoutes(r, registryService)
	audit.RegisterRoutes(r, auditService)
	return r
}

func doReq(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFileModelLifecycle(t *testing.T) {
	r := setupServer(t)

	createBody := `{
		"file_id": 231,
		"active_recon_date": "2018-01-31",
		"username": "dg",
		"note": "settlement feed",
		"file_model": {
			"type": "csv",
			"numHeaderLines": 1,
			"numFooterLines": 0,
			"delimiter": ",",
			"columns": [
				{"name": "accountId", "isIdentifier": true, "type": {"type": "int"}},
				{"name": "settleDate", "type": {"type": "date", "nullValues": [""]}}
			]
		}
	}`

	w := doReq(r, http.MethodPost, "/api/file-models", createBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}
	var created struct {
		VersionID int64 `json:"version_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.VersionID != 0 {
		t.Fatalf("first version = %d, want 0", created.VersionID)
	}

	// temporal query resolves the active version
	w = doReq(r, http.MethodGet, "/api/file-models?file_id=231&recon_date=2018-02-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("getActiveAsOf: status = %d, body = %s", w.Code, w.Body.String())
	}

	// before the recon date nothing is active
	w = doReq(r, http.MethodGet, "/api/file-models?file_id=231&recon_date=2018-01-01", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("getActiveAsOf before cutover: status = %d, want 404", w.Code)
	}

	// update supersedes version 0
	w = doReq(r, http.MethodPut, "/api/file-models/0", `{"username": "mh", "active_recon_date": "2019-01-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", w.Code, w.Body.String())
	}

	var updated struct {
		VersionID int64 `json:"version_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.VersionID != 1 {
		t.Fatalf("second version = %d, want 1", updated.VersionID)
	}

	// original version is retired, not removed
	w = doReq(r, http.MethodGet, "/api/file-models/0", "")
	if w.Code != http.StatusOK {
		t.Fatalf("getByVersion: status = %d", w.Code)
	}
	var v0 struct {
		Active            bool    `json:"active"`
		InactiveReconDate *string `json:"inactive_recon_date"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &v0); err != nil {
		t.Fatalf("decode version 0: %v", err)
	}
	if v0.Active || v0.InactiveReconDate == nil || *v0.InactiveReconDate != "2019-01-01" {
		t.Fatalf("version 0 = %+v", v0)
	}

	// a second update of the retired version conflicts
	w = doReq(r, http.MethodPut, "/api/file-models/0", `{"username": "mh", "active_recon_date": "2020-01-01"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("conflicting update: status = %d, want 409", w.Code)
	}

	// avro export of the latest version
	w = doReq(r, http.MethodGet, "/api/file-models/1/avro", "")
	if w.Code != http.StatusOK {
		t.Fatalf("avro: status = %d", w.Code)
	}
	var schema struct {
		Name   string `json:"name"`
		Fields []any  `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &schema); err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	if schema.Name != "FileModel" || len(schema.Fields) != 2 {
		t.Fatalf("schema = %+v", schema)
	}

	// the whole lifecycle landed in the audit trail
	w = doReq(r, http.MethodGet, "/api/audit?file_id=231", "")
	if w.Code != http.StatusOK {
		t.Fatalf("audit: status = %d", w.Code)
	}
	var trail struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &trail); err != nil {
		t.Fatalf("decode audit response: %v", err)
	}
	if trail.Total != 2 {
		t.Fatalf("audit total = %d, want 2 (create + update)", trail.Total)
	}
}
