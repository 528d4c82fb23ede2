package guess

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"filemodel-registry/internal/filemodel"

	"github.com/gin-gonic/gin"
)

type mockGuessService struct {
	GuessFn func(r io.Reader, filename string) (filemodel.CsvFileModel, error)
}

func (m *mockGuessService) Guess(r io.Reader, filename string) (filemodel.CsvFileModel, error) {
	return m.GuessFn(r, filename)
}

func newTestRouter(svc GuessServiceAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, svc)
	return r
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/file-models/guess", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestGuessController_GuessFileModel(t *testing.T) {
	svc := &mockGuessService{
		GuessFn: func(r io.Reader, filename string) (filemodel.CsvFileModel, error) {
			if filename != "sample.csv" {
				t.Fatalf("filename = %q", filename)
			}
			return filemodel.CsvFileModel{
				NumHeaderLines: 1,
				Delimiter:      ",",
				Columns: []filemodel.Column{
					{Name: "accountId", Type: filemodel.IntType{}, IsIdentifier: true},
				},
			}, nil
		},
	}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "sample.csv", "accountId\n100\n"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		FileModel struct {
			Type      string `json:"type"`
			Delimiter string `json:"delimiter"`
		} `json:"file_model"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.FileModel.Type != "csv" || resp.FileModel.Delimiter != "," {
		t.Fatalf("response = %+v", resp)
	}
}

func TestGuessController_MissingFile(t *testing.T) {
	svc := &mockGuessService{
		GuessFn: func(r io.Reader, filename string) (filemodel.CsvFileModel, error) {
			t.Fatal("service should not be reached")
			return filemodel.CsvFileModel{}, nil
		},
	}
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/file-models/guess", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGuessController_GuessFailureIs422(t *testing.T) {
	svc := &mockGuessService{
		GuessFn: func(r io.Reader, filename string) (filemodel.CsvFileModel, error) {
			return filemodel.CsvFileModel{}, errors.New("unsupported file type: .pdf")
		},
	}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "sample.pdf", "%PDF"))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}
