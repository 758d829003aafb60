package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hermesdeck/hermes/internal/books"
	"github.com/hermesdeck/hermes/internal/config"
	"github.com/hermesdeck/hermes/internal/document"
	"github.com/hermesdeck/hermes/internal/pipeline"
	"github.com/hermesdeck/hermes/internal/summarize"
)

type fakeProvider struct {
	response string
}

func (f *fakeProvider) Complete(_ context.Context, _ summarize.Request) (*summarize.Response, error) {
	return &summarize.Response{Text: f.response, Model: "fake"}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func testPipeline() *pipeline.Service {
	cfg := config.SummarizerConfig{Provider: "groq", Temperature: 0.1, MaxTokens: 8000}
	summarizer := summarize.NewServiceWithProvider(
		&fakeProvider{response: "[SECTION Overview]\n- a point worth making\n"}, cfg)
	return pipeline.New(document.NewService(nil), summarizer, 0)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(fileData)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestConvertMissingFile(t *testing.T) {
	h := NewConvertHandler(testPipeline(), 64)
	body, contentType := multipartBody(t, map[string]string{"title": "x"}, "", "", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Convert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestConvertRejectsNonPDF(t *testing.T) {
	h := NewConvertHandler(testPipeline(), 64)
	body, contentType := multipartBody(t, nil, "file", "notes.txt", []byte("plain text"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Convert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "PDF") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestConvertInvalidPageField(t *testing.T) {
	h := NewConvertHandler(testPipeline(), 64)
	body, contentType := multipartBody(t, map[string]string{"from_page": "abc"}, "file", "book.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Convert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestConvertUnsupportedFormat(t *testing.T) {
	h := NewConvertHandler(testPipeline(), 64)
	body, contentType := multipartBody(t, map[string]string{"format": "odp"}, "file", "book.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Convert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "format") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestConvertCorruptPDF(t *testing.T) {
	h := NewConvertHandler(testPipeline(), 64)
	body, contentType := multipartBody(t, nil, "file", "book.pdf", []byte("not really a pdf"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Convert(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func booksServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/volumes":
			w.Write([]byte(`{"items":[{"id":"v1","volumeInfo":{"title":"The Muqaddimah","language":"en"}}]}`))
		case strings.HasPrefix(r.URL.Path, "/volumes/"):
			w.Write([]byte(`{"id":"v1","volumeInfo":{"title":"The Muqaddimah","authors":["Ibn Khaldun"],"language":"en","description":"An introduction to history, widely regarded as a founding work of several social sciences."}}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestBooksSearch(t *testing.T) {
	srv := booksServer(t)
	defer srv.Close()

	h := NewBooksHandler(books.New(books.WithBaseURL(srv.URL)), testPipeline())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/search?q=khaldun", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Books []books.Book `json:"books"`
		Count int          `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Count != 1 || payload.Books[0].Title != "The Muqaddimah" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestBooksSearchMissingQuery(t *testing.T) {
	h := NewBooksHandler(books.New(), testPipeline())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/search", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBooksConvert(t *testing.T) {
	srv := booksServer(t)
	defer srv.Close()

	h := NewBooksHandler(books.New(books.WithBaseURL(srv.URL)), testPipeline())
	body := strings.NewReader(`{"volume_id":"v1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/books/convert", body)
	rec := httptest.NewRecorder()
	h.Convert(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "presentationml") {
		t.Errorf("content type = %q", got)
	}
	if rec.Header().Get("X-Conversion-ID") == "" {
		t.Error("missing X-Conversion-ID header")
	}
	if rec.Body.Len() == 0 {
		t.Error("empty response body")
	}
}

func TestBooksConvertMissingVolumeID(t *testing.T) {
	h := NewBooksHandler(books.New(), testPipeline())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/books/convert", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Convert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	cfg := &config.Config{
		Summarizer: config.SummarizerConfig{Provider: "groq", GroqKey: "gsk_test", Temperature: 0.1},
		Pipeline:   config.PipelineConfig{ChunkSize: 12000},
	}
	h := NewHealthHandler(cfg, false)

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReadyzMissingKey(t *testing.T) {
	cfg := &config.Config{
		Summarizer: config.SummarizerConfig{Provider: "groq", Temperature: 0.1},
		Pipeline:   config.PipelineConfig{ChunkSize: 12000},
	}
	h := NewHealthHandler(cfg, false)

	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", rec.Code)
	}
}
