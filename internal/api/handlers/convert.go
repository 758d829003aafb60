package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hermesdeck/hermes/internal/export"
	"github.com/hermesdeck/hermes/internal/pipeline"
)

const (
	formatPPTX = "pptx"
	formatDOCX = "docx"
)

type ConvertHandler struct {
	pipeline    *pipeline.Service
	maxUploadMB int
}

func NewConvertHandler(p *pipeline.Service, maxUploadMB int) *ConvertHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 64
	}
	return &ConvertHandler{pipeline: p, maxUploadMB: maxUploadMB}
}

// Convert accepts a multipart PDF upload and responds with the rendered
// presentation. Form fields: file (required), from_page, to_page, title,
// format (pptx|docx). The X-API-Key header overrides the configured
// provider key for this request only.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(h.maxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form or upload too large"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "only PDF uploads are supported"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read upload"})
		return
	}

	opts, err := parseOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	format, err := parseFormat(r.FormValue("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.pipeline.Convert(r.Context(), data, opts)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if strings.Contains(err.Error(), "invalid page range") {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeResult(w, result, format, baseName(header.Filename))
}

func parseOptions(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{
		Title:  r.FormValue("title"),
		APIKey: r.Header.Get("X-API-Key"),
	}
	var err error
	if opts.FromPage, err = formInt(r, "from_page"); err != nil {
		return opts, err
	}
	if opts.ToPage, err = formInt(r, "to_page"); err != nil {
		return opts, err
	}
	return opts, nil
}

func formInt(r *http.Request, field string) (int, error) {
	v := r.FormValue(field)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", field, v)
	}
	return n, nil
}

func parseFormat(v string) (string, error) {
	switch v {
	case "", formatPPTX:
		return formatPPTX, nil
	case formatDOCX:
		return formatDOCX, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", v)
	}
}

// writeResult streams the output file with conversion metadata in headers.
func writeResult(w http.ResponseWriter, result *pipeline.Result, format, name string) {
	var payload []byte
	var contentType string

	switch format {
	case formatDOCX:
		path := filepath.Join(os.TempDir(), result.ID+".docx")
		if err := export.WriteDocx(result.Deck, path); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		defer os.Remove(path)
		data, err := os.ReadFile(path)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		payload = data
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		payload = result.PPTX
		contentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	w.Header().Set("X-Conversion-ID", result.ID)
	w.Header().Set("X-Slides", strconv.Itoa(result.Slides))
	w.Header().Set("X-Language", result.Language)
	w.Header().Set("X-Regenerated", strconv.FormatBool(result.Regenerated))
	if len(result.Warnings) > 0 {
		w.Header().Set("X-Warnings", strings.Join(result.Warnings, "; "))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func baseName(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if name == "" {
		return "presentation"
	}
	return name
}
