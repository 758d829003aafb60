package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hermesdeck/hermes/internal/books"
	"github.com/hermesdeck/hermes/internal/pipeline"
)

type BooksHandler struct {
	client   *books.Client
	pipeline *pipeline.Service
}

func NewBooksHandler(client *books.Client, p *pipeline.Service) *BooksHandler {
	return &BooksHandler{client: client, pipeline: p}
}

// Search proxies a Google Books volumes query.
func (h *BooksHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter q required"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.client.Search(r.Context(), query, limit)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"books": results, "count": len(results)})
}

type convertBookRequest struct {
	VolumeID string `json:"volume_id"`
	Title    string `json:"title"`
	Format   string `json:"format"`
}

// Convert builds a presentation from a volume's metadata and description.
func (h *BooksHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.VolumeID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "volume_id required"})
		return
	}
	format, err := parseFormat(req.Format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	book, err := h.client.Get(r.Context(), req.VolumeID)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.pipeline.ConvertBook(r.Context(), book, pipeline.Options{
		Title:  req.Title,
		APIKey: r.Header.Get("X-API-Key"),
	})
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	writeResult(w, result, format, baseName(book.Title))
}
