package books

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const searchResponse = `{
  "items": [
    {
      "id": "abc123",
      "volumeInfo": {
        "title": "The Muqaddimah",
        "authors": ["Ibn Khaldun"],
        "publishedDate": "1377",
        "description": "An introduction to history.",
        "pageCount": 512,
        "categories": ["History"],
        "language": "ar",
        "imageLinks": {"thumbnail": "http://example.com/t.jpg"}
      }
    }
  ]
}`

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "ibn khaldun" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("maxResults"); got != "5" {
			t.Errorf("maxResults = %q", got)
		}
		w.Write([]byte(searchResponse))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	books, err := client.Search(context.Background(), "ibn khaldun", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("got %d books, want 1", len(books))
	}

	b := books[0]
	if b.ID != "abc123" || b.Title != "The Muqaddimah" || b.PageCount != 512 {
		t.Errorf("book = %+v", b)
	}
	if len(b.Authors) != 1 || b.Authors[0] != "Ibn Khaldun" {
		t.Errorf("authors = %v", b.Authors)
	}
	if b.Language != "ar" {
		t.Errorf("language = %q", b.Language)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client := New()
	if _, err := client.Search(context.Background(), "   ", 5); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	if _, err := client.Search(context.Background(), "anything", 5); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes/abc123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"abc123","volumeInfo":{"title":"The Muqaddimah","language":"ar"}}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	book, err := client.Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if book.Title != "The Muqaddimah" {
		t.Errorf("title = %q", book.Title)
	}
}

func TestGetEmptyID(t *testing.T) {
	if _, err := New().Get(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestSearchAPIKeyForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "AIza-test" {
			t.Errorf("key = %q", got)
		}
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL), WithAPIKey("AIza-test"))
	if _, err := client.Search(context.Background(), "x", 1); err != nil {
		t.Fatalf("Search: %v", err)
	}
}
