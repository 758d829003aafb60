// Package books queries the Google Books volumes API. Search results can be
// fed to the pipeline to build a deck from a volume's metadata and
// description when no PDF is available.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// Book is the subset of a Google Books volume the pipeline uses.
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"published_date"`
	Description   string   `json:"description"`
	PageCount     int      `json:"page_count"`
	Categories    []string `json:"categories"`
	Language      string   `json:"language"`
	Thumbnail     string   `json:"thumbnail"`
}

// Client talks to the volumes API. The zero value is not usable; call New.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string // optional; raises quota when set
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithAPIKey attaches a Google API key to every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs a volumes query and returns up to maxResults books.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Book, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if maxResults <= 0 || maxResults > 40 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "books")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var payload volumesResponse
	if err := c.get(ctx, "/volumes?"+params.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}

	books := make([]Book, 0, len(payload.Items))
	for _, item := range payload.Items {
		books = append(books, item.toBook())
	}
	return books, nil
}

// Get fetches a single volume by ID.
func (c *Client) Get(ctx context.Context, id string) (*Book, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("empty volume id")
	}

	path := "/volumes/" + url.PathEscape(id)
	if c.apiKey != "" {
		path += "?key=" + url.QueryEscape(c.apiKey)
	}

	var item volumeItem
	if err := c.get(ctx, path, &item); err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	book := item.toBook()
	return &book, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("google books request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google books returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type volumesResponse struct {
	Items []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		PublishedDate string   `json:"publishedDate"`
		Description   string   `json:"description"`
		PageCount     int      `json:"pageCount"`
		Categories    []string `json:"categories"`
		Language      string   `json:"language"`
		ImageLinks    struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (v volumeItem) toBook() Book {
	return Book{
		ID:            v.ID,
		Title:         v.VolumeInfo.Title,
		Authors:       v.VolumeInfo.Authors,
		PublishedDate: v.VolumeInfo.PublishedDate,
		Description:   v.VolumeInfo.Description,
		PageCount:     v.VolumeInfo.PageCount,
		Categories:    v.VolumeInfo.Categories,
		Language:      v.VolumeInfo.Language,
		Thumbnail:     v.VolumeInfo.ImageLinks.Thumbnail,
	}
}
