// Package metadata fetches supplemental catalog data from OpenLibrary.
//
// Enrichment only fills fields a catalog row is missing (description, page
// count, cover); user data is never touched.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// BookMetadata contains catalog information fetched from OpenLibrary.
type BookMetadata struct {
	Title            string `json:"title,omitempty"`
	Author           string `json:"author,omitempty"`
	CoverURL         string `json:"cover_url,omitempty"`
	Description      string `json:"description,omitempty"`
	PageCount        int    `json:"page_count,omitempty"`
	FirstPublishYear int    `json:"first_publish_year,omitempty"`
	OpenLibraryKey   string `json:"open_library_key,omitempty"`
}

// OpenLibraryClient fetches book metadata from the OpenLibrary API.
type OpenLibraryClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewOpenLibraryClient creates a new OpenLibrary API client with rate limiting.
func NewOpenLibraryClient() *OpenLibraryClient {
	return &OpenLibraryClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     "https://openlibrary.org",
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// NewOpenLibraryClientWithBaseURL creates a client pointed at a custom base
// URL. Used by tests with an httptest server.
func NewOpenLibraryClientWithBaseURL(baseURL string) *OpenLibraryClient {
	c := NewOpenLibraryClient()
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.rateLimiter = newRateLimiter(0)
	return c
}

type openLibrarySearchResult struct {
	Docs []openLibrarySearchDoc `json:"docs"`
}

type openLibrarySearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	NumberOfPages    int      `json:"number_of_pages_median"`
	CoverI           int      `json:"cover_i"`
}

// Search looks up a book by title and author and returns the best match.
func (c *OpenLibraryClient) Search(ctx context.Context, title, author string) (*BookMetadata, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	c.rateLimiter.wait()

	q := title
	if author != "" {
		q = fmt.Sprintf("%s %s", title, author)
	}

	searchURL := fmt.Sprintf("%s/search.json?q=%s&limit=5", c.baseURL, url.QueryEscape(q))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "MyLibrary/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result openLibrarySearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if len(result.Docs) == 0 {
		return nil, fmt.Errorf("no results found for: %s", title)
	}

	doc := bestMatch(result.Docs, title, author)

	meta := &BookMetadata{
		Title:            doc.Title,
		FirstPublishYear: doc.FirstPublishYear,
		PageCount:        doc.NumberOfPages,
		OpenLibraryKey:   doc.Key,
	}
	if len(doc.AuthorName) > 0 {
		meta.Author = doc.AuthorName[0]
	}
	if doc.CoverI != 0 {
		meta.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", doc.CoverI)
	}

	// The work record carries the description; fetch it when we have a key.
	if doc.Key != "" {
		if desc, err := c.fetchDescription(ctx, doc.Key); err == nil {
			meta.Description = desc
		}
	}

	return meta, nil
}

// bestMatch scores candidates: exact title and author matches first, then
// entries that at least have a cover.
func bestMatch(docs []openLibrarySearchDoc, title, author string) *openLibrarySearchDoc {
	titleLower := strings.ToLower(title)
	authorLower := strings.ToLower(author)

	var best *openLibrarySearchDoc
	bestScore := -1

	for i := range docs {
		doc := &docs[i]
		score := 0

		if strings.ToLower(doc.Title) == titleLower {
			score += 10
		} else if strings.Contains(strings.ToLower(doc.Title), titleLower) {
			score += 5
		}

		if author != "" {
			for _, name := range doc.AuthorName {
				if strings.ToLower(name) == authorLower {
					score += 10
					break
				} else if strings.Contains(strings.ToLower(name), authorLower) {
					score += 5
					break
				}
			}
		}

		if doc.CoverI != 0 {
			score += 1
		}

		if score > bestScore {
			bestScore = score
			best = doc
		}
	}

	if best == nil {
		best = &docs[0]
	}
	return best
}

// fetchDescription pulls the work record for its description field, which
// OpenLibrary serves either as a string or as a {type, value} object.
func (c *OpenLibraryClient) fetchDescription(ctx context.Context, workKey string) (string, error) {
	c.rateLimiter.wait()

	reqURL := fmt.Sprintf("%s%s.json", c.baseURL, workKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "MyLibrary/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status: %d", resp.StatusCode)
	}

	var work struct {
		Description json.RawMessage `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return "", err
	}
	if len(work.Description) == 0 {
		return "", fmt.Errorf("no description")
	}

	var asString string
	if err := json.Unmarshal(work.Description, &asString); err == nil {
		return asString, nil
	}

	var asObject struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(work.Description, &asObject); err == nil {
		return asObject.Value, nil
	}

	return "", fmt.Errorf("unrecognized description format")
}
