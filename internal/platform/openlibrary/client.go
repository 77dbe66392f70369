package openlibrary

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// BookHit is one search result carrying the provider's external identifier
// (ISBN) plus display fields.
type BookHit struct {
	ISBN          string  `json:"isbn"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Rating        float64 `json:"rating"`
	PublishedYear int     `json:"published_year"`
	PageCount     int     `json:"page_count"`
	CoverURL      string  `json:"cover_url"`
}

// HasCover reports whether the hit carries a usable display asset.
func (h BookHit) HasCover() bool {
	return h.CoverURL != ""
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	breaker    *gobreaker.CircuitBreaker[*searchResponse]
}

func NewClient(userAgent string, rps int, maxRetries int) *Client {
	settings := gobreaker.Settings{
		Name:    "openlibrary-search",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    "https://openlibrary.org",
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
		breaker:    gobreaker.NewCircuitBreaker[*searchResponse](settings),
	}
}

// searchResponse matches search.json
type searchResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Key                 string   `json:"key"`
		Title               string   `json:"title"`
		AuthorNames         []string `json:"author_name"`
		ISBN                []string `json:"isbn"`
		FirstPublishYear    int      `json:"first_publish_year"`
		NumberOfPagesMedian int      `json:"number_of_pages_median"`
		RatingsAverage      float64  `json:"ratings_average"`
		CoverID             int      `json:"cover_i"`
	} `json:"docs"`
}

// Search runs a free-text query and maps the documents into BookHits.
// Documents without any ISBN are dropped; 13-digit ISBNs are preferred.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]BookHit, error) {
	u := fmt.Sprintf("%s/search.json?q=%s&fields=key,title,author_name,isbn,first_publish_year,number_of_pages_median,ratings_average,cover_i&limit=%d",
		c.baseURL, url.QueryEscape(query), limit)

	res, err := c.breaker.Execute(func() (*searchResponse, error) {
		var sr searchResponse
		if err := c.get(ctx, u, &sr); err != nil {
			return nil, err
		}
		return &sr, nil
	})
	if err != nil {
		return nil, err
	}

	hits := make([]BookHit, 0, len(res.Docs))
	for _, doc := range res.Docs {
		if len(doc.ISBN) == 0 {
			continue
		}
		// Open Library can return 10 or 13 digit ISBNs. We prefer 13.
		isbn := doc.ISBN[0]
		for _, i := range doc.ISBN {
			if len(i) == 13 {
				isbn = i
				break
			}
		}

		hit := BookHit{
			ISBN:          isbn,
			Title:         doc.Title,
			Author:        strings.Join(doc.AuthorNames, ", "),
			Rating:        doc.RatingsAverage,
			PublishedYear: doc.FirstPublishYear,
			PageCount:     doc.NumberOfPagesMedian,
		}
		if doc.CoverID != 0 {
			hit.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverID)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// SetBaseURL points the client at a different host. Tests use it with
// httptest servers.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}
