package anthropic

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bookbeat/internal/catalog"

	"github.com/goccy/go-json"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

// BookSignal is one weighted book from the user's history, used to steer
// recommendations.
type BookSignal struct {
	Title  string
	Author string
	Weight float64
}

// Suggestion is one recommended title/author pair.
type Suggestion struct {
	Title  string
	Author string
}

// Client calls the generative-text provider. Every method is a single-shot
// request/response; responses are untrusted free text and parsed
// defensively.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		model:     model,
		maxTokens: 1024,
	}
}

// Describe asks for a short teaser description of a book.
func (c *Client) Describe(ctx context.Context, title, author string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a single enticing sentence describing the book %q by %s. Respond with only that sentence, no preamble.",
		title, author)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ClassifyGenres asks which of the active genres fit the book. The provider
// is a classifier, not a schema authority: any label outside the active set
// is dropped, matching is by case-insensitive name.
func (c *Client) ClassifyGenres(ctx context.Context, active []catalog.Genre, title, author string) ([]int, error) {
	if len(active) == 0 {
		return nil, nil
	}

	names := make([]string, len(active))
	byName := make(map[string]int, len(active))
	for i, g := range active {
		names[i] = g.Name
		byName[strings.ToLower(g.Name)] = g.ID
	}

	prompt := fmt.Sprintf(
		"Which of the following genres fit the book %q by %s? Genres: %s. Respond with a comma-separated list of matching genre names only, nothing else.",
		title, author, strings.Join(names, ", "))

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var ids []int
	seen := make(map[int]bool)
	for _, label := range strings.Split(text, ",") {
		id, ok := byName[strings.ToLower(strings.TrimSpace(label))]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// RecommendBooks turns weighted history signals into an ordered list of
// title/author suggestions.
func (c *Client) RecommendBooks(ctx context.Context, history []BookSignal, n int) ([]Suggestion, error) {
	if len(history) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for _, s := range history {
		fmt.Fprintf(&sb, "- %q by %s (weight %.1f)\n", s.Title, s.Author, s.Weight)
	}

	prompt := fmt.Sprintf(
		"A reader enjoyed these books, higher weight means they liked it more:\n%s\nRecommend %d other books they would enjoy, best match first. Do not repeat books from the list. Respond with one recommendation per line in the exact format: Title | Author",
		sb.String(), n)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var out []Suggestion
	for _, line := range strings.Split(text, "\n") {
		title, author, ok := strings.Cut(stripListMarker(line), "|")
		if !ok {
			continue
		}
		s := Suggestion{
			Title:  strings.TrimSpace(title),
			Author: strings.TrimSpace(author),
		}
		if s.Title == "" {
			continue
		}
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// RecommendPlaylists asks for music-playlist search queries matching the
// mood of a book.
func (c *Client) RecommendPlaylists(ctx context.Context, bookTitle string, n int) ([]string, error) {
	prompt := fmt.Sprintf(
		"Suggest %d short music-playlist search queries that match the mood and themes of the book %q. Respond with one query per line, nothing else.",
		n, bookTitle)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		q := strings.TrimSpace(stripListMarker(line))
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("messages request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var res messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode messages response: %w", err)
	}
	if len(res.Content) == 0 {
		return "", fmt.Errorf("empty response content")
	}
	return res.Content[0].Text, nil
}

// stripListMarker removes leading numbering or bullets the model sometimes
// adds despite instructions.
func stripListMarker(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-*• \t")
	if i := strings.IndexAny(s, ".)"); i > 0 && i <= 2 {
		if _, err := fmt.Sscanf(s[:i], "%d", new(int)); err == nil {
			s = strings.TrimSpace(s[i+1:])
		}
	}
	return s
}

// SetBaseURL points the client at a different host. Tests use it with
// httptest servers.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}
