package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookbeat/internal/catalog"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"content":[{"type":"text","text":%q}]}`, reply)
	}))
}

func newTestClient(t *testing.T, reply string) *Client {
	server := newStubServer(t, reply)
	t.Cleanup(server.Close)
	c := NewClient("test-key", "claude-3-haiku-20240307")
	c.SetBaseURL(server.URL)
	return c
}

func TestClient_Describe(t *testing.T) {
	c := newTestClient(t, "  A sweeping desert epic.  ")

	got, err := c.Describe(context.Background(), "Dune", "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, "A sweeping desert epic.", got)
}

func TestClient_ClassifyGenres_FiltersUnknownLabels(t *testing.T) {
	c := newTestClient(t, "Sci-Fi, Fiction, fiction")

	active := []catalog.Genre{{ID: 1, Name: "Fiction"}, {ID: 2, Name: "Biography"}}
	got, err := c.ClassifyGenres(context.Background(), active, "Dune", "Frank Herbert")
	require.NoError(t, err)

	// "Sci-Fi" is not in the active set and must be dropped, and the
	// duplicate "fiction" collapses case-insensitively
	assert.Equal(t, []int{1}, got)
}

func TestClient_ClassifyGenres_EmptyActiveSet(t *testing.T) {
	c := NewClient("test-key", "claude-3-haiku-20240307")
	// no server configured: an empty active set must short-circuit before
	// any network call
	got, err := c.ClassifyGenres(context.Background(), nil, "Dune", "Frank Herbert")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_RecommendBooks_ParsesOrderedList(t *testing.T) {
	c := newTestClient(t, "1. Hyperion | Dan Simmons\n2. Foundation | Isaac Asimov\nnot a recommendation line\n")

	history := []BookSignal{{Title: "Dune", Author: "Frank Herbert", Weight: 7}}
	got, err := c.RecommendBooks(context.Background(), history, 5)
	require.NoError(t, err)

	assert.Equal(t, []Suggestion{
		{Title: "Hyperion", Author: "Dan Simmons"},
		{Title: "Foundation", Author: "Isaac Asimov"},
	}, got)
}

func TestClient_RecommendBooks_EmptyHistoryShortCircuits(t *testing.T) {
	c := NewClient("test-key", "claude-3-haiku-20240307")

	got, err := c.RecommendBooks(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_RecommendPlaylists(t *testing.T) {
	c := newTestClient(t, "- desert ambient\n- epic orchestral scores\n\n")

	got, err := c.RecommendPlaylists(context.Background(), "Dune", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"desert ambient", "epic orchestral scores"}, got)
}

func TestClient_ProviderErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient("test-key", "claude-3-haiku-20240307")
	c.SetBaseURL(server.URL)

	_, err := c.Describe(context.Background(), "Dune", "Frank Herbert")
	assert.Error(t, err)
}
