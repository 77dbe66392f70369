package music

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookbeat/internal/cache"
	"bookbeat/internal/catalog"
	"bookbeat/internal/platform/spotify"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSuggester struct {
	mu      sync.Mutex
	calls   int
	queries []string
	err     error
}

func (s *stubSuggester) RecommendPlaylists(ctx context.Context, bookTitle string, n int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.queries, s.err
}

type stubSearcher struct {
	mu      sync.Mutex
	byQuery map[string][]spotify.PlaylistHit
	errFor  map[string]error
	tokens  []string
}

func (s *stubSearcher) SearchPlaylists(ctx context.Context, token, query string, limit int) ([]spotify.PlaylistHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append(s.tokens, token)
	if err := s.errFor[query]; err != nil {
		return nil, err
	}
	return s.byQuery[query], nil
}

type stubRefresher struct {
	mu    sync.Mutex
	calls int
	cred  *spotify.Credential
	err   error
}

func (s *stubRefresher) Refresh(ctx context.Context, refreshToken string) (*spotify.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.cred, s.err
}

type memStore struct {
	mu        sync.Mutex
	playlists map[string]catalog.Playlist
}

func newMemStore() *memStore {
	return &memStore{playlists: make(map[string]catalog.Playlist)}
}

func (m *memStore) FindBookByISBN(ctx context.Context, isbn string) (catalog.Book, error) {
	return catalog.Book{}, catalog.ErrNotFound
}

func (m *memStore) FindBooksByISBNs(ctx context.Context, isbns []string) ([]catalog.Book, error) {
	return nil, nil
}

func (m *memStore) CreateBook(ctx context.Context, b *catalog.Book) (catalog.Book, error) {
	return *b, nil
}

func (m *memStore) FindPlaylistByID(ctx context.Context, id string) (catalog.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.playlists[id]
	if !ok {
		return catalog.Playlist{}, catalog.ErrNotFound
	}
	return p, nil
}

func (m *memStore) CreatePlaylist(ctx context.Context, p *catalog.Playlist) (catalog.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.playlists[p.SpotifyID]; ok {
		return catalog.Playlist{}, catalog.ErrConflict
	}
	m.playlists[p.SpotifyID] = *p
	return *p, nil
}

func (m *memStore) ListGenres(ctx context.Context) ([]catalog.Genre, error) {
	return nil, nil
}

func newTestService(t *testing.T, suggest QuerySuggester, searcher PlaylistSearcher, refresher spotify.Refresher) (*Service, *memStore) {
	t.Helper()
	log := zerolog.Nop()
	c := cache.New(cache.NewMemoryStore(), log)
	store := newMemStore()
	genres := catalog.NewGenreService(store, c, time.Hour)
	resolver := catalog.NewResolver(store, genres, log)
	guard := spotify.NewGuard(refresher, log)
	return NewService(suggest, searcher, guard, resolver, c, 15*time.Minute, log), store
}

func TestRecommendPlaylists_MergesFiltersAndResolves(t *testing.T) {
	suggest := &stubSuggester{queries: []string{"epic orchestral", "desert ambient"}}
	searcher := &stubSearcher{byQuery: map[string][]spotify.PlaylistHit{
		"epic orchestral": {
			{SpotifyID: "p1", Name: "Epic Scores", ImageURL: "https://img/p1", URI: "spotify:playlist:p1"},
			{SpotifyID: "p2", Name: "No Cover"},
		},
		"desert ambient": {
			{SpotifyID: "p1", Name: "Epic Scores", ImageURL: "https://img/p1", URI: "spotify:playlist:p1"},
			{SpotifyID: "p3", Name: "Desert Winds", ImageURL: "https://img/p3", URI: "spotify:playlist:p3"},
		},
	}}
	svc, store := newTestService(t, suggest, searcher, &stubRefresher{})

	cred := &spotify.Credential{AccessToken: "tok", RefreshToken: "ref"}
	got, err := svc.RecommendPlaylists(context.Background(), "Dune", cred)
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.SpotifyID
	}
	// p2 has no image, the duplicate p1 collapses
	assert.ElementsMatch(t, []string{"p1", "p3"}, ids)

	// survivors were persisted into the catalog
	_, err = store.FindPlaylistByID(context.Background(), "p3")
	assert.NoError(t, err)
}

func TestRecommendPlaylists_SecondCallServedFromCache(t *testing.T) {
	suggest := &stubSuggester{queries: []string{"q"}}
	searcher := &stubSearcher{byQuery: map[string][]spotify.PlaylistHit{
		"q": {{SpotifyID: "p1", Name: "One", ImageURL: "https://img/p1"}},
	}}
	svc, _ := newTestService(t, suggest, searcher, &stubRefresher{})

	cred := &spotify.Credential{AccessToken: "tok"}
	first, err := svc.RecommendPlaylists(context.Background(), "Dune", cred)
	require.NoError(t, err)
	second, err := svc.RecommendPlaylists(context.Background(), "DUNE", cred)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, suggest.calls)
	assert.Len(t, searcher.tokens, 1)
}

func TestRecommendPlaylists_SingleQueryFailureDegrades(t *testing.T) {
	suggest := &stubSuggester{queries: []string{"good", "bad"}}
	searcher := &stubSearcher{
		byQuery: map[string][]spotify.PlaylistHit{
			"good": {{SpotifyID: "p1", Name: "One", ImageURL: "https://img/p1"}},
		},
		errFor: map[string]error{"bad": errors.New("rate limited")},
	}
	svc, _ := newTestService(t, suggest, searcher, &stubRefresher{})

	got, err := svc.RecommendPlaylists(context.Background(), "Dune", &spotify.Credential{AccessToken: "tok"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].SpotifyID)
}

func TestRecommendPlaylists_ExpiredTokenRefreshedOnce(t *testing.T) {
	suggest := &stubSuggester{queries: []string{"q"}}
	searcher := &expiringSearcher{
		valid: "fresh",
		hits:  []spotify.PlaylistHit{{SpotifyID: "p1", Name: "One", ImageURL: "https://img/p1"}},
	}
	refresher := &stubRefresher{cred: &spotify.Credential{AccessToken: "fresh", RefreshToken: "ref2"}}
	svc, _ := newTestService(t, suggest, searcher, refresher)

	cred := &spotify.Credential{AccessToken: "stale", RefreshToken: "ref"}
	got, err := svc.RecommendPlaylists(context.Background(), "Dune", cred)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, "fresh", cred.AccessToken)
	assert.Equal(t, "ref2", cred.RefreshToken)
}

func TestRecommendPlaylists_ReauthRequiredSurfaces(t *testing.T) {
	suggest := &stubSuggester{queries: []string{"q"}}
	searcher := &expiringSearcher{valid: "never"}
	refresher := &stubRefresher{err: errors.New("invalid_grant")}
	svc, _ := newTestService(t, suggest, searcher, refresher)

	_, err := svc.RecommendPlaylists(context.Background(), "Dune", &spotify.Credential{AccessToken: "stale", RefreshToken: "ref"})
	assert.ErrorIs(t, err, spotify.ErrReauthRequired)
}

func TestRecommendPlaylists_SuggesterFailureIsFatal(t *testing.T) {
	suggest := &stubSuggester{err: errors.New("provider down")}
	svc, _ := newTestService(t, suggest, &stubSearcher{}, &stubRefresher{})

	_, err := svc.RecommendPlaylists(context.Background(), "Dune", &spotify.Credential{AccessToken: "tok"})
	assert.Error(t, err)
}

// expiringSearcher rejects every token except valid with ErrTokenExpired.
type expiringSearcher struct {
	mu    sync.Mutex
	valid string
	hits  []spotify.PlaylistHit
}

func (s *expiringSearcher) SearchPlaylists(ctx context.Context, token, query string, limit int) ([]spotify.PlaylistHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.valid {
		return nil, spotify.ErrTokenExpired
	}
	return s.hits, nil
}
