package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookbeat/internal/platform/openlibrary"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	mu    sync.Mutex
	calls int
	fn    func(query string) ([]openlibrary.BookHit, error)
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]openlibrary.BookHit, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(query)
}

func hit(isbn, query string) openlibrary.BookHit {
	return openlibrary.BookHit{
		ISBN:     isbn,
		Title:    "book for " + query,
		CoverURL: "https://covers.example/" + isbn + ".jpg",
	}
}

func TestAggregator_PartialFailureIsolation(t *testing.T) {
	searcher := &fakeSearcher{fn: func(query string) ([]openlibrary.BookHit, error) {
		if query == "q3" {
			return nil, errors.New("provider timeout")
		}
		return []openlibrary.BookHit{hit("isbn-"+query, query)}, nil
	}}

	a := NewAggregator(searcher, 1, zerolog.Nop())
	got := a.SearchBooks(context.Background(), []string{"q1", "q2", "q3", "q4", "q5"}, nil)

	require.Len(t, got, 4, "one failed query degrades only that query")
	assert.Equal(t, 5, searcher.calls, "every query is still attempted")
}

func TestAggregator_DropsKnownAndDuplicateISBNs(t *testing.T) {
	searcher := &fakeSearcher{fn: func(query string) ([]openlibrary.BookHit, error) {
		// every query resolves to the same book plus one unique one
		return []openlibrary.BookHit{hit("shared", query), hit("isbn-"+query, query)}, nil
	}}

	a := NewAggregator(searcher, 2, zerolog.Nop())
	known := map[string]bool{"isbn-q1": true}
	got := a.SearchBooks(context.Background(), []string{"q1", "q2"}, known)

	var isbns []string
	for _, h := range got {
		isbns = append(isbns, h.ISBN)
	}
	assert.Equal(t, []string{"shared", "isbn-q2"}, isbns)
}

func TestAggregator_DropsHitsWithoutCover(t *testing.T) {
	searcher := &fakeSearcher{fn: func(query string) ([]openlibrary.BookHit, error) {
		return []openlibrary.BookHit{
			{ISBN: "no-cover", Title: "bare"},
			hit("with-cover", query),
		}, nil
	}}

	a := NewAggregator(searcher, 2, zerolog.Nop())
	got := a.SearchBooks(context.Background(), []string{"q"}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "with-cover", got[0].ISBN)
}

func TestAggregator_CoverlessHitDoesNotShadowCoveredDuplicate(t *testing.T) {
	searcher := &fakeSearcher{fn: func(query string) ([]openlibrary.BookHit, error) {
		if query == "q1" {
			return []openlibrary.BookHit{{ISBN: "shared", Title: "bare"}}, nil
		}
		return []openlibrary.BookHit{hit("shared", query)}, nil
	}}

	a := NewAggregator(searcher, 2, zerolog.Nop())
	got := a.SearchBooks(context.Background(), []string{"q1", "q2"}, nil)

	require.Len(t, got, 1, "the covered duplicate must survive the coverless one")
	assert.Equal(t, "shared", got[0].ISBN)
	assert.True(t, got[0].HasCover())
}

func TestAggregator_PreservesQuerySubmissionOrder(t *testing.T) {
	searcher := &fakeSearcher{fn: func(query string) ([]openlibrary.BookHit, error) {
		if query == "first" {
			// make the first query finish last
			time.Sleep(20 * time.Millisecond)
		}
		return []openlibrary.BookHit{hit("isbn-"+query, query)}, nil
	}}

	a := NewAggregator(searcher, 1, zerolog.Nop())
	got := a.SearchBooks(context.Background(), []string{"first", "second"}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "isbn-first", got[0].ISBN, "merge follows submission order, not completion order")
	assert.Equal(t, "isbn-second", got[1].ISBN)
}

func TestFanOut_EmptyBatch(t *testing.T) {
	got := FanOut(context.Background(), nil, 4, time.Second,
		func(context.Context, string) ([]int, error) { return nil, nil })
	assert.Nil(t, got)
}

func TestFanOut_CarriesQueryAndError(t *testing.T) {
	boom := errors.New("boom")
	got := FanOut(context.Background(), []string{"a", "b"}, 2, time.Second,
		func(_ context.Context, q string) ([]string, error) {
			if q == "b" {
				return nil, boom
			}
			return []string{q + "-hit"}, nil
		})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Query)
	assert.Equal(t, []string{"a-hit"}, got[0].Hits)
	assert.Equal(t, "b", got[1].Query)
	assert.ErrorIs(t, got[1].Err, boom)
}
