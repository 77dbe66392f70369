package recommend

import (
	"sort"
	"time"
)

// Scoring policy. The exact weights are tunable; only the qualitative
// ordering (higher rated and more recent books first, favorites boosted)
// is contractual.
const (
	favoriteBoost = 2.0
	readingBoost  = 2.0
	recencyBoost  = 1.0
	recencyWindow = 30 * 24 * time.Hour
)

// HistoryItem is one row of the user's reading history snapshot.
type HistoryItem struct {
	ISBN          string    `json:"isbn"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Rating        float64   `json:"rating"`
	IsFavorite    bool      `json:"is_favorite"`
	ReadingStatus string    `json:"reading_status"`
	AddedAt       time.Time `json:"added_at"`
}

// Candidate is a scored, transient query candidate. Never persisted.
type Candidate struct {
	ISBN    string
	Title   string
	Author  string
	Weight  float64
	AddedAt time.Time
}

// ScoreHistory flattens the history into one candidate per distinct book
// and orders it by weight descending, most recent first on ties. Favorite
// and in-progress books contribute a higher weight.
func ScoreHistory(history []HistoryItem, now time.Time) []Candidate {
	byISBN := make(map[string]HistoryItem)
	for _, item := range history {
		if item.ISBN == "" {
			continue
		}
		existing, ok := byISBN[item.ISBN]
		if !ok {
			byISBN[item.ISBN] = item
			continue
		}
		// duplicate rows for one book collapse, keeping the strongest signal
		existing.IsFavorite = existing.IsFavorite || item.IsFavorite
		if item.Rating > existing.Rating {
			existing.Rating = item.Rating
		}
		if item.AddedAt.After(existing.AddedAt) {
			existing.AddedAt = item.AddedAt
			existing.ReadingStatus = item.ReadingStatus
		}
		byISBN[item.ISBN] = existing
	}

	candidates := make([]Candidate, 0, len(byISBN))
	for _, item := range byISBN {
		weight := item.Rating
		if item.IsFavorite {
			weight += favoriteBoost
		}
		if item.ReadingStatus == "READING" {
			weight += readingBoost
		}
		if now.Sub(item.AddedAt) <= recencyWindow {
			weight += recencyBoost
		}
		candidates = append(candidates, Candidate{
			ISBN:    item.ISBN,
			Title:   item.Title,
			Author:  item.Author,
			Weight:  weight,
			AddedAt: item.AddedAt,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Weight != candidates[j].Weight {
			return candidates[i].Weight > candidates[j].Weight
		}
		return candidates[i].AddedAt.After(candidates[j].AddedAt)
	})
	return candidates
}
