package domain

import "math"

// Rating note bounds
const (
	MinNote = 1
	MaxNote = 5
)

// MovieID identifies a movie node, assigned by the store
type MovieID int64

// GenreID identifies a genre node, assigned by the store
type GenreID int64

// UserID identifies a user node
type UserID int64

// Genre is a movie category
type Genre struct {
	ID   GenreID `json:"id"`
	Name string  `json:"name"`
}

// Movie is a catalog entry with its genre set
type Movie struct {
	ID     MovieID `json:"id"`
	Title  string  `json:"title"`
	Genres []Genre `json:"genres"`
}

// HasGenre reports whether the movie is categorized under id
func (m Movie) HasGenre(id GenreID) bool {
	for _, g := range m.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

// GenreNames returns genre names in the movie's genre order
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Rating is a RATED edge between a user and a movie
type Rating struct {
	Movie  Movie  `json:"movie"`
	UserID UserID `json:"user_id"`
	Note   int    `json:"note"`
}

// Recommendation is a predicted rating for a movie the user has not rated
type Recommendation struct {
	Movie  Movie   `json:"movie"`
	UserID UserID  `json:"user_id"`
	Score  float64 `json:"score"`
}

// Note rounds the predicted score into the valid note range
func (r Recommendation) Note() int {
	return ClampNote(int(math.Round(r.Score)))
}

// Rating presents the recommendation as a rating
func (r Recommendation) Rating() Rating {
	return Rating{Movie: r.Movie, UserID: r.UserID, Note: r.Note()}
}

// ClampNote bounds n to [MinNote, MaxNote]
func ClampNote(n int) int {
	if n < MinNote {
		return MinNote
	}
	if n > MaxNote {
		return MaxNote
	}
	return n
}

// ClampScore bounds s to [MinNote, MaxNote]
func ClampScore(s float64) float64 {
	return math.Max(MinNote, math.Min(MaxNote, s))
}
