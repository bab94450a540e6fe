package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovieGenres(t *testing.T) {
	m := Movie{ID: 1, Title: "Her", Genres: []Genre{{ID: 1, Name: "SciFi"}, {ID: 2, Name: "Romance"}}}

	assert.True(t, m.HasGenre(2))
	assert.False(t, m.HasGenre(3))
	assert.Equal(t, []string{"SciFi", "Romance"}, m.GenreNames())
	assert.Empty(t, Movie{}.GenreNames())
}

func TestRecommendationAsRating(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{score: 4.4, want: 4},
		{score: 4.5, want: 5},
		{score: 7, want: MaxNote},
		{score: 0.2, want: MinNote},
	}

	for _, tt := range tests {
		r := Recommendation{Movie: Movie{ID: 3}, UserID: 7, Score: tt.score}
		assert.Equal(t, tt.want, r.Note(), "score %v", tt.score)
		assert.Equal(t, Rating{Movie: Movie{ID: 3}, UserID: 7, Note: tt.want}, r.Rating())
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, float64(MinNote), ClampScore(-2))
	assert.Equal(t, 3.5, ClampScore(3.5))
	assert.Equal(t, float64(MaxNote), ClampScore(9))
}
