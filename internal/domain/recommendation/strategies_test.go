package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/movie-recommender/internal/domain"
)

func TestPearson(t *testing.T) {
	r, ok := pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	assert.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)

	r, ok = pearson([]float64{1, 2, 3}, []float64{3, 2, 1})
	assert.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-9)

	_, ok = pearson([]float64{4}, []float64{4})
	assert.False(t, ok, "single point")

	_, ok = pearson([]float64{3, 3, 3}, []float64{1, 4, 5})
	assert.False(t, ok, "constant rater")
}

func TestSimilarityFallsBackToAgreementForConstantRater(t *testing.T) {
	a := map[domain.MovieID]float64{1: 3, 2: 3}
	b := map[domain.MovieID]float64{1: 3, 2: 3}

	// agreement 1, damped by 2/5
	assert.InDelta(t, 0.4, similarity(a, b), 1e-9)
}

func TestMean(t *testing.T) {
	assert.Equal(t, midNote, mean(nil))
	assert.InDelta(t, 11.0/3, mean(map[domain.MovieID]float64{1: 5, 2: 4, 3: 2}), 1e-9)
}
