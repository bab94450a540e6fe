package recommendation

import (
	"cmp"
	"maps"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/honeycarbs/movie-recommender/internal/domain"
)

// Neighbours sharing fewer co-rated movies than this get a damped similarity
const significanceThreshold = 5

// midNote is the score given when nothing is known about a movie or user
const midNote = float64(domain.MinNote+domain.MaxNote) / 2

type scores map[domain.MovieID]float64

// contentScores rates each candidate by the mean affinity of its genres, where a
// genre's affinity is the user's mean note over rated movies carrying it.
// Candidates sharing no genre with the user's history get no score.
func contentScores(own []domain.Rating, candidates []domain.Movie) scores {
	type acc struct {
		sum float64
		n   int
	}
	affinity := make(map[domain.GenreID]*acc)
	for _, r := range own {
		for _, g := range r.Movie.Genres {
			a, ok := affinity[g.ID]
			if !ok {
				a = &acc{}
				affinity[g.ID] = a
			}
			a.sum += float64(r.Note)
			a.n++
		}
	}

	out := make(scores)
	for _, m := range candidates {
		var sum float64
		var n int
		for _, g := range m.Genres {
			if a, ok := affinity[g.ID]; ok {
				sum += a.sum / float64(a.n)
				n++
			}
		}
		if n > 0 {
			out[m.ID] = domain.ClampScore(sum / float64(n))
		}
	}
	return out
}

type neighbour struct {
	user  domain.UserID
	sim   float64
	mean  float64
	notes map[domain.MovieID]float64
}

// collaborativeScores predicts notes from the k most similar co-raters using
// mean-centred weighted averaging.
func collaborativeScores(own, coRatings []domain.Rating, candidates []domain.Movie, k int) scores {
	out := make(scores)
	if len(own) == 0 || len(coRatings) == 0 {
		return out
	}

	mine := notesByMovie(own)
	myMean := mean(mine)

	neighbours := nearestNeighbours(mine, groupByUser(coRatings), k)
	if len(neighbours) == 0 {
		return out
	}

	for _, m := range candidates {
		var num, den float64
		for _, nb := range neighbours {
			note, ok := nb.notes[m.ID]
			if !ok {
				continue
			}
			num += nb.sim * (note - nb.mean)
			den += math.Abs(nb.sim)
		}
		if den > 0 {
			out[m.ID] = domain.ClampScore(myMean + num/den)
		}
	}
	return out
}

// hybridScores averages both strategies where both produced a score
func hybridScores(content, collaborative scores) scores {
	out := make(scores, len(content)+len(collaborative))
	for id, s := range content {
		out[id] = s
	}
	for id, s := range collaborative {
		if c, ok := out[id]; ok {
			out[id] = (c + s) / 2
		} else {
			out[id] = s
		}
	}
	return out
}

// fallbackScores scores every candidate: the co-raters' mean note when any of
// them rated it, else the user's own mean, else the middle of the scale.
func fallbackScores(own, coRatings []domain.Rating, candidates []domain.Movie) scores {
	base := midNote
	if len(own) > 0 {
		base = mean(notesByMovie(own))
	}

	type acc struct {
		sum float64
		n   int
	}
	byMovie := make(map[domain.MovieID]*acc)
	for _, r := range coRatings {
		a, ok := byMovie[r.Movie.ID]
		if !ok {
			a = &acc{}
			byMovie[r.Movie.ID] = a
		}
		a.sum += float64(r.Note)
		a.n++
	}

	out := make(scores, len(candidates))
	for _, m := range candidates {
		if a, ok := byMovie[m.ID]; ok {
			out[m.ID] = domain.ClampScore(a.sum / float64(a.n))
			continue
		}
		out[m.ID] = domain.ClampScore(base)
	}
	return out
}

func nearestNeighbours(mine map[domain.MovieID]float64, others map[domain.UserID]map[domain.MovieID]float64, k int) []neighbour {
	neighbours := make([]neighbour, 0, len(others))
	for user, notes := range others {
		sim := similarity(mine, notes)
		if sim <= 0 {
			continue
		}
		neighbours = append(neighbours, neighbour{
			user:  user,
			sim:   sim,
			mean:  mean(notes),
			notes: notes,
		})
	}

	slices.SortFunc(neighbours, func(a, b neighbour) int {
		if c := cmp.Compare(b.sim, a.sim); c != 0 {
			return c
		}
		return cmp.Compare(a.user, b.user)
	})

	if k > 0 && len(neighbours) > k {
		neighbours = neighbours[:k]
	}
	return neighbours
}

// similarity is the Pearson correlation over co-rated movies. When it is
// undefined (one co-rated movie or a constant rater) it falls back to note
// agreement: 1 for identical notes, -1 for opposite ends of the scale.
// Both are damped when fewer than significanceThreshold movies overlap.
func similarity(a, b map[domain.MovieID]float64) float64 {
	var xs, ys []float64
	for id, x := range a {
		if y, ok := b[id]; ok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	n := len(xs)
	if n == 0 {
		return 0
	}

	sim, ok := pearson(xs, ys)
	if !ok {
		sim = agreement(xs, ys)
	}

	if n < significanceThreshold {
		sim *= float64(n) / significanceThreshold
	}
	return sim
}

// pearson is undefined below two points or when either side has zero variance
func pearson(xs, ys []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

func agreement(xs, ys []float64) float64 {
	var diff float64
	for i := range xs {
		diff += math.Abs(xs[i] - ys[i])
	}
	span := float64(domain.MaxNote - domain.MinNote)
	return 1 - 2*(diff/float64(len(xs)))/span
}

func notesByMovie(ratings []domain.Rating) map[domain.MovieID]float64 {
	notes := make(map[domain.MovieID]float64, len(ratings))
	for _, r := range ratings {
		notes[r.Movie.ID] = float64(r.Note)
	}
	return notes
}

func groupByUser(ratings []domain.Rating) map[domain.UserID]map[domain.MovieID]float64 {
	out := make(map[domain.UserID]map[domain.MovieID]float64)
	for _, r := range ratings {
		notes, ok := out[r.UserID]
		if !ok {
			notes = make(map[domain.MovieID]float64)
			out[r.UserID] = notes
		}
		notes[r.Movie.ID] = float64(r.Note)
	}
	return out
}

func mean(notes map[domain.MovieID]float64) float64 {
	if len(notes) == 0 {
		return midNote
	}
	return stat.Mean(slices.Collect(maps.Values(notes)), nil)
}
