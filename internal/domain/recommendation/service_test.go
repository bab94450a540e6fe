package recommendation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/movie-recommender/internal/domain"
	"github.com/honeycarbs/movie-recommender/internal/repository"
	"github.com/honeycarbs/movie-recommender/internal/storage/memory"
)

var (
	scifi   = domain.Genre{ID: 1, Name: "SciFi"}
	romance = domain.Genre{ID: 2, Name: "Romance"}
	comedy  = domain.Genre{ID: 3, Name: "Comedy"}
)

// fixture: user 1 loves SciFi and dislikes Romance, user 2 agrees with
// user 1 everywhere, user 3 is user 1's mirror image
func newFixtureStore(t *testing.T) *memory.Store {
	t.Helper()

	store := memory.New(
		domain.Movie{ID: 1, Title: "Matrix", Genres: []domain.Genre{scifi}},
		domain.Movie{ID: 2, Title: "Alien", Genres: []domain.Genre{scifi}},
		domain.Movie{ID: 3, Title: "Notebook", Genres: []domain.Genre{romance}},
		domain.Movie{ID: 4, Title: "Titanic", Genres: []domain.Genre{romance}},
		domain.Movie{ID: 5, Title: "Superbad", Genres: []domain.Genre{comedy}},
		domain.Movie{ID: 6, Title: "Galaxy Quest", Genres: []domain.Genre{scifi, comedy}},
		domain.Movie{ID: 7, Title: "Her", Genres: []domain.Genre{scifi, romance}},
	)

	rate := func(user domain.UserID, movie domain.MovieID, note int) {
		_, err := store.AddOrUpdateRating(context.Background(), domain.Rating{
			Movie:  domain.Movie{ID: movie},
			UserID: user,
			Note:   note,
		})
		require.NoError(t, err)
	}

	rate(1, 1, 5)
	rate(1, 3, 1)
	rate(1, 5, 3)

	rate(2, 1, 5)
	rate(2, 3, 1)
	rate(2, 5, 3)
	rate(2, 2, 5)
	rate(2, 4, 1)

	rate(3, 1, 1)
	rate(3, 3, 5)
	rate(3, 5, 3)
	rate(3, 4, 5)
	rate(3, 2, 1)

	return store
}

func newTestService(t *testing.T, store *memory.Store, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService(store, store, opts...)
	require.NoError(t, err)
	return svc
}

func movieIDs(recs []domain.Recommendation) []domain.MovieID {
	ids := make([]domain.MovieID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.Movie.ID)
	}
	return ids
}

func TestNewServiceRequiresReaders(t *testing.T) {
	store := memory.New()

	_, err := NewService(nil, store)
	require.Error(t, err)

	_, err = NewService(store, nil)
	require.Error(t, err)
}

func TestContentBasedRanksByGenreAffinity(t *testing.T) {
	svc := newTestService(t, newFixtureStore(t))

	recs, err := svc.ProcessRecommendationsForUser(context.Background(), 1, ModeContentBased)
	require.NoError(t, err)

	assert.Equal(t, []domain.MovieID{2, 6, 7, 4}, movieIDs(recs))
	assert.InDelta(t, 5.0, recs[0].Score, 1e-9)
	assert.InDelta(t, 4.0, recs[1].Score, 1e-9)
	assert.InDelta(t, 3.0, recs[2].Score, 1e-9)
	assert.InDelta(t, 1.0, recs[3].Score, 1e-9)

	for _, r := range recs {
		assert.Equal(t, domain.UserID(1), r.UserID)
	}
}

func TestCollaborativeUsesPositivelyCorrelatedNeighbours(t *testing.T) {
	svc := newTestService(t, newFixtureStore(t))

	recs, err := svc.ProcessRecommendationsForUser(context.Background(), 1, ModeCollaborative)
	require.NoError(t, err)

	// user 3 is anti-correlated and ignored, so Alien inherits user 2's enthusiasm
	require.Equal(t, []domain.MovieID{2, 4}, movieIDs(recs))
	assert.InDelta(t, 5.0, recs[0].Score, 1e-9)
	assert.InDelta(t, 1.0, recs[1].Score, 1e-9)
}

func TestHybridMergesBothStrategies(t *testing.T) {
	svc := newTestService(t, newFixtureStore(t))

	recs, err := svc.ProcessRecommendationsForUser(context.Background(), 1, ModeHybrid)
	require.NoError(t, err)

	assert.Equal(t, []domain.MovieID{2, 6, 7, 4}, movieIDs(recs))
	assert.InDelta(t, 5.0, recs[0].Score, 1e-9)
}

func TestDefaultModeScoresWholeCatalogForUnknownUser(t *testing.T) {
	svc := newTestService(t, newFixtureStore(t))

	recs, err := svc.ProcessRecommendationsForUser(context.Background(), 99, Mode(42))
	require.NoError(t, err)

	assert.Equal(t, []domain.MovieID{1, 2, 3, 4, 5, 6, 7}, movieIDs(recs))
	for _, r := range recs {
		assert.InDelta(t, 3.0, r.Score, 1e-9)
	}
}

func TestRecommendationsExcludeRatedMoviesAndComeFromCatalog(t *testing.T) {
	store := newFixtureStore(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	catalog, err := store.GetAllMovies(ctx)
	require.NoError(t, err)
	known := make(map[domain.MovieID]bool)
	for _, m := range catalog {
		known[m.ID] = true
	}

	for _, mode := range []Mode{ModeContentBased, ModeCollaborative, ModeHybrid, Mode(-1)} {
		for _, user := range []domain.UserID{1, 2, 3} {
			recs, err := svc.ProcessRecommendationsForUser(ctx, user, mode)
			require.NoError(t, err)

			rated, err := store.GetMoviesRatedByUser(ctx, user)
			require.NoError(t, err)
			seen := make(map[domain.MovieID]bool)
			for _, m := range rated {
				seen[m.ID] = true
			}

			for i, r := range recs {
				assert.True(t, known[r.Movie.ID], "mode %s user %d: movie %d not in catalog", mode, user, r.Movie.ID)
				assert.False(t, seen[r.Movie.ID], "mode %s user %d: movie %d already rated", mode, user, r.Movie.ID)
				assert.GreaterOrEqual(t, r.Score, float64(domain.MinNote))
				assert.LessOrEqual(t, r.Score, float64(domain.MaxNote))
				if i > 0 {
					assert.GreaterOrEqual(t, recs[i-1].Score, r.Score)
				}
			}
		}
	}
}

func TestRecommendationsVaryWithUser(t *testing.T) {
	svc := newTestService(t, newFixtureStore(t))
	ctx := context.Background()

	forUser1, err := svc.ProcessRecommendationsForUser(ctx, 1, ModeContentBased)
	require.NoError(t, err)
	forUser3, err := svc.ProcessRecommendationsForUser(ctx, 3, ModeContentBased)
	require.NoError(t, err)

	assert.NotEqual(t, movieIDs(forUser1), movieIDs(forUser3))
	assert.Equal(t, []domain.MovieID{7, 6}, movieIDs(forUser3))
}

func TestWithLimitTruncates(t *testing.T) {
	svc := newTestService(t, newFixtureStore(t), WithLimit(2))

	recs, err := svc.ProcessRecommendationsForUser(context.Background(), 1, ModeContentBased)
	require.NoError(t, err)
	assert.Equal(t, []domain.MovieID{2, 6}, movieIDs(recs))
}

type failingStore struct {
	*memory.Store
	failOn string
}

var errBoom = errors.New("boom")

func (f failingStore) GetAllMovies(ctx context.Context) ([]domain.Movie, error) {
	if f.failOn == "movies" {
		return nil, errBoom
	}
	return f.Store.GetAllMovies(ctx)
}

func (f failingStore) GetCoRaterRatings(ctx context.Context, userID domain.UserID) ([]domain.Rating, error) {
	if f.failOn == "co_raters" {
		return nil, errBoom
	}
	return f.Store.GetCoRaterRatings(ctx, userID)
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()

	for _, failOn := range []string{"movies", "co_raters"} {
		store := failingStore{Store: newFixtureStore(t), failOn: failOn}
		svc, err := NewService(store, store)
		require.NoError(t, err)

		_, err = svc.ProcessRecommendationsForUser(ctx, 1, ModeCollaborative)
		require.ErrorIs(t, err, errBoom, failOn)
	}
}

func TestClosedStoreSurfacesErrClosed(t *testing.T) {
	store := newFixtureStore(t)
	svc := newTestService(t, store)
	require.NoError(t, store.Close(context.Background()))

	_, err := svc.ProcessRecommendationsForUser(context.Background(), 1, ModeHybrid)
	require.ErrorIs(t, err, repository.ErrClosed)
}

func TestSimilarity(t *testing.T) {
	a := map[domain.MovieID]float64{1: 5, 2: 1, 3: 3, 4: 4, 5: 2}

	assert.InDelta(t, 1.0, similarity(a, a), 1e-9)

	mirror := map[domain.MovieID]float64{1: 1, 2: 5, 3: 3, 4: 2, 5: 4}
	assert.InDelta(t, -1.0, similarity(a, mirror), 1e-9)

	// single overlap: exact agreement damped by the overlap size
	assert.InDelta(t, 0.2, similarity(a, map[domain.MovieID]float64{1: 5}), 1e-9)
	assert.InDelta(t, -0.2, similarity(a, map[domain.MovieID]float64{1: 1}), 1e-9)

	assert.Zero(t, similarity(a, map[domain.MovieID]float64{9: 5}))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "content_based", ModeContentBased.String())
	assert.Equal(t, "collaborative", ModeCollaborative.String())
	assert.Equal(t, "hybrid", ModeHybrid.String())
	assert.Equal(t, "default", Mode(7).String())
}
