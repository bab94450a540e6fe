// Package memory keeps the movie graph in process. It backs tests and local
// fixtures with the same ordering and upsert semantics as the Neo4j store.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/honeycarbs/movie-recommender/internal/domain"
	"github.com/honeycarbs/movie-recommender/internal/repository"
)

var _ repository.MovieRepository = (*Store)(nil)

type ratingKey struct {
	user  domain.UserID
	movie domain.MovieID
}

// Store is an in-memory repository.MovieRepository
type Store struct {
	mu      sync.RWMutex
	movies  map[domain.MovieID]domain.Movie
	ratings map[ratingKey]int
	closed  bool
}

// New returns a store holding the given movies
func New(movies ...domain.Movie) *Store {
	s := &Store{
		movies:  make(map[domain.MovieID]domain.Movie, len(movies)),
		ratings: make(map[ratingKey]int),
	}
	for _, m := range movies {
		s.movies[m.ID] = normalizeMovie(m)
	}
	return s
}

// AddMovie inserts or replaces a movie
func (s *Store) AddMovie(m domain.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies[m.ID] = normalizeMovie(m)
}

// GetAllMovies returns the catalog ordered by movie ID
func (s *Store) GetAllMovies(ctx context.Context) ([]domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx); err != nil {
		return nil, err
	}

	movies := make([]domain.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		movies = append(movies, cloneMovie(m))
	}
	sortMovies(movies)
	return movies, nil
}

// GetMoviesRatedByUser returns the movies userID has rated, ordered by ID
func (s *Store) GetMoviesRatedByUser(ctx context.Context, userID domain.UserID) ([]domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx); err != nil {
		return nil, err
	}

	movies := make([]domain.Movie, 0)
	for k := range s.ratings {
		if k.user == userID {
			movies = append(movies, cloneMovie(s.movies[k.movie]))
		}
	}
	sortMovies(movies)
	return movies, nil
}

// GetRatingsFromUser returns every rating made by userID, ordered by movie ID
func (s *Store) GetRatingsFromUser(ctx context.Context, userID domain.UserID) ([]domain.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx); err != nil {
		return nil, err
	}

	return s.collect(func(k ratingKey) bool { return k.user == userID }), nil
}

// GetCoRaterRatings returns ratings of users sharing a rated movie with userID
func (s *Store) GetCoRaterRatings(ctx context.Context, userID domain.UserID) ([]domain.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx); err != nil {
		return nil, err
	}

	rated := make(map[domain.MovieID]struct{})
	for k := range s.ratings {
		if k.user == userID {
			rated[k.movie] = struct{}{}
		}
	}

	coRaters := make(map[domain.UserID]struct{})
	for k := range s.ratings {
		if k.user == userID {
			continue
		}
		if _, ok := rated[k.movie]; ok {
			coRaters[k.user] = struct{}{}
		}
	}

	return s.collect(func(k ratingKey) bool {
		_, ok := coRaters[k.user]
		return ok
	}), nil
}

// AddOrUpdateRating creates or overwrites the single (user, movie) rating
func (s *Store) AddOrUpdateRating(ctx context.Context, rating domain.Rating) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return false, err
	}

	if _, ok := s.movies[rating.Movie.ID]; !ok {
		return false, fmt.Errorf("%w: id %d", repository.ErrMovieNotFound, rating.Movie.ID)
	}

	k := ratingKey{user: rating.UserID, movie: rating.Movie.ID}
	_, existed := s.ratings[k]
	s.ratings[k] = rating.Note
	return !existed, nil
}

// Close marks the store closed. Calling it again is a no-op.
func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// check must be called with mu held
func (s *Store) check(ctx context.Context) error {
	if s.closed {
		return repository.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrQuery, err)
	}
	return nil
}

// collect must be called with mu held
func (s *Store) collect(match func(ratingKey) bool) []domain.Rating {
	ratings := make([]domain.Rating, 0)
	for k, note := range s.ratings {
		if !match(k) {
			continue
		}
		ratings = append(ratings, domain.Rating{
			Movie:  cloneMovie(s.movies[k.movie]),
			UserID: k.user,
			Note:   note,
		})
	}
	slices.SortFunc(ratings, func(a, b domain.Rating) int {
		if c := cmp.Compare(a.UserID, b.UserID); c != 0 {
			return c
		}
		return cmp.Compare(a.Movie.ID, b.Movie.ID)
	})
	return ratings
}

func sortMovies(movies []domain.Movie) {
	slices.SortFunc(movies, func(a, b domain.Movie) int { return cmp.Compare(a.ID, b.ID) })
}

// normalizeMovie drops duplicate genre IDs and orders genres by ID
func normalizeMovie(m domain.Movie) domain.Movie {
	seen := make(map[domain.GenreID]struct{}, len(m.Genres))
	genres := make([]domain.Genre, 0, len(m.Genres))
	for _, g := range m.Genres {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		genres = append(genres, g)
	}
	slices.SortFunc(genres, func(a, b domain.Genre) int { return cmp.Compare(a.ID, b.ID) })
	m.Genres = genres
	return m
}

func cloneMovie(m domain.Movie) domain.Movie {
	m.Genres = slices.Clone(m.Genres)
	if m.Genres == nil {
		m.Genres = []domain.Genre{}
	}
	return m
}
