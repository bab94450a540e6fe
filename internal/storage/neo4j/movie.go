package neo4j

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/movie-recommender/internal/domain"
	"github.com/honeycarbs/movie-recommender/internal/repository"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
	pkgneo4j "github.com/honeycarbs/movie-recommender/pkg/neo4j"
)

// Ensure MovieStore implements repository.MovieRepository
var _ repository.MovieRepository = (*MovieStore)(nil)

const (
	allMoviesQuery = `
		MATCH (m:Movie)
		OPTIONAL MATCH (m)-[:CATEGORIZED_AS]->(g:Genre)
		WITH m, collect(DISTINCT g) AS genres
		RETURN m, genres
		ORDER BY m.id
	`

	moviesRatedByUserQuery = `
		MATCH (:User {id: $userId})-[:RATED]->(m:Movie)
		OPTIONAL MATCH (m)-[:CATEGORIZED_AS]->(g:Genre)
		RETURN m, collect(DISTINCT g) AS genres
	`

	ratingsFromUserQuery = `
		MATCH (u:User {id: $userId})-[r:RATED]->(m:Movie)
		OPTIONAL MATCH (m)-[:CATEGORIZED_AS]->(g:Genre)
		RETURN u.id AS userId, r.note AS note, m, collect(DISTINCT g) AS genres
	`

	coRaterRatingsQuery = `
		MATCH (:User {id: $userId})-[:RATED]->(:Movie)<-[:RATED]-(o:User)
		WHERE o.id <> $userId
		WITH DISTINCT o
		MATCH (o)-[r:RATED]->(m:Movie)
		OPTIONAL MATCH (m)-[:CATEGORIZED_AS]->(g:Genre)
		RETURN o.id AS userId, r.note AS note, m, collect(DISTINCT g) AS genres
	`

	// The movie match gates the whole statement: no row means no movie.
	upsertRatingQuery = `
		MATCH (m:Movie {id: $movieId})
		MERGE (u:User {id: $userId})
		WITH u, m
		OPTIONAL MATCH (u)-[prev:RATED]->(m)
		WITH u, m, count(prev) = 0 AS created
		MERGE (u)-[r:RATED]->(m)
		SET r.note = $note, r.timestamp = $timestamp
		RETURN created
	`
)

// queryRunner is the subset of pkgneo4j.Client used by MovieStore
type queryRunner interface {
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)
	ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)
	Close(ctx context.Context) error
}

// MovieStore implements repository.MovieRepository with Neo4j
type MovieStore struct {
	client queryRunner
	logger *logging.Logger
	clock  func() time.Time
	closed atomic.Bool
}

// NewMovieStore creates a MovieStore with a Neo4j client
func NewMovieStore(client *pkgneo4j.Client, logger *logging.Logger) *MovieStore {
	return newMovieStore(client, logger)
}

func newMovieStore(client queryRunner, logger *logging.Logger) *MovieStore {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MovieStore{
		client: client,
		logger: logger.With("component", "neo4j_movie_store"),
		clock:  time.Now,
	}
}

// GetAllMovies returns the catalog ordered by movie ID
func (s *MovieStore) GetAllMovies(ctx context.Context) ([]domain.Movie, error) {
	records, err := s.read(ctx, "get_all_movies", allMoviesQuery, nil)
	if err != nil {
		return nil, err
	}

	movies, err := parseMovieRecords(records)
	if err != nil {
		return nil, fmt.Errorf("%w: get_all_movies: %w", repository.ErrQuery, err)
	}

	slices.SortStableFunc(movies, func(a, b domain.Movie) int { return cmp.Compare(a.ID, b.ID) })
	return movies, nil
}

// GetMoviesRatedByUser returns the movies userID has rated
func (s *MovieStore) GetMoviesRatedByUser(ctx context.Context, userID domain.UserID) ([]domain.Movie, error) {
	records, err := s.read(ctx, "get_movies_rated_by_user", moviesRatedByUserQuery, userParams(userID))
	if err != nil {
		return nil, err
	}

	movies, err := parseMovieRecords(records)
	if err != nil {
		return nil, fmt.Errorf("%w: get_movies_rated_by_user: %w", repository.ErrQuery, err)
	}
	return movies, nil
}

// GetRatingsFromUser returns every rating made by userID
func (s *MovieStore) GetRatingsFromUser(ctx context.Context, userID domain.UserID) ([]domain.Rating, error) {
	records, err := s.read(ctx, "get_ratings_from_user", ratingsFromUserQuery, userParams(userID))
	if err != nil {
		return nil, err
	}

	ratings, err := parseRatingRecords(records)
	if err != nil {
		return nil, fmt.Errorf("%w: get_ratings_from_user: %w", repository.ErrQuery, err)
	}
	return ratings, nil
}

// GetCoRaterRatings returns ratings of users who share a rated movie with userID
func (s *MovieStore) GetCoRaterRatings(ctx context.Context, userID domain.UserID) ([]domain.Rating, error) {
	records, err := s.read(ctx, "get_co_rater_ratings", coRaterRatingsQuery, userParams(userID))
	if err != nil {
		return nil, err
	}

	ratings, err := parseRatingRecords(records)
	if err != nil {
		return nil, fmt.Errorf("%w: get_co_rater_ratings: %w", repository.ErrQuery, err)
	}
	return ratings, nil
}

// AddOrUpdateRating merges the RATED edge and sets its note in one statement
func (s *MovieStore) AddOrUpdateRating(ctx context.Context, rating domain.Rating) (bool, error) {
	if s.closed.Load() {
		return false, repository.ErrClosed
	}

	params := map[string]any{
		"userId":    int64(rating.UserID),
		"movieId":   int64(rating.Movie.ID),
		"note":      int64(rating.Note),
		"timestamp": s.clock().Unix(),
	}

	records, err := s.client.ExecuteWrite(ctx, upsertRatingQuery, params)
	if err != nil {
		s.logger.Error("rating upsert failed", "user_id", rating.UserID, "movie_id", rating.Movie.ID, "err", err)
		return false, classify("add_or_update_rating", err)
	}

	if len(records) == 0 {
		return false, fmt.Errorf("%w: id %d", repository.ErrMovieNotFound, rating.Movie.ID)
	}

	createdVal, _ := records[0].Get("created")
	created, _ := createdVal.(bool)

	s.logger.Debug("rating upserted",
		"user_id", rating.UserID,
		"movie_id", rating.Movie.ID,
		"note", rating.Note,
		"created", created,
	)
	return created, nil
}

// Close releases the driver. Subsequent calls return nil.
func (s *MovieStore) Close(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.client.Close(ctx); err != nil {
		return fmt.Errorf("close neo4j client: %w", err)
	}
	return nil
}

func (s *MovieStore) read(ctx context.Context, op, query string, params map[string]any) ([]*neo4j.Record, error) {
	if s.closed.Load() {
		return nil, repository.ErrClosed
	}

	records, err := s.client.ExecuteRead(ctx, query, params)
	if err != nil {
		s.logger.Error("read query failed", "op", op, "err", err)
		return nil, classify(op, err)
	}

	s.logger.Debug("read query completed", "op", op, "rows", len(records))
	return records, nil
}

func userParams(userID domain.UserID) map[string]any {
	return map[string]any{"userId": int64(userID)}
}

// classify wraps driver errors into the repository error kinds
func classify(op string, err error) error {
	if neo4j.IsConnectivityError(err) {
		return fmt.Errorf("%w: %s: %w", repository.ErrConnection, op, err)
	}
	return fmt.Errorf("%w: %s: %w", repository.ErrQuery, op, err)
}
