package repository

import (
	"context"

	"github.com/honeycarbs/movie-recommender/internal/domain"
)

// MovieReader loads catalog entries
type MovieReader interface {
	// GetAllMovies returns every movie ordered by ID ascending
	GetAllMovies(ctx context.Context) ([]domain.Movie, error)

	// GetMoviesRatedByUser returns the movies the user has a rating for
	GetMoviesRatedByUser(ctx context.Context, userID domain.UserID) ([]domain.Movie, error)
}

// RatingReader loads rating edges
type RatingReader interface {
	// GetRatingsFromUser returns every rating made by the user
	GetRatingsFromUser(ctx context.Context, userID domain.UserID) ([]domain.Rating, error)

	// GetCoRaterRatings returns all ratings made by users sharing at least
	// one rated movie with userID, excluding userID's own ratings
	GetCoRaterRatings(ctx context.Context, userID domain.UserID) ([]domain.Rating, error)
}

// RatingWriter persists rating edges
type RatingWriter interface {
	// AddOrUpdateRating creates the user/movie edge or overwrites its note.
	// It reports whether a new edge was created.
	AddOrUpdateRating(ctx context.Context, rating domain.Rating) (bool, error)
}

// MovieRepository is the full storage contract
type MovieRepository interface {
	MovieReader
	RatingReader
	RatingWriter

	// Close releases the backing connection. Calling it twice is a no-op.
	Close(ctx context.Context) error
}
