package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/honeycarbs/movie-recommender/internal/domain"
	"github.com/honeycarbs/movie-recommender/internal/repository"
	"github.com/honeycarbs/movie-recommender/internal/validation"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

// ErrInvalidRating wraps input that fails validation
var ErrInvalidRating = errors.New("invalid rating")

// Input is a rating request before it reaches storage
type Input struct {
	UserID  domain.UserID  `json:"user_id" validate:"gte=0"`
	MovieID domain.MovieID `json:"movie_id" validate:"gte=0"`
	Note    int            `json:"note" validate:"min=1,max=5"`
}

// Result reports what the upsert did. The movie is identified by ID only.
type Result struct {
	UserID  domain.UserID  `json:"user_id"`
	MovieID domain.MovieID `json:"movie_id"`
	Note    int            `json:"note"`
	Created bool           `json:"created"`
}

// Service validates and persists ratings
type Service struct {
	writer repository.RatingWriter
	logger *logging.Logger
}

// NewService creates a rating service
func NewService(writer repository.RatingWriter, logger *logging.Logger) (*Service, error) {
	if writer == nil {
		return nil, fmt.Errorf("rating.Service: writer is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{writer: writer, logger: logger.With("component", "rating_service")}, nil
}

// AddOrUpdateRating validates in and upserts the single (user, movie) rating.
// The movie must already exist; the user is created on first rating.
func (s *Service) AddOrUpdateRating(ctx context.Context, in Input) (Result, error) {
	if err := validation.Struct(in); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidRating, err)
	}

	r := domain.Rating{
		Movie:  domain.Movie{ID: in.MovieID},
		UserID: in.UserID,
		Note:   in.Note,
	}

	created, err := s.writer.AddOrUpdateRating(ctx, r)
	if err != nil {
		if !errors.Is(err, repository.ErrMovieNotFound) {
			s.logger.Error("rating upsert failed", "user_id", in.UserID, "movie_id", in.MovieID, "err", err)
		}
		return Result{}, fmt.Errorf("add or update rating: %w", err)
	}

	s.logger.Info("rating stored",
		"user_id", in.UserID,
		"movie_id", in.MovieID,
		"note", in.Note,
		"created", created,
	)

	return Result{UserID: in.UserID, MovieID: in.MovieID, Note: in.Note, Created: created}, nil
}
