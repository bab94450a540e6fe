package recommendation

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/honeycarbs/movie-recommender/internal/domain"
	"github.com/honeycarbs/movie-recommender/internal/repository"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

const (
	defaultLimit      = 10
	defaultNeighbours = 20
)

// Option configures Service
type Option func(*config)

type config struct {
	limit      int
	neighbours int
	logger     *logging.Logger
}

// WithLimit caps the number of recommendations returned
func WithLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithNeighbours sets how many similar users collaborative filtering keeps
func WithNeighbours(k int) Option {
	return func(c *config) {
		if k > 0 {
			c.neighbours = k
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Service computes recommendations from the stored rating graph
type Service struct {
	movies     repository.MovieReader
	ratings    repository.RatingReader
	limit      int
	neighbours int
	logger     *logging.Logger
}

// NewService builds Service from its readers and options
func NewService(movies repository.MovieReader, ratings repository.RatingReader, opts ...Option) (*Service, error) {
	if movies == nil {
		return nil, fmt.Errorf("recommendation.Service: movie reader is required")
	}
	if ratings == nil {
		return nil, fmt.Errorf("recommendation.Service: rating reader is required")
	}

	cfg := &config{
		limit:      defaultLimit,
		neighbours: defaultNeighbours,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Service{
		movies:     movies,
		ratings:    ratings,
		limit:      cfg.limit,
		neighbours: cfg.neighbours,
		logger:     cfg.logger.With("component", "recommendation_service"),
	}, nil
}

// ProcessRecommendationsForUser ranks catalog movies the user has not rated.
// Results are ordered by score descending then movie ID, at most the configured limit.
func (s *Service) ProcessRecommendationsForUser(ctx context.Context, userID domain.UserID, mode Mode) ([]domain.Recommendation, error) {
	catalog, err := s.movies.GetAllMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	own, err := s.ratings.GetRatingsFromUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load ratings of user %d: %w", userID, err)
	}

	candidates := unrated(catalog, own)

	var coRatings []domain.Rating
	if mode != ModeContentBased {
		coRatings, err = s.ratings.GetCoRaterRatings(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load co-rater ratings of user %d: %w", userID, err)
		}
	}

	var sc scores
	switch mode {
	case ModeContentBased:
		sc = contentScores(own, candidates)
	case ModeCollaborative:
		sc = collaborativeScores(own, coRatings, candidates, s.neighbours)
	case ModeHybrid:
		sc = hybridScores(
			contentScores(own, candidates),
			collaborativeScores(own, coRatings, candidates, s.neighbours),
		)
	default:
		sc = fallbackScores(own, coRatings, candidates)
	}

	recs := rank(userID, candidates, sc, s.limit)

	s.logger.Debug("recommendations computed",
		"user_id", userID,
		"mode", mode.String(),
		"catalog", len(catalog),
		"rated", len(own),
		"co_ratings", len(coRatings),
		"scored", len(sc),
		"returned", len(recs),
	)

	return recs, nil
}

func unrated(catalog []domain.Movie, own []domain.Rating) []domain.Movie {
	rated := make(map[domain.MovieID]struct{}, len(own))
	for _, r := range own {
		rated[r.Movie.ID] = struct{}{}
	}

	out := make([]domain.Movie, 0, len(catalog))
	for _, m := range catalog {
		if _, ok := rated[m.ID]; !ok {
			out = append(out, m)
		}
	}
	return out
}

func rank(userID domain.UserID, candidates []domain.Movie, sc scores, limit int) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(sc))
	for _, m := range candidates {
		score, ok := sc[m.ID]
		if !ok {
			continue
		}
		recs = append(recs, domain.Recommendation{Movie: m, UserID: userID, Score: score})
	}

	slices.SortFunc(recs, func(a, b domain.Recommendation) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Movie.ID, b.Movie.ID)
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}
