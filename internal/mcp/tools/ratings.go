package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/movie-recommender/internal/domain"
	"github.com/honeycarbs/movie-recommender/internal/domain/rating"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

// RatingService validates and stores ratings
type RatingService interface {
	AddOrUpdateRating(ctx context.Context, in rating.Input) (rating.Result, error)
}

// RateMovieParams defines the arguments for the rate_movie tool
type RateMovieParams struct {
	UserID  int64 `json:"user_id" jsonschema:"User giving the rating"`
	MovieID int64 `json:"movie_id" jsonschema:"Movie being rated"`
	Note    int   `json:"note" jsonschema:"Rating note from 1 to 5"`
}

type rateMovieTool struct {
	service RatingService
	logger  *logging.Logger
}

// WithRateMovie registers the rate_movie tool
func WithRateMovie(service RatingService) Option {
	return func(reg *registry) {
		h := rateMovieTool{service: service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "rate_movie",
			Description: "Add a user's rating for a movie, or overwrite the existing one",
		}, h.handle)
		reg.add("rate_movie")
	}
}

func (t rateMovieTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params RateMovieParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("rating service not configured")
	}

	t.logger.Debug("rate_movie request", "user_id", params.UserID, "movie_id", params.MovieID, "note", params.Note)

	result, err := t.service.AddOrUpdateRating(ctx, rating.Input{
		UserID:  domain.UserID(params.UserID),
		MovieID: domain.MovieID(params.MovieID),
		Note:    params.Note,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rate movie: %w", err)
	}

	action := "updated"
	if result.Created {
		action = "created"
	}
	msg := fmt.Sprintf("[rate_movie] %s rating of user %d for movie %d: %d/%d",
		action, params.UserID, params.MovieID, params.Note, domain.MaxNote)
	return textResult(msg), result, nil
}
