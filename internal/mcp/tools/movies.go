package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/movie-recommender/internal/domain"
	"github.com/honeycarbs/movie-recommender/internal/repository"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

// ListMoviesParams defines the arguments for the list_movies tool
type ListMoviesParams struct {
	Offset int `json:"offset,omitempty" jsonschema:"Number of movies to skip in ID order"`
	Limit  int `json:"limit,omitempty" jsonschema:"Maximum number of movies to return, 0 for all"`
}

// ListMoviesResult is the structured response of list_movies
type ListMoviesResult struct {
	Movies []domain.Movie `json:"movies" jsonschema:"Movies ordered by ID"`
	Total  int            `json:"total" jsonschema:"Catalog size before paging"`
}

// UserParams identifies the user a tool operates on
type UserParams struct {
	UserID int64 `json:"user_id" jsonschema:"User identifier"`
}

// UserMoviesResult is the structured response of movies_rated_by_user
type UserMoviesResult struct {
	UserID domain.UserID  `json:"user_id"`
	Movies []domain.Movie `json:"movies"`
}

// UserRatingsResult is the structured response of user_ratings
type UserRatingsResult struct {
	UserID  domain.UserID   `json:"user_id"`
	Ratings []domain.Rating `json:"ratings"`
}

type movieTools struct {
	movies  repository.MovieReader
	ratings repository.RatingReader
	logger  *logging.Logger
}

// WithMovieTools registers list_movies, movies_rated_by_user and user_ratings
func WithMovieTools(movies repository.MovieReader, ratings repository.RatingReader) Option {
	return func(reg *registry) {
		h := movieTools{movies: movies, ratings: ratings, logger: reg.logger}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "list_movies",
			Description: "List the movie catalog ordered by movie ID, each with its genres",
		}, h.listMovies)
		reg.add("list_movies")

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "movies_rated_by_user",
			Description: "List the movies a user has rated",
		}, h.moviesRatedByUser)
		reg.add("movies_rated_by_user")

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "user_ratings",
			Description: "List every rating a user has given, with the rated movie and note",
		}, h.userRatings)
		reg.add("user_ratings")
	}
}

func (t movieTools) listMovies(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListMoviesParams) (*sdkmcp.CallToolResult, any, error) {
	if t.movies == nil {
		return nil, nil, fmt.Errorf("movie repository not configured")
	}
	if params.Offset < 0 || params.Limit < 0 {
		return nil, nil, fmt.Errorf("offset and limit must not be negative")
	}

	movies, err := t.movies.GetAllMovies(ctx)
	if err != nil {
		t.logger.Error("list_movies failed", "err", err)
		return nil, nil, fmt.Errorf("failed to list movies: %w", err)
	}

	result := ListMoviesResult{Total: len(movies), Movies: page(movies, params.Offset, params.Limit)}

	t.logger.Debug("list_movies completed", "total", result.Total, "returned", len(result.Movies))

	var sb strings.Builder
	fmt.Fprintf(&sb, "[list_movies] %d of %d movie(s)", len(result.Movies), result.Total)
	for _, m := range result.Movies {
		sb.WriteString("\n- " + formatMovie(m))
	}
	return textResult(sb.String()), result, nil
}

func (t movieTools) moviesRatedByUser(ctx context.Context, _ *sdkmcp.CallToolRequest, params UserParams) (*sdkmcp.CallToolResult, any, error) {
	if t.movies == nil {
		return nil, nil, fmt.Errorf("movie repository not configured")
	}

	userID := domain.UserID(params.UserID)
	movies, err := t.movies.GetMoviesRatedByUser(ctx, userID)
	if err != nil {
		t.logger.Error("movies_rated_by_user failed", "user_id", userID, "err", err)
		return nil, nil, fmt.Errorf("failed to load movies rated by user %d: %w", userID, err)
	}

	result := UserMoviesResult{UserID: userID, Movies: movies}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[movies_rated_by_user] user %d rated %d movie(s)", userID, len(movies))
	for _, m := range movies {
		sb.WriteString("\n- " + formatMovie(m))
	}
	return textResult(sb.String()), result, nil
}

func (t movieTools) userRatings(ctx context.Context, _ *sdkmcp.CallToolRequest, params UserParams) (*sdkmcp.CallToolResult, any, error) {
	if t.ratings == nil {
		return nil, nil, fmt.Errorf("rating repository not configured")
	}

	userID := domain.UserID(params.UserID)
	ratings, err := t.ratings.GetRatingsFromUser(ctx, userID)
	if err != nil {
		t.logger.Error("user_ratings failed", "user_id", userID, "err", err)
		return nil, nil, fmt.Errorf("failed to load ratings of user %d: %w", userID, err)
	}

	result := UserRatingsResult{UserID: userID, Ratings: ratings}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[user_ratings] user %d has %d rating(s)", userID, len(ratings))
	for _, r := range ratings {
		fmt.Fprintf(&sb, "\n- %s: %d/%d", formatMovie(r.Movie), r.Note, domain.MaxNote)
	}
	return textResult(sb.String()), result, nil
}

func page(movies []domain.Movie, offset, limit int) []domain.Movie {
	if offset >= len(movies) {
		return []domain.Movie{}
	}
	movies = movies[offset:]
	if limit > 0 && limit < len(movies) {
		movies = movies[:limit]
	}
	return movies
}
