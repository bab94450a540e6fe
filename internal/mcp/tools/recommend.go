package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/movie-recommender/internal/domain"
	"github.com/honeycarbs/movie-recommender/internal/domain/recommendation"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

// Recommender produces ranked recommendations for a user
type Recommender interface {
	ProcessRecommendationsForUser(ctx context.Context, userID domain.UserID, mode recommendation.Mode) ([]domain.Recommendation, error)
}

// RecommendParams defines the arguments for the recommend_movies tool
type RecommendParams struct {
	UserID int64 `json:"user_id" jsonschema:"User to recommend movies for"`
	Mode   int   `json:"mode,omitempty" jsonschema:"0 content based, 1 collaborative, 2 hybrid, any other value the default strategy"`
}

// RecommendResult is the structured response of recommend_movies
type RecommendResult struct {
	RunID           string                  `json:"run_id"`
	UserID          domain.UserID           `json:"user_id"`
	Mode            string                  `json:"mode"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

type recommendTool struct {
	recommender Recommender
	logger      *logging.Logger
}

// WithRecommendMovies registers the recommend_movies tool
func WithRecommendMovies(recommender Recommender) Option {
	return func(reg *registry) {
		h := recommendTool{recommender: recommender, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "recommend_movies",
			Description: "Recommend movies the user has not rated yet, best predicted note first",
		}, h.handle)
		reg.add("recommend_movies")
	}
}

func (t recommendTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params RecommendParams) (*sdkmcp.CallToolResult, any, error) {
	if t.recommender == nil {
		return nil, nil, fmt.Errorf("recommender not configured")
	}

	result, err := recommend(ctx, t.recommender, domain.UserID(params.UserID), recommendation.Mode(params.Mode))
	if err != nil {
		t.logger.Error("recommend_movies failed", "user_id", params.UserID, "mode", params.Mode, "err", err)
		return nil, nil, err
	}

	t.logger.Info("recommend_movies completed",
		"run_id", result.RunID,
		"user_id", result.UserID,
		"mode", result.Mode,
		"count", len(result.Recommendations),
	)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[recommend_movies] run %s: %d %s recommendation(s) for user %d",
		result.RunID, len(result.Recommendations), result.Mode, result.UserID)
	for i, r := range result.Recommendations {
		fmt.Fprintf(&sb, "\n%d. %s (%.2f)", i+1, formatMovie(r.Movie), r.Score)
	}
	return textResult(sb.String()), result, nil
}

func recommend(ctx context.Context, r Recommender, userID domain.UserID, mode recommendation.Mode) (RecommendResult, error) {
	recs, err := r.ProcessRecommendationsForUser(ctx, userID, mode)
	if err != nil {
		return RecommendResult{}, fmt.Errorf("failed to recommend movies for user %d: %w", userID, err)
	}
	return RecommendResult{
		RunID:           uuid.NewString(),
		UserID:          userID,
		Mode:            mode.String(),
		Recommendations: recs,
	}, nil
}
