//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/movie-recommender/internal/config"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Infrastructure - Neo4j
		provideNeo4jConfig,
		provideNeo4jClient,

		// Repositories
		provideMovieStore,

		// Services
		provideRatingService,
		provideRecommendationService,

		// Export
		provideSheetsExporter,

		newResources,
	)

	return nil, nil, nil
}
