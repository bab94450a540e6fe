package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/movie-recommender/internal/config"
	"github.com/honeycarbs/movie-recommender/internal/domain/rating"
	"github.com/honeycarbs/movie-recommender/internal/domain/recommendation"
	"github.com/honeycarbs/movie-recommender/internal/mcp/tools"
	"github.com/honeycarbs/movie-recommender/internal/repository"
	storage "github.com/honeycarbs/movie-recommender/internal/storage/neo4j"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
	n4j "github.com/honeycarbs/movie-recommender/pkg/neo4j"
	sheetsclient "github.com/honeycarbs/movie-recommender/pkg/sheets"
)

// provideNeo4jConfig extracts Neo4j config from main config
func provideNeo4jConfig(cfg config.Config) n4j.Config {
	return n4j.Config{
		URI:                   cfg.Neo4j.URI,
		Username:              cfg.Neo4j.Username,
		Password:              cfg.Neo4j.Password,
		Database:              cfg.Neo4j.Database,
		MaxConnectionPoolSize: cfg.Neo4j.MaxPoolSize,
	}
}

// provideNeo4jClient connects to Neo4j; cleanup closes the driver.
// Any construction failure, including rejected credentials, is an ErrConnection.
func provideNeo4jClient(ctx context.Context, cfg n4j.Config, logger *logging.Logger) (*n4j.Client, func(), error) {
	client, err := n4j.NewClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", repository.ErrConnection, err)
	}
	logger.Info("Neo4j client initialized", "uri", cfg.URI)
	cleanup := func() {
		if err := client.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("closing Neo4j client failed", "err", err)
		}
	}
	return client, cleanup, nil
}

func provideMovieStore(client *n4j.Client, logger *logging.Logger) *storage.MovieStore {
	return storage.NewMovieStore(client, logger.Named("neo4j"))
}

func provideRatingService(store *storage.MovieStore, logger *logging.Logger) (*rating.Service, error) {
	return rating.NewService(store, logger)
}

func provideRecommendationService(cfg config.Config, store *storage.MovieStore, logger *logging.Logger) (*recommendation.Service, error) {
	return recommendation.NewService(store, store,
		recommendation.WithLimit(cfg.Recommendation.Limit),
		recommendation.WithNeighbours(cfg.Recommendation.Neighbours),
		recommendation.WithLogger(logger),
	)
}

// provideSheetsExporter returns nil when no credentials are configured
func provideSheetsExporter(ctx context.Context, cfg config.Config, logger *logging.Logger) (tools.SheetsExporter, error) {
	if cfg.Sheets.CredentialsPath == "" {
		logger.Info("Google Sheets export disabled", "reason", "GOOGLE_SHEETS_CREDENTIALS_PATH not set")
		return nil, nil
	}

	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized")
	return newSheetsClientAdapter(client), nil
}

// newResources creates Resources struct
func newResources(
	store *storage.MovieStore,
	ratingSvc *rating.Service,
	recommender *recommendation.Service,
	exporter tools.SheetsExporter,
	neo4jClient *n4j.Client,
) *Resources {
	return &Resources{
		Store:       store,
		Ratings:     ratingSvc,
		Recommender: recommender,
		Exporter:    exporter,
		Neo4jClient: neo4jClient,
	}
}
