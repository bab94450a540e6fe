package mcp

import (
	"context"

	"github.com/honeycarbs/movie-recommender/internal/mcp/tools"
	"github.com/honeycarbs/movie-recommender/internal/repository"
	n4j "github.com/honeycarbs/movie-recommender/pkg/neo4j"
)

// Resources holds everything the MCP tools are built from
type Resources struct {
	Store       repository.MovieRepository
	Ratings     tools.RatingService
	Recommender tools.Recommender
	Exporter    tools.SheetsExporter
	Neo4jClient *n4j.Client
}

// Shutdown closes the store and with it the Neo4j driver
func (r *Resources) Shutdown(ctx context.Context) error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close(ctx)
}
