package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/movie-recommender/internal/config"
	"github.com/honeycarbs/movie-recommender/internal/repository"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

func TestInitializeResourcesUnreachableNeo4j(t *testing.T) {
	var cfg config.Config
	cfg.Neo4j.URI = "neo4j://127.0.0.1:1"
	cfg.Neo4j.Username = "neo4j"
	cfg.Neo4j.Password = "secret"

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, cleanup, err := InitializeResources(ctx, cfg, logging.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrConnection)
	assert.Nil(t, res)
	assert.Nil(t, cleanup)
}

func TestProvideNeo4jClientRejectsBadURI(t *testing.T) {
	_, _, err := provideNeo4jClient(context.Background(), provideNeo4jConfig(config.Config{}), logging.NewNop())
	assert.ErrorIs(t, err, repository.ErrConnection)
}
