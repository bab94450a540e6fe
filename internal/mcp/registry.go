package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/movie-recommender/internal/mcp/tools"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

// ToolRegistry turns Resources into registered MCP tools
type ToolRegistry struct {
	logger *logging.Logger
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	return &ToolRegistry{logger: logger}
}

// RegisterAll registers every tool whose dependencies are present
func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res *Resources) []string {
	if res == nil {
		res = &Resources{}
	}

	var opts []tools.Option

	if res.Store != nil {
		opts = append(opts, tools.WithMovieTools(res.Store, res.Store))
	}
	if res.Ratings != nil {
		opts = append(opts, tools.WithRateMovie(res.Ratings))
	}
	if res.Recommender != nil {
		opts = append(opts, tools.WithRecommendMovies(res.Recommender))
		if res.Exporter != nil {
			opts = append(opts, tools.WithRecommendationsExport(res.Recommender, res.Exporter))
		}
	}
	if res.Neo4jClient != nil {
		opts = append(opts, tools.WithGraphTool(res.Neo4jClient))
	}

	return tools.Register(server, r.logger, opts...)
}
