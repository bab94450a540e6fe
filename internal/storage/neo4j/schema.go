package neo4j

import (
	"context"
	"fmt"

	"github.com/honeycarbs/movie-recommender/internal/repository"
)

var schemaStatements = []string{
	`CREATE CONSTRAINT movie_id_unique IF NOT EXISTS FOR (m:Movie) REQUIRE m.id IS UNIQUE`,
	`CREATE CONSTRAINT genre_id_unique IF NOT EXISTS FOR (g:Genre) REQUIRE g.id IS UNIQUE`,
	`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
}

// EnsureSchema creates the uniqueness constraints the rating upsert relies on.
// Each statement runs in its own transaction since schema and data writes cannot mix.
func (s *MovieStore) EnsureSchema(ctx context.Context) error {
	if s.closed.Load() {
		return repository.ErrClosed
	}

	for _, stmt := range schemaStatements {
		if _, err := s.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure schema: %w", classify("ensure_schema", err))
		}
	}

	s.logger.Info("neo4j schema constraints ensured", "count", len(schemaStatements))
	return nil
}
