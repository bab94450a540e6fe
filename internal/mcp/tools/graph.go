package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

const (
	userGraphQuery = `
		MATCH (u:User {id: $userId})
		OPTIONAL MATCH (u)-[r:RATED]->(m:Movie)
		RETURN u, count(r) AS ratings, avg(r.note) AS meanNote,
		       collect({movie: m.title, note: r.note})[..20] AS sample
	`
	movieGraphQuery = `
		MATCH (m:Movie {id: $movieId})
		OPTIONAL MATCH (m)-[:CATEGORIZED_AS]->(g:Genre)
		OPTIONAL MATCH (:User)-[r:RATED]->(m)
		RETURN m, collect(DISTINCT g.name) AS genres, count(DISTINCT r) AS ratings, avg(r.note) AS meanNote
	`
	labelCountQuery = "MATCH (n) RETURN labels(n) AS labels, count(n) AS count ORDER BY count DESC LIMIT 20"
)

// GraphQuerier runs read-only Cypher
type GraphQuerier interface {
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)
}

// GraphToolParams defines the arguments for the graph_tool tool
type GraphToolParams struct {
	Cypher  string `json:"cypher,omitempty" jsonschema:"Custom read-only Cypher query to run"`
	UserID  *int64 `json:"user_id,omitempty" jsonschema:"Bound as $userId, or summarises the user when no query is given"`
	MovieID *int64 `json:"movie_id,omitempty" jsonschema:"Bound as $movieId, or summarises the movie when no query is given"`
}

type graphToolHandler struct {
	client GraphQuerier
	logger *logging.Logger
}

// WithGraphTool registers the graph_tool
func WithGraphTool(client GraphQuerier) Option {
	return func(reg *registry) {
		handler := graphToolHandler{client: client, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "graph_tool",
			Description: "Developer tool for inspecting the movie rating graph in Neo4j",
		}, handler.handle)
		reg.add("graph_tool")
	}
}

func (h graphToolHandler) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params GraphToolParams) (*sdkmcp.CallToolResult, any, error) {
	if h.client == nil {
		return textResult("graph_tool unavailable: Neo4j client not configured"), nil, fmt.Errorf("Neo4j client not configured")
	}

	query, queryParams := buildGraphQuery(params)

	records, err := h.client.ExecuteRead(ctx, query, queryParams)
	if err != nil {
		h.logger.Warn("graph_tool query failed", "err", err)
		return textResult(fmt.Sprintf("graph_tool error: %v", err)), nil, fmt.Errorf("query execution failed: %w", err)
	}

	return textResult(formatRecords(records)), nil, nil
}

func buildGraphQuery(params GraphToolParams) (string, map[string]any) {
	bound := make(map[string]any)
	if params.UserID != nil {
		bound["userId"] = *params.UserID
	}
	if params.MovieID != nil {
		bound["movieId"] = *params.MovieID
	}

	switch {
	case strings.TrimSpace(params.Cypher) != "":
		if len(bound) == 0 {
			return params.Cypher, nil
		}
		return params.Cypher, bound
	case params.UserID != nil:
		return userGraphQuery, map[string]any{"userId": *params.UserID}
	case params.MovieID != nil:
		return movieGraphQuery, map[string]any{"movieId": *params.MovieID}
	default:
		return labelCountQuery, nil
	}
}

func formatRecords(records []*neo4j.Record) string {
	if len(records) == 0 {
		return "Query executed successfully but returned no rows"
	}

	var sb strings.Builder
	sb.WriteString("Results:\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for i, record := range records {
		fmt.Fprintf(&sb, "Row %d:\n", i+1)
		for j, key := range record.Keys {
			var val any
			if j < len(record.Values) {
				val = record.Values[j]
			}
			fmt.Fprintf(&sb, "  %s: %s\n", key, formatValue(val))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatValue(val any) string {
	if val == nil {
		return "null"
	}

	switch v := val.(type) {
	case neo4j.Node:
		propsJSON, _ := json.Marshal(v.Props)
		return fmt.Sprintf("Node%v %s", v.Labels, string(propsJSON))
	case neo4j.Relationship:
		propsJSON, _ := json.Marshal(v.Props)
		return fmt.Sprintf("Relationship[%s] %s", v.Type, string(propsJSON))
	case []any:
		if len(v) == 0 {
			return "[]"
		}
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, formatValue(item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		jsonBytes, _ := json.Marshal(v)
		return string(jsonBytes)
	case string:
		return fmt.Sprintf("%q", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(jsonBytes)
	}
}
