package main

import (
	"context"
	"fmt"
	"log"
	"os"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// Hardcoded test data, MovieLens IDs
	testUserID  = 1
	testMovieID = 1
)

func main() {
	ctx := context.Background()

	endpoint := os.Getenv("MCP_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8080/mcp/stream"
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "movie-recommender-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	testListMovies(ctx, session)
	testRateMovie(ctx, session)
	testUserRatings(ctx, session)
	testRecommendations(ctx, session)
	testGraphTool(ctx, session)

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: tools/list")

	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		log.Printf("tools/list failed: %v", err)
		return
	}
	for _, tool := range res.Tools {
		fmt.Printf("- %s: %s\n", tool.Name, tool.Description)
	}
}

func testListMovies(ctx context.Context, session *mcp.ClientSession) {
	call(ctx, session, "list_movies", map[string]any{"limit": 5})
}

func testRateMovie(ctx context.Context, session *mcp.ClientSession) {
	call(ctx, session, "rate_movie", map[string]any{
		"user_id":  testUserID,
		"movie_id": testMovieID,
		"note":     4,
	})

	// same pair again overwrites the note
	call(ctx, session, "rate_movie", map[string]any{
		"user_id":  testUserID,
		"movie_id": testMovieID,
		"note":     5,
	})

	// out of range, expected to fail
	call(ctx, session, "rate_movie", map[string]any{
		"user_id":  testUserID,
		"movie_id": testMovieID,
		"note":     7,
	})
}

func testUserRatings(ctx context.Context, session *mcp.ClientSession) {
	call(ctx, session, "user_ratings", map[string]any{"user_id": testUserID})
	call(ctx, session, "movies_rated_by_user", map[string]any{"user_id": testUserID})
}

func testRecommendations(ctx context.Context, session *mcp.ClientSession) {
	for _, mode := range []int{0, 1, 2, 99} {
		call(ctx, session, "recommend_movies", map[string]any{
			"user_id": testUserID,
			"mode":    mode,
		})
	}
}

func testGraphTool(ctx context.Context, session *mcp.ClientSession) {
	call(ctx, session, "graph_tool", map[string]any{})
	call(ctx, session, "graph_tool", map[string]any{"user_id": testUserID})
	call(ctx, session, "graph_tool", map[string]any{"movie_id": testMovieID})
	call(ctx, session, "graph_tool", map[string]any{
		"cypher":  "MATCH (u:User {id: $userId})-[r:RATED]->(m:Movie) RETURN m.title AS title, r.note AS note LIMIT 5",
		"user_id": testUserID,
	})
}

func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) {
	fmt.Printf("\nTEST: %s %v\n", name, args)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		log.Printf("%s failed: %v", name, err)
		return
	}

	printResult(result)
	if result.IsError {
		fmt.Printf("%s returned a tool error\n", name)
		return
	}
	fmt.Printf("%s passed\n", name)
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
