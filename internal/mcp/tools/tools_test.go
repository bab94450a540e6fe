package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/movie-recommender/internal/domain"
	"github.com/honeycarbs/movie-recommender/internal/domain/rating"
	"github.com/honeycarbs/movie-recommender/internal/domain/recommendation"
	"github.com/honeycarbs/movie-recommender/internal/repository"
	"github.com/honeycarbs/movie-recommender/internal/storage/memory"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

var (
	scifi   = domain.Genre{ID: 1, Name: "SciFi"}
	romance = domain.Genre{ID: 2, Name: "Romance"}
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New(
		domain.Movie{ID: 1, Title: "Matrix", Genres: []domain.Genre{scifi}},
		domain.Movie{ID: 2, Title: "Alien", Genres: []domain.Genre{scifi}},
		domain.Movie{ID: 3, Title: "Notebook", Genres: []domain.Genre{romance}},
	)
	_, err := store.AddOrUpdateRating(context.Background(), domain.Rating{Movie: domain.Movie{ID: 1}, UserID: 7, Note: 5})
	require.NoError(t, err)
	return store
}

func text(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

type fakeRecommender struct {
	recs   []domain.Recommendation
	err    error
	userID domain.UserID
	mode   recommendation.Mode
}

func (f *fakeRecommender) ProcessRecommendationsForUser(_ context.Context, userID domain.UserID, mode recommendation.Mode) ([]domain.Recommendation, error) {
	f.userID = userID
	f.mode = mode
	return f.recs, f.err
}

type fakeExporter struct {
	req SheetsExportRequest
	err error
}

func (f *fakeExporter) Export(_ context.Context, req SheetsExportRequest) (SheetsExportResult, error) {
	f.req = req
	if f.err != nil {
		return SheetsExportResult{}, f.err
	}
	return SheetsExportResult{
		SpreadsheetID: req.Sheet.SpreadsheetID,
		Tab:           req.Sheet.Tab,
		WrittenRows:   len(req.Rows),
		Mode:          "append",
	}, nil
}

type fakeGraph struct {
	query   string
	params  map[string]any
	records []*neo4j.Record
	err     error
}

func (f *fakeGraph) ExecuteRead(_ context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	f.query = query
	f.params = params
	return f.records, f.err
}

func TestRegisterAllTools(t *testing.T) {
	store := newStore(t)
	ratings, err := rating.NewService(store, nil)
	require.NoError(t, err)

	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	names := Register(server, logging.NewNop(),
		WithMovieTools(store, store),
		WithRateMovie(ratings),
		WithRecommendMovies(&fakeRecommender{}),
		WithRecommendationsExport(&fakeRecommender{}, &fakeExporter{}),
		WithGraphTool(&fakeGraph{}),
		nil,
	)

	assert.Equal(t, []string{
		"list_movies",
		"movies_rated_by_user",
		"user_ratings",
		"rate_movie",
		"recommend_movies",
		"recommendations_export",
		"graph_tool",
	}, names)
}

func TestListMovies(t *testing.T) {
	h := movieTools{movies: newStore(t), logger: logging.NewNop()}

	res, out, err := h.listMovies(context.Background(), nil, ListMoviesParams{})
	require.NoError(t, err)
	result := out.(ListMoviesResult)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Movies, 3)
	assert.Equal(t, domain.MovieID(1), result.Movies[0].ID)
	assert.Contains(t, text(t, res), "#1 Matrix [SciFi]")

	_, out, err = h.listMovies(context.Background(), nil, ListMoviesParams{Offset: 1, Limit: 1})
	require.NoError(t, err)
	result = out.(ListMoviesResult)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Movies, 1)
	assert.Equal(t, "Alien", result.Movies[0].Title)

	_, out, err = h.listMovies(context.Background(), nil, ListMoviesParams{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, out.(ListMoviesResult).Movies)

	_, _, err = h.listMovies(context.Background(), nil, ListMoviesParams{Limit: -1})
	require.Error(t, err)
}

func TestUserTools(t *testing.T) {
	store := newStore(t)
	h := movieTools{movies: store, ratings: store, logger: logging.NewNop()}

	res, out, err := h.moviesRatedByUser(context.Background(), nil, UserParams{UserID: 7})
	require.NoError(t, err)
	movies := out.(UserMoviesResult)
	require.Len(t, movies.Movies, 1)
	assert.Equal(t, "Matrix", movies.Movies[0].Title)
	assert.Contains(t, text(t, res), "user 7 rated 1 movie(s)")

	res, out, err = h.userRatings(context.Background(), nil, UserParams{UserID: 7})
	require.NoError(t, err)
	ratings := out.(UserRatingsResult)
	require.Len(t, ratings.Ratings, 1)
	assert.Equal(t, 5, ratings.Ratings[0].Note)
	assert.Contains(t, text(t, res), "#1 Matrix [SciFi]: 5/5")

	_, out, err = h.userRatings(context.Background(), nil, UserParams{UserID: 8})
	require.NoError(t, err)
	assert.Empty(t, out.(UserRatingsResult).Ratings)
}

func TestMovieToolsClosedStore(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Close(context.Background()))
	h := movieTools{movies: store, ratings: store, logger: logging.NewNop()}

	_, _, err := h.listMovies(context.Background(), nil, ListMoviesParams{})
	assert.ErrorIs(t, err, repository.ErrClosed)

	_, _, err = h.userRatings(context.Background(), nil, UserParams{UserID: 7})
	assert.ErrorIs(t, err, repository.ErrClosed)
}

func TestRateMovie(t *testing.T) {
	store := newStore(t)
	svc, err := rating.NewService(store, nil)
	require.NoError(t, err)
	h := rateMovieTool{service: svc, logger: logging.NewNop()}

	res, out, err := h.handle(context.Background(), nil, RateMovieParams{UserID: 8, MovieID: 2, Note: 4})
	require.NoError(t, err)
	assert.True(t, out.(rating.Result).Created)
	assert.Contains(t, text(t, res), "created rating of user 8 for movie 2: 4/5")

	res, out, err = h.handle(context.Background(), nil, RateMovieParams{UserID: 8, MovieID: 2, Note: 2})
	require.NoError(t, err)
	assert.False(t, out.(rating.Result).Created)
	assert.Contains(t, text(t, res), "updated")

	got, err := store.GetRatingsFromUser(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Note)

	_, _, err = h.handle(context.Background(), nil, RateMovieParams{UserID: 8, MovieID: 2, Note: 6})
	assert.ErrorIs(t, err, rating.ErrInvalidRating)

	_, _, err = h.handle(context.Background(), nil, RateMovieParams{UserID: 8, MovieID: 42, Note: 3})
	assert.ErrorIs(t, err, repository.ErrMovieNotFound)
}

func TestRecommendMovies(t *testing.T) {
	rec := &fakeRecommender{recs: []domain.Recommendation{
		{Movie: domain.Movie{ID: 2, Title: "Alien", Genres: []domain.Genre{scifi}}, UserID: 7, Score: 4.5},
		{Movie: domain.Movie{ID: 3, Title: "Notebook"}, UserID: 7, Score: 2},
	}}
	h := recommendTool{recommender: rec, logger: logging.NewNop()}

	res, out, err := h.handle(context.Background(), nil, RecommendParams{UserID: 7, Mode: 2})
	require.NoError(t, err)

	assert.Equal(t, domain.UserID(7), rec.userID)
	assert.Equal(t, recommendation.ModeHybrid, rec.mode)

	result := out.(RecommendResult)
	_, err = uuid.Parse(result.RunID)
	require.NoError(t, err)
	assert.Equal(t, "hybrid", result.Mode)
	assert.Len(t, result.Recommendations, 2)

	msg := text(t, res)
	assert.Contains(t, msg, "1. #2 Alien [SciFi] (4.50)")
	assert.Contains(t, msg, "2. #3 Notebook (2.00)")

	_, out, err = h.handle(context.Background(), nil, RecommendParams{UserID: 7, Mode: 9})
	require.NoError(t, err)
	assert.Equal(t, "default", out.(RecommendResult).Mode)

	rec.err = repository.ErrConnection
	_, _, err = h.handle(context.Background(), nil, RecommendParams{UserID: 7})
	assert.ErrorIs(t, err, repository.ErrConnection)
}

func TestRecommendationsExport(t *testing.T) {
	rec := &fakeRecommender{recs: []domain.Recommendation{
		{Movie: domain.Movie{ID: 2, Title: "Alien", Genres: []domain.Genre{scifi, romance}}, UserID: 7, Score: 4.25},
		{Movie: domain.Movie{ID: 3, Title: "Notebook"}, UserID: 7, Score: 3},
	}}
	exp := &fakeExporter{}
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	h := exportTool{recommender: rec, exporter: exp, logger: logging.NewNop(), now: func() time.Time { return fixed }}

	params := RecommendationsExportParams{UserID: 7, Mode: 0, ClearTab: true}
	params.Sheet.SpreadsheetID = "sheet-1"
	params.Sheet.Tab = "Recs"

	res, out, err := h.handle(context.Background(), nil, params)
	require.NoError(t, err)

	result := out.(SheetsExportResult)
	assert.Equal(t, 2, result.WrittenRows)
	assert.Equal(t, "sheet-1", result.SpreadsheetID)
	assert.NotEmpty(t, result.RunID)
	assert.Contains(t, text(t, res), "2 row(s) written to sheet-1")

	assert.True(t, exp.req.ClearTab)
	assert.False(t, exp.req.Upsert)
	require.Len(t, exp.req.Rows, 2)
	assert.Equal(t, []interface{}{
		result.RunID, "7", "content_based", 1, "2", "Alien", "SciFi|Romance", "4.25", "2025-01-02T03:04:05Z",
	}, exp.req.Rows[0].Values())
	assert.Equal(t, 2, exp.req.Rows[1].Rank)
}

func TestRecommendationsExportErrors(t *testing.T) {
	rec := &fakeRecommender{}
	exp := &fakeExporter{err: errors.New("quota exceeded")}
	h := exportTool{recommender: rec, exporter: exp, logger: logging.NewNop(), now: time.Now}

	_, _, err := h.handle(context.Background(), nil, RecommendationsExportParams{UserID: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheet_id")

	params := RecommendationsExportParams{UserID: 7}
	params.Sheet.SpreadsheetID = "sheet-1"
	_, _, err = h.handle(context.Background(), nil, params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestBuildGraphQuery(t *testing.T) {
	userID := int64(7)
	movieID := int64(2)

	query, params := buildGraphQuery(GraphToolParams{})
	assert.Equal(t, labelCountQuery, query)
	assert.Nil(t, params)

	query, params = buildGraphQuery(GraphToolParams{UserID: &userID})
	assert.Equal(t, userGraphQuery, query)
	assert.Equal(t, map[string]any{"userId": int64(7)}, params)

	query, params = buildGraphQuery(GraphToolParams{MovieID: &movieID})
	assert.Equal(t, movieGraphQuery, query)
	assert.Equal(t, map[string]any{"movieId": int64(2)}, params)

	query, params = buildGraphQuery(GraphToolParams{Cypher: "MATCH (m:Movie) RETURN m"})
	assert.Equal(t, "MATCH (m:Movie) RETURN m", query)
	assert.Nil(t, params)

	_, params = buildGraphQuery(GraphToolParams{Cypher: "RETURN $userId, $movieId", UserID: &userID, MovieID: &movieID})
	assert.Equal(t, map[string]any{"userId": int64(7), "movieId": int64(2)}, params)
}

func TestGraphToolFormatsRecords(t *testing.T) {
	graph := &fakeGraph{records: []*neo4j.Record{{
		Keys: []string{"m", "genres", "ratings", "meanNote"},
		Values: []any{
			neo4j.Node{Labels: []string{"Movie"}, Props: map[string]any{"title": "Matrix"}},
			[]any{"SciFi"},
			int64(3),
			nil,
		},
	}}}
	h := graphToolHandler{client: graph, logger: logging.NewNop()}

	res, _, err := h.handle(context.Background(), nil, GraphToolParams{})
	require.NoError(t, err)

	msg := text(t, res)
	assert.Contains(t, msg, "Row 1:")
	assert.Contains(t, msg, `m: Node[Movie] {"title":"Matrix"}`)
	assert.Contains(t, msg, `genres: ["SciFi"]`)
	assert.Contains(t, msg, "ratings: 3")
	assert.Contains(t, msg, "meanNote: null")

	graph.records = nil
	res, _, err = h.handle(context.Background(), nil, GraphToolParams{})
	require.NoError(t, err)
	assert.Equal(t, "Query executed successfully but returned no rows", text(t, res))

	graph.err = errors.New("syntax error")
	_, _, err = h.handle(context.Background(), nil, GraphToolParams{Cypher: "MATCH"})
	require.Error(t, err)
}
