package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/movie-recommender/internal/domain"
	"github.com/honeycarbs/movie-recommender/internal/domain/recommendation"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

// SheetRow is one exported recommendation
type SheetRow struct {
	RunID       string
	UserID      domain.UserID
	Mode        string
	Rank        int
	MovieID     domain.MovieID
	Title       string
	Genres      string
	Score       float64
	GeneratedAt time.Time
}

// Values renders the row as spreadsheet cells
func (r SheetRow) Values() []interface{} {
	return []interface{}{
		r.RunID,
		strconv.FormatInt(int64(r.UserID), 10),
		r.Mode,
		r.Rank,
		strconv.FormatInt(int64(r.MovieID), 10),
		r.Title,
		r.Genres,
		strconv.FormatFloat(r.Score, 'f', 2, 64),
		r.GeneratedAt.Format(time.RFC3339),
	}
}

// SheetTarget identifies where rows are written
type SheetTarget struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
	Tab           string `json:"tab,omitempty" jsonschema:"Tab name, Sheet1 when empty"`
	Range         string `json:"range,omitempty" jsonschema:"Optional A1 range override"`
}

// SheetsExportRequest is handed to the SheetsExporter
type SheetsExportRequest struct {
	Sheet    SheetTarget
	Rows     []SheetRow
	Upsert   bool
	ClearTab bool
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	RunID         string    `json:"run_id" jsonschema:"Recommendation run that was exported"`
	SpreadsheetID string    `json:"spreadsheet_id" jsonschema:"Target spreadsheet ID"`
	Tab           string    `json:"tab,omitempty" jsonschema:"Target tab name"`
	WrittenRows   int       `json:"written_rows" jsonschema:"How many rows were written"`
	Mode          string    `json:"mode" jsonschema:"append or upsert"`
	CompletedAt   time.Time `json:"completed_at" jsonschema:"Timestamp when export finished"`
	Message       string    `json:"message,omitempty" jsonschema:"Optional status message"`
}

// SheetsExporter writes rows to a spreadsheet
type SheetsExporter interface {
	Export(ctx context.Context, req SheetsExportRequest) (SheetsExportResult, error)
}

// RecommendationsExportParams defines the arguments for the recommendations_export tool
type RecommendationsExportParams struct {
	UserID   int64       `json:"user_id" jsonschema:"User to recommend movies for"`
	Mode     int         `json:"mode,omitempty" jsonschema:"0 content based, 1 collaborative, 2 hybrid, any other value the default strategy"`
	Upsert   bool        `json:"upsert,omitempty" jsonschema:"Overwrite rows from A2 instead of appending"`
	ClearTab bool        `json:"clear_tab,omitempty" jsonschema:"If true, clears the tab before writing"`
	Sheet    SheetTarget `json:"sheet" jsonschema:"Destination sheet information"`
}

type exportTool struct {
	recommender Recommender
	exporter    SheetsExporter
	logger      *logging.Logger
	now         func() time.Time
}

// WithRecommendationsExport registers the recommendations_export tool
func WithRecommendationsExport(recommender Recommender, exporter SheetsExporter) Option {
	return func(reg *registry) {
		h := exportTool{
			recommender: recommender,
			exporter:    exporter,
			logger:      reg.logger,
			now:         func() time.Time { return time.Now().UTC() },
		}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "recommendations_export",
			Description: "Compute recommendations for a user and write them to Google Sheets",
		}, h.handle)
		reg.add("recommendations_export")
	}
}

func (t exportTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params RecommendationsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if t.recommender == nil || t.exporter == nil {
		return nil, nil, fmt.Errorf("recommendations export not configured")
	}
	if strings.TrimSpace(params.Sheet.SpreadsheetID) == "" {
		return nil, nil, fmt.Errorf("sheet.spreadsheet_id is required")
	}

	rec, err := recommend(ctx, t.recommender, domain.UserID(params.UserID), recommendation.Mode(params.Mode))
	if err != nil {
		return nil, nil, err
	}

	generatedAt := t.now()
	rows := make([]SheetRow, 0, len(rec.Recommendations))
	for i, r := range rec.Recommendations {
		rows = append(rows, SheetRow{
			RunID:       rec.RunID,
			UserID:      rec.UserID,
			Mode:        rec.Mode,
			Rank:        i + 1,
			MovieID:     r.Movie.ID,
			Title:       r.Movie.Title,
			Genres:      strings.Join(r.Movie.GenreNames(), "|"),
			Score:       r.Score,
			GeneratedAt: generatedAt,
		})
	}

	result, err := t.exporter.Export(ctx, SheetsExportRequest{
		Sheet:    params.Sheet,
		Rows:     rows,
		Upsert:   params.Upsert,
		ClearTab: params.ClearTab,
	})
	if err != nil {
		t.logger.Error("recommendations_export failed", "run_id", rec.RunID, "spreadsheet_id", params.Sheet.SpreadsheetID, "err", err)
		return nil, nil, fmt.Errorf("failed to export recommendations: %w", err)
	}
	result.RunID = rec.RunID

	t.logger.Info("recommendations_export completed",
		"run_id", rec.RunID,
		"spreadsheet_id", result.SpreadsheetID,
		"rows", result.WrittenRows,
	)

	msg := fmt.Sprintf("[recommendations_export] run %s: %d row(s) written to %s (%s)",
		rec.RunID, result.WrittenRows, result.SpreadsheetID, result.Mode)
	return textResult(msg), result, nil
}
