package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycarbs/movie-recommender/internal/mcp/tools"
)

// SheetHeader is written above exported rows when a tab is cleared or upserted
var SheetHeader = []interface{}{
	"run_id", "user_id", "mode", "rank", "movie_id", "title", "genres", "score", "generated_at",
}

type valuesWriter interface {
	AppendValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
	UpdateValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
	ClearValues(ctx context.Context, spreadsheetID, range_ string) error
}

type sheetsClientAdapter struct {
	client valuesWriter
	now    func() time.Time
}

func newSheetsClientAdapter(client valuesWriter) *sheetsClientAdapter {
	return &sheetsClientAdapter{client: client, now: func() time.Time { return time.Now().UTC() }}
}

func (a *sheetsClientAdapter) Export(ctx context.Context, req tools.SheetsExportRequest) (tools.SheetsExportResult, error) {
	result := tools.SheetsExportResult{
		SpreadsheetID: req.Sheet.SpreadsheetID,
		Tab:           req.Sheet.Tab,
		Mode:          "append",
	}
	if req.Upsert {
		result.Mode = "upsert"
	}

	if a.client == nil {
		result.Message = "Google Sheets client not configured (GOOGLE_SHEETS_CREDENTIALS_PATH not set)"
		return result, fmt.Errorf("sheets: client not configured")
	}

	if req.ClearTab {
		if err := a.client.ClearValues(ctx, req.Sheet.SpreadsheetID, buildClearRange(req.Sheet.Tab)); err != nil {
			return result, fmt.Errorf("sheets: failed to clear sheet: %w", err)
		}
	}

	result.CompletedAt = a.now()

	if len(req.Rows) == 0 {
		result.Message = "no rows to export"
		return result, nil
	}

	values := convertRowsToValues(req.Rows)
	rng := buildRange(req)

	if req.Upsert || req.ClearTab {
		values = append([][]interface{}{SheetHeader}, values...)
	}

	if req.Upsert {
		if err := a.client.UpdateValues(ctx, req.Sheet.SpreadsheetID, rng, values); err != nil {
			return result, fmt.Errorf("sheets: failed to upsert rows: %w", err)
		}
	} else {
		if err := a.client.AppendValues(ctx, req.Sheet.SpreadsheetID, rng, values); err != nil {
			return result, fmt.Errorf("sheets: failed to append rows: %w", err)
		}
	}

	result.WrittenRows = len(req.Rows)
	result.CompletedAt = a.now()
	result.Message = fmt.Sprintf("successfully exported %d row(s)", result.WrittenRows)

	return result, nil
}

func tabName(tab string) string {
	if tab == "" {
		return "Sheet1"
	}
	return tab
}

func buildRange(req tools.SheetsExportRequest) string {
	if req.Sheet.Range != "" {
		return req.Sheet.Range
	}
	return fmt.Sprintf("%s!A1", tabName(req.Sheet.Tab))
}

func buildClearRange(tab string) string {
	return fmt.Sprintf("%s!A1:Z", tabName(tab))
}

func convertRowsToValues(rows []tools.SheetRow) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = row.Values()
	}
	return values
}
