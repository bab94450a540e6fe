package tools

import (
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/movie-recommender/internal/domain"
)

// textResult returns a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}

func formatMovie(m domain.Movie) string {
	if len(m.Genres) == 0 {
		return fmt.Sprintf("#%d %s", m.ID, m.Title)
	}
	return fmt.Sprintf("#%d %s [%s]", m.ID, m.Title, strings.Join(m.GenreNames(), ", "))
}
