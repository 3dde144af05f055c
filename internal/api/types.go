package api

import (
	"kanstamp/internal/kanban"
	"kanstamp/internal/stamper"
	"kanstamp/internal/timestamp"
	"kanstamp/internal/worklog"
)

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// StampRequest asks the server to stamp one board. An empty path selects the
// configured board.
type StampRequest struct {
	Path string `json:"path,omitempty"`
}

// StampResponse reports one stamp run.
type StampResponse struct {
	stamper.Result
}

// BoardResponse is a parsed board document.
type BoardResponse struct {
	Path             string           `json:"path" yaml:"path"`
	Recognized       bool             `json:"recognized" yaml:"recognized"`
	FrontMatter      map[string]any   `json:"front_matter,omitempty" yaml:"front_matter,omitempty"`
	CompletionColumn string           `json:"completion_column,omitempty" yaml:"completion_column,omitempty"`
	Columns          []*kanban.Column `json:"columns" yaml:"columns"`
	Issues           []kanban.Issue   `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// WorklogResponse is the generated worklog for one day.
type WorklogResponse struct {
	Path    string          `json:"path" yaml:"path"`
	Date    string          `json:"date" yaml:"date"`
	Entries []worklog.Entry `json:"entries" yaml:"entries"`
	Text    string          `json:"text" yaml:"text"`
}

// NewBoardResponse parses content into a BoardResponse. An unrecognized
// document yields Recognized false and no columns. The error reports front
// matter that could not be decoded; the rest of the response is still filled.
func NewBoardResponse(path, content string, opts kanban.Options) (BoardResponse, error) {
	resp := BoardResponse{Path: path, Columns: []*kanban.Column{}}
	if !kanban.Recognized(content) {
		return resp, nil
	}

	resp.Recognized = true
	board := kanban.Parse(content, opts)
	resp.CompletionColumn = board.CompletionColumn
	resp.Columns = board.Ordered()
	resp.Issues = board.Issues

	frontMatter, err := kanban.FrontMatter(content)
	resp.FrontMatter = frontMatter
	return resp, err
}

// NewWorklogResponse collects the worklog entries in content for date.
func NewWorklogResponse(path, content string, date timestamp.Date) WorklogResponse {
	entries := worklog.Collect(content, date)
	if entries == nil {
		entries = []worklog.Entry{}
	}
	return WorklogResponse{
		Path:    path,
		Date:    date.String(),
		Entries: entries,
		Text:    worklog.Render(entries),
	}
}
