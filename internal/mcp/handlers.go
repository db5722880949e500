package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/logger"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// CreateRequest represents the arguments for meeting_create.
type CreateRequest struct {
	Title        string                `json:"title,omitempty"`
	ScheduledAt  *time.Time            `json:"scheduled_at,omitempty"`
	Participants []meeting.Participant `json:"participants"`
	VideoSource  *meeting.VideoSource  `json:"video_source,omitempty"`
	SummaryStyle string                `json:"summary_style,omitempty"`
	Language     string                `json:"language,omitempty"`
}

// IDRequest represents the arguments of tools that only take a meeting ID.
type IDRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for meeting_list.
type ListRequest struct {
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Status string `json:"status,omitempty"`
}

// ProcessRequest represents the arguments for meeting_process.
type ProcessRequest struct {
	ID            string `json:"id"`
	Style         string `json:"style,omitempty"`
	Language      string `json:"language,omitempty"`
	PreserveEdits bool   `json:"preserve_edits,omitempty"`
}

// ResummarizeRequest represents the arguments for meeting_resummarize.
type ResummarizeRequest struct {
	ID       string `json:"id"`
	Style    string `json:"style,omitempty"`
	Language string `json:"language,omitempty"`
}

// TextRequest represents the arguments for the manual edit tools.
type TextRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SearchRequest represents the arguments for meeting_search.
type SearchRequest struct {
	ID    string `json:"id"`
	Query string `json:"query"`
}

// ExportRequest represents the arguments for meeting_export.
type ExportRequest struct {
	ID                 string `json:"id"`
	Format             string `json:"format,omitempty"`
	IncludeChapters    *bool  `json:"include_chapters,omitempty"`
	IncludeActionItems *bool  `json:"include_action_items,omitempty"`
	Path               string `json:"path,omitempty"`
}

// Handler implementations

// HandleCreate handles the meeting_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	in := ops.CreateInput{
		Title:        input.Title,
		Participants: input.Participants,
		SummaryStyle: input.SummaryStyle,
		Language:     input.Language,
	}
	if input.ScheduledAt != nil {
		in.ScheduledAt = *input.ScheduledAt
	}
	if input.VideoSource != nil {
		in.VideoSource = *input.VideoSource
	}

	result, err := ops.Create(ctx, h.env, in)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGet handles the meeting_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(ctx, h.env, ops.GetInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the meeting_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.env, ops.ListInput{
		Limit:  input.Limit,
		Offset: input.Offset,
		Status: input.Status,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleProcess handles the meeting_process tool call.
func (h *Handlers) HandleProcess(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProcessRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Process(ctx, h.env, ops.ProcessInput{
		ID:            input.ID,
		Style:         input.Style,
		Language:      input.Language,
		PreserveEdits: input.PreserveEdits,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleResummarize handles the meeting_resummarize tool call.
func (h *Handlers) HandleResummarize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ResummarizeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Resummarize(ctx, h.env, ops.ResummarizeInput{
		ID:       input.ID,
		Style:    input.Style,
		Language: input.Language,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSaveTranscript handles the meeting_save_transcript tool call.
func (h *Handlers) HandleSaveTranscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TextRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SaveTranscript(ctx, h.env, ops.SaveTranscriptInput{ID: input.ID, Text: input.Text})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSaveSummary handles the meeting_save_summary tool call.
func (h *Handlers) HandleSaveSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TextRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SaveSummary(ctx, h.env, ops.SaveSummaryInput{ID: input.ID, Text: input.Text})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSearch handles the meeting_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Search(ctx, h.env, ops.SearchInput{ID: input.ID, Query: input.Query})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the meeting_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.env, ops.ExportInput{
		ID:                 input.ID,
		Format:             input.Format,
		IncludeChapters:    input.IncludeChapters,
		IncludeActionItems: input.IncludeActionItems,
		Path:               input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleMinutes handles the meeting_minutes tool call.
func (h *Handlers) HandleMinutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SendMinutes(ctx, h.env, ops.MinutesInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCaptions handles the meeting_captions tool call.
func (h *Handlers) HandleCaptions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Captions(ctx, h.env, ops.CaptionsInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStats handles the meeting_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Stats(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are logged and replaced with a generic message.
func errorResult(err error) *mcp.CallToolResult {
	cErr := errors.As(err)

	errorObj := map[string]any{
		"code":    cErr.Code,
		"message": cErr.Message,
		"status":  cErr.Status,
	}
	if cErr.Code == errors.ErrInternal {
		logger.Errorf("mcp tool failed: %v", err)
		errorObj["message"] = "an internal error occurred"
	} else if cErr.Details != nil {
		errorObj["details"] = cErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
