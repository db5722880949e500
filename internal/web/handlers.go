package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/minutes"
	"github.com/hpungsan/callsnap/internal/ops"
)

// Handlers contains HTTP route handlers for the API.
type Handlers struct {
	env *ops.Env
}

// meetingResponse wraps a single meeting.
type meetingResponse struct {
	Meeting *meeting.Meeting `json:"meeting"`
}

// HandleStatus handles GET /api/status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Status(r.Context(), h.env)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleStats handles GET /api/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Stats(r.Context(), h.env)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// listResponse is the body of GET /api/meetings.
type listResponse struct {
	Meetings   []meeting.MeetingSummary `json:"meetings"`
	Pagination ops.Pagination           `json:"pagination"`
	Sort       string                   `json:"sort"`
}

// HandleList handles GET /api/meetings, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := ops.List(r.Context(), h.env, ops.ListInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, listResponse{
		Meetings:   result.Items,
		Pagination: result.Pagination,
		Sort:       result.Sort,
	})
}

// createRequest is the body of POST /api/meetings.
type createRequest struct {
	Title        string                `json:"title"`
	ScheduledAt  *time.Time            `json:"scheduledAt"`
	Participants []meeting.Participant `json:"participants"`
	VideoSource  *meeting.VideoSource  `json:"videoSource"`
	SummaryStyle string                `json:"summaryStyle"`
	Language     string                `json:"language"`
}

// HandleCreate handles POST /api/meetings.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	input := ops.CreateInput{
		Title:        req.Title,
		Participants: req.Participants,
		SummaryStyle: req.SummaryStyle,
		Language:     req.Language,
	}
	if req.ScheduledAt != nil {
		input.ScheduledAt = *req.ScheduledAt
	}
	if req.VideoSource != nil {
		input.VideoSource = *req.VideoSource
	}

	m, err := ops.Create(r.Context(), h.env, input)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, meetingResponse{Meeting: m})
}

// HandleGet handles GET /api/meetings/{id}.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, err := ops.Get(r.Context(), h.env, ops.GetInput{ID: r.PathValue("id")})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, meetingResponse{Meeting: m})
}

// processRequest is the optional body of POST /api/meetings/{id}/transcribe.
type processRequest struct {
	SummaryStyle    string `json:"summaryStyle"`
	SummaryLanguage string `json:"summaryLanguage"`
	PreserveEdits   bool   `json:"preserveEdits"`
}

// HandleProcess handles POST /api/meetings/{id}/transcribe.
func (h *Handlers) HandleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	m, err := ops.Process(r.Context(), h.env, ops.ProcessInput{
		ID:            r.PathValue("id"),
		Style:         req.SummaryStyle,
		Language:      req.SummaryLanguage,
		PreserveEdits: req.PreserveEdits,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, meetingResponse{Meeting: m})
}

// resummarizeRequest is the body of POST /api/meetings/{id}/resummarize.
type resummarizeRequest struct {
	Style    string `json:"style"`
	Language string `json:"language"`
}

// HandleResummarize handles POST /api/meetings/{id}/resummarize.
func (h *Handlers) HandleResummarize(w http.ResponseWriter, r *http.Request) {
	var req resummarizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	m, err := ops.Resummarize(r.Context(), h.env, ops.ResummarizeInput{
		ID:       r.PathValue("id"),
		Style:    req.Style,
		Language: req.Language,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, meetingResponse{Meeting: m})
}

// HandleSaveTranscript handles PATCH /api/meetings/{id}/transcript.
func (h *Handlers) HandleSaveTranscript(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EditableText string `json:"editableText"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	m, err := ops.SaveTranscript(r.Context(), h.env, ops.SaveTranscriptInput{
		ID:   r.PathValue("id"),
		Text: req.EditableText,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, meetingResponse{Meeting: m})
}

// HandleSaveSummary handles PATCH /api/meetings/{id}/summary.
func (h *Handlers) HandleSaveSummary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	m, err := ops.SaveSummary(r.Context(), h.env, ops.SaveSummaryInput{
		ID:   r.PathValue("id"),
		Text: req.Text,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, meetingResponse{Meeting: m})
}

// HandleSearch handles GET /api/meetings/{id}/search?q=.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Search(r.Context(), h.env, ops.SearchInput{
		ID:    r.PathValue("id"),
		Query: r.URL.Query().Get("q"),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// exportRequest is the body of POST /api/meetings/{id}/export. Writing to a
// server-side path is only available from the CLI and MCP server.
type exportRequest struct {
	Format             string `json:"format"`
	IncludeChapters    *bool  `json:"includeChapters"`
	IncludeActionItems *bool  `json:"includeActionItems"`
}

// HandleExport handles POST /api/meetings/{id}/export.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	result, err := ops.Export(r.Context(), h.env, ops.ExportInput{
		ID:                 r.PathValue("id"),
		Format:             req.Format,
		IncludeChapters:    req.IncludeChapters,
		IncludeActionItems: req.IncludeActionItems,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// minutesResponse is the body of POST /api/meetings/{id}/minutes.
type minutesResponse struct {
	Meeting      *meeting.Meeting  `json:"meeting"`
	EmailPreview []minutes.Preview `json:"emailPreview"`
}

// HandleMinutes handles POST /api/meetings/{id}/minutes.
func (h *Handlers) HandleMinutes(w http.ResponseWriter, r *http.Request) {
	result, err := ops.SendMinutes(r.Context(), h.env, ops.MinutesInput{ID: r.PathValue("id")})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, minutesResponse{
		Meeting:      result.Meeting,
		EmailPreview: result.Preview,
	})
}

// HandleCaptions handles GET /api/meetings/{id}/captions.vtt.
func (h *Handlers) HandleCaptions(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Captions(r.Context(), h.env, ops.CaptionsInput{ID: r.PathValue("id")})
	if err != nil {
		renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.VTT))
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
