package mcp

import "github.com/mark3labs/mcp-go/mcp"

var participantSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":  map[string]any{"type": "string"},
		"email": map[string]any{"type": "string"},
	},
	"required": []string{"name", "email"},
}

var createToolDef = mcp.NewTool("meeting_create",
	mcp.WithDescription("Schedule a meeting. At least one participant with a name and a valid email is required."),
	mcp.WithString("title", mcp.Description("Meeting title. Defaults to \"Reunião sem título\".")),
	mcp.WithString("scheduled_at", mcp.Description("RFC 3339 start time. Defaults to now.")),
	mcp.WithArray("participants", mcp.Required(), mcp.Items(participantSchema),
		mcp.Description("People who receive the minutes.")),
	mcp.WithObject("video_source",
		mcp.Description("Recording reference: type is youtube, vimeo, upload or local."),
		mcp.Properties(map[string]any{
			"type":        map[string]any{"type": "string", "enum": []string{"youtube", "vimeo", "upload", "local"}},
			"value":       map[string]any{"type": "string"},
			"offlineMode": map[string]any{"type": "boolean"},
		}),
	),
	mcp.WithString("summary_style", mcp.Description("Preferred summary style for later processing runs.")),
	mcp.WithString("language", mcp.Description("Preferred summary language tag, e.g. pt-BR or en-US.")),
)

var getToolDef = mcp.NewTool("meeting_get",
	mcp.WithDescription("Fetch a meeting with its transcript, summaries, chapters and export history."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Meeting ID.")),
)

var listToolDef = mcp.NewTool("meeting_list",
	mcp.WithDescription("List meetings newest first, without transcripts."),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100).")),
	mcp.WithNumber("offset", mcp.Description("Items to skip.")),
	mcp.WithString("status", mcp.Enum("scheduled", "processed"), mcp.Description("Filter by status.")),
)

var processToolDef = mcp.NewTool("meeting_process",
	mcp.WithDescription("Transcribe a meeting and derive chapters, analysis, highlights, action items, captions and summaries. Re-running replaces derived data."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Meeting ID.")),
	mcp.WithString("style", mcp.Description("Summary style: bullets, narrative, tldr or custom.")),
	mcp.WithString("language", mcp.Description("Summary language tag.")),
	mcp.WithBoolean("preserve_edits", mcp.Description("Keep a manually edited transcript and a custom summary.")),
)

var resummarizeToolDef = mcp.NewTool("meeting_resummarize",
	mcp.WithDescription("Regenerate summaries of a processed meeting in another style or language without transcribing again."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Meeting ID.")),
	mcp.WithString("style", mcp.Description("Summary style.")),
	mcp.WithString("language", mcp.Description("Summary language tag.")),
)

var saveTranscriptToolDef = mcp.NewTool("meeting_save_transcript",
	mcp.WithDescription("Replace the editable transcript text."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Meeting ID.")),
	mcp.WithString("text", mcp.Required(), mcp.Description("New transcript text. Must not be blank.")),
)

var saveSummaryToolDef = mcp.NewTool("meeting_save_summary",
	mcp.WithDescription("Save a manual summary under the custom style and make it the active summary."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Meeting ID.")),
	mcp.WithString("text", mcp.Required(), mcp.Description("Summary text. Must not be blank.")),
)

var searchToolDef = mcp.NewTool("meeting_search",
	mcp.WithDescription("Case-insensitive substring search over a meeting's transcript segments."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Meeting ID.")),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search text, up to 200 characters.")),
)

var exportToolDef = mcp.NewTool("meeting_export",
	mcp.WithDescription("Render a processed meeting as txt, md, html, docx, pdf or vtt. Returns a base64 payload and optionally writes the file."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Meeting ID.")),
	mcp.WithString("format", mcp.Description("Output format. Unknown formats fall back to txt.")),
	mcp.WithBoolean("include_chapters", mcp.Description("Include the chapter list (default true).")),
	mcp.WithBoolean("include_action_items", mcp.Description("Include action items (default true).")),
	mcp.WithString("path", mcp.Description("Optional file path in ~/.callsnap/exports or an allowed path.")),
)

var minutesToolDef = mcp.NewTool("meeting_minutes",
	mcp.WithDescription("Build the minutes email for every participant and mark the meeting as sent."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Meeting ID.")),
)

var captionsToolDef = mcp.NewTool("meeting_captions",
	mcp.WithDescription("Return the WebVTT captions of a processed meeting."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Meeting ID.")),
)

var statsToolDef = mcp.NewTool("meeting_stats",
	mcp.WithDescription("Dashboard counters: total, processed, pending emails and offline meetings."),
)
