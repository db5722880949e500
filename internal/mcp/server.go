package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/callsnap/internal/ops"
)

// ServerName is the name reported to MCP clients.
const ServerName = "callsnap"

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"meeting_create": {
		def:     createToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreate },
	},
	"meeting_get": {
		def:     getToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	"meeting_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"meeting_process": {
		def:     processToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProcess },
	},
	"meeting_resummarize": {
		def:     resummarizeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleResummarize },
	},
	"meeting_save_transcript": {
		def:     saveTranscriptToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSaveTranscript },
	},
	"meeting_save_summary": {
		def:     saveSummaryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSaveSummary },
	},
	"meeting_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"meeting_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"meeting_minutes": {
		def:     minutesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMinutes },
	},
	"meeting_captions": {
		def:     captionsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptions },
	},
	"meeting_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
}

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// EnabledTools returns the sorted tool names left after removing disabled.
func EnabledTools(disabled []string) []string {
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}
	names := make([]string, 0, len(toolRegistry))
	for _, name := range AllToolNames() {
		if !skip[name] {
			names = append(names, name)
		}
	}
	return names
}

// NewServer creates a new MCP server with the meeting tools registered.
// Tools listed in the config's DisabledTools are excluded.
func NewServer(env *ops.Env, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	var disabled []string
	if env.Config != nil {
		disabled = env.Config.DisabledTools
	}

	h := NewHandlers(env)
	for _, name := range EnabledTools(disabled) {
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run starts the MCP server using stdio transport.
func Run(env *ops.Env, version string) error {
	return server.ServeStdio(NewServer(env, version))
}
