package render

import (
	"strings"

	"github.com/hpungsan/callsnap/internal/meeting"
)

// Export formats.
const (
	FormatTXT  = "txt"
	FormatMD   = "md"
	FormatHTML = "html"
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
	FormatVTT  = "vtt"
)

// fallbackFileStem is used when the title has no usable characters.
const fallbackFileStem = "callsnap"

type formatInfo struct {
	ext      string
	mimeType string
}

var formatTable = map[string]formatInfo{
	FormatTXT:  {".txt", "text/plain"},
	FormatMD:   {".md", "text/markdown"},
	FormatHTML: {".html", "text/html"},
	FormatDOCX: {".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	FormatPDF:  {".pdf", "application/pdf"},
	FormatVTT:  {".vtt", "text/vtt"},
}

// Formats lists the supported formats.
var Formats = []string{FormatTXT, FormatMD, FormatHTML, FormatDOCX, FormatPDF, FormatVTT}

// ResolveFormat normalizes a requested format. Unknown or empty formats
// resolve to txt; known reports whether the request was recognized.
func ResolveFormat(format string) (resolved string, known bool) {
	f := strings.TrimPrefix(meeting.Normalize(format), ".")
	switch f {
	case "markdown":
		f = FormatMD
	case "htm":
		f = FormatHTML
	case "text":
		f = FormatTXT
	}
	if _, ok := formatTable[f]; ok {
		return f, true
	}
	return FormatTXT, false
}

// Extension returns the file extension of a format, including the dot.
func Extension(format string) string {
	resolved, _ := ResolveFormat(format)
	return formatTable[resolved].ext
}

// MimeType returns the MIME type of a format; unknown formats are text/plain.
func MimeType(format string) string {
	resolved, _ := ResolveFormat(format)
	return formatTable[resolved].mimeType
}

// FileName builds "{slug}.{ext}" for a meeting title.
func FileName(title, format string) string {
	stem := meeting.Slugify(title)
	if stem == "" {
		stem = fallbackFileStem
	}
	return stem + Extension(format)
}
