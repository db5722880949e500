package render

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/yuin/goldmark"

	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/pipeline"
)

// Artifact is a rendered export.
type Artifact struct {
	// Format is the resolved format the payload was rendered in
	Format   string
	FileName string
	MimeType string
	Data     []byte
}

// Render renders m in format. Unknown formats render as plain text.
func Render(m *meeting.Meeting, format string, opts Options) (*Artifact, error) {
	resolved, _ := ResolveFormat(format)
	sections := BuildSections(m, opts)

	var (
		data []byte
		err  error
	)
	switch resolved {
	case FormatMD:
		data = []byte(Markdown(sections))
	case FormatHTML:
		data, err = HTML(m.Title, sections)
	case FormatDOCX:
		data, err = DOCX(sections)
	case FormatVTT:
		data = []byte(captionsOf(m))
	default:
		// pdf stays a plain-text artifact tagged application/pdf
		data = []byte(Text(sections))
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", resolved, err)
	}

	return &Artifact{
		Format:   resolved,
		FileName: FileName(m.Title, resolved),
		MimeType: MimeType(resolved),
		Data:     data,
	}, nil
}

func captionsOf(m *meeting.Meeting) string {
	if m.Accessibility.CaptionsVTT != "" {
		return m.Accessibility.CaptionsVTT
	}
	return pipeline.BuildCaptions(m.Transcript.Segments)
}

// Text renders sections as plain text separated by blank lines.
func Text(sections []Section) string {
	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		lines := append([]string{s.Heading}, s.Lines...)
		if s.Kind != SectionTitle && len(s.Lines) == 0 {
			lines = append(lines, "-")
		}
		if s.List {
			for i := 1; i < len(lines); i++ {
				if lines[i] != "-" {
					lines[i] = "- " + lines[i]
				}
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// Markdown renders sections as CommonMark.
func Markdown(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		if s.Kind == SectionTitle {
			fmt.Fprintf(&b, "# %s\n\n", s.Heading)
			for _, l := range s.Lines {
				fmt.Fprintf(&b, "_%s_\n", l)
			}
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", s.Heading)
		if len(s.Lines) == 0 {
			b.WriteString("-\n")
			continue
		}
		for _, l := range s.Lines {
			if s.List {
				fmt.Fprintf(&b, "- %s\n", escapeAngles(l))
			} else {
				fmt.Fprintf(&b, "%s\n\n", escapeAngles(l))
			}
		}
	}
	return b.String()
}

// escapeAngles keeps "<email>" from turning into raw HTML or autolinks.
func escapeAngles(s string) string {
	return strings.NewReplacer("<", `\<`, ">", `\>`).Replace(s)
}

// HTML renders sections through goldmark into a standalone page.
func HTML(title string, sections []Section) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(sections)), &body); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.Bytes(), nil
}

const (
	docxFont        = "Calibri"
	docxTitleSize   = 16
	docxHeadingSize = 14
	docxBodySize    = 11
)

// DOCX renders sections as a Word document.
func DOCX(sections []Section) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}

	for _, s := range sections {
		size := uint64(docxHeadingSize)
		if s.Kind == SectionTitle {
			size = docxTitleSize
		}
		addRun(doc.AddParagraph(""), s.Heading, true, size)

		for _, l := range s.Lines {
			if s.List {
				l = "• " + l
			}
			addRun(doc.AddParagraph(""), l, false, docxBodySize)
		}
	}

	// godocx writes to a path; stage it in a private temp dir
	dir, err := os.MkdirTemp("", "callsnap-docx-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "export.docx")
	if err := doc.SaveTo(path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(docxFont).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
