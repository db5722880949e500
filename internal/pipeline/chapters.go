package pipeline

import (
	"fmt"
	"strings"

	"github.com/hpungsan/callsnap/internal/meeting"
)

// BuildChapters maps each segment to one chapter, preserving order.
func BuildChapters(segs []meeting.Segment) []meeting.Chapter {
	chapters := make([]meeting.Chapter, len(segs))
	for i, s := range segs {
		chapters[i] = meeting.Chapter{
			ID:      fmt.Sprintf("ch-%d", i+1),
			Title:   fmt.Sprintf("Chapter %d", i+1),
			Summary: s.Text,
			Start:   s.Start,
			End:     s.End,
		}
	}
	return chapters
}

// FullText renders segments as "{speaker}: {text}" lines.
func FullText(segs []meeting.Segment) string {
	lines := make([]string, len(segs))
	for i, s := range segs {
		lines[i] = s.Speaker + ": " + s.Text
	}
	return strings.Join(lines, "\n")
}

// maxHighlights is the number of leading segments quoted as highlights.
const maxHighlights = 3

// Highlights returns the texts of the first few segments.
func Highlights(segs []meeting.Segment) []string {
	n := min(len(segs), maxHighlights)
	out := make([]string, n)
	for i := range n {
		out[i] = segs[i].Text
	}
	return out
}

// DefaultActionItems is the fixed action list of the stand-in extractor.
var DefaultActionItems = []string{
	"Preparar protótipo da extensão Chrome até sexta-feira.",
	"Validar API de transcrição com amostra bilingue.",
	"Criar template de ata em Português e Inglês.",
	"Agendar testes com usuários beta na próxima semana.",
}

// ActionItems returns the follow-ups of a run. The stand-in extractor
// yields DefaultActionItems for any non-empty transcript.
func ActionItems(segs []meeting.Segment) []string {
	if len(segs) == 0 {
		return nil
	}
	return append([]string(nil), DefaultActionItems...)
}
