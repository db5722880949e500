// Package render assembles a meeting's export sections and renders them in
// the supported document formats.
package render

import (
	"fmt"
	"strings"

	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/pipeline"
)

// Section kinds, in document order.
const (
	SectionTitle        = "title"
	SectionSummary      = "summary"
	SectionParticipants = "participants"
	SectionChapters     = "chapters"
	SectionActionItems  = "action_items"
	SectionTranscript   = "transcript"
)

// Options toggles the optional sections.
type Options struct {
	IncludeChapters    bool
	IncludeActionItems bool
}

// DefaultOptions includes every section.
func DefaultOptions() Options {
	return Options{IncludeChapters: true, IncludeActionItems: true}
}

// Section is one block of the export. Lines are plain text; renderers add
// their own markup.
type Section struct {
	Kind    string
	Heading string
	Lines   []string
	// List marks sections whose lines are list items
	List bool
}

// dateLayout is the display format of the meeting date.
const dateLayout = "2006-01-02 15:04 UTC"

// BuildSections returns the ordered sections for m. Empty optional blocks are
// kept so the layout is the same for every meeting.
func BuildSections(m *meeting.Meeting, opts Options) []Section {
	sections := []Section{
		{
			Kind:    SectionTitle,
			Heading: m.Title,
			Lines:   []string{"Date: " + m.ScheduledAt.UTC().Format(dateLayout)},
		},
		{
			Kind:    SectionSummary,
			Heading: "Summary",
			Lines:   splitLines(m.Summary),
		},
	}

	participants := make([]string, len(m.Participants))
	for i, p := range m.Participants {
		participants[i] = fmt.Sprintf("%s <%s>", p.Name, p.Email)
	}
	sections = append(sections, Section{
		Kind:    SectionParticipants,
		Heading: "Participants",
		Lines:   participants,
		List:    true,
	})

	if opts.IncludeChapters {
		chapters := make([]string, len(m.Chapters))
		for i, ch := range m.Chapters {
			chapters[i] = fmt.Sprintf("[%s] %s: %s", pipeline.FormatClock(ch.Start), ch.Title, ch.Summary)
		}
		sections = append(sections, Section{
			Kind:    SectionChapters,
			Heading: "Chapters",
			Lines:   chapters,
			List:    true,
		})
	}

	if opts.IncludeActionItems {
		sections = append(sections, Section{
			Kind:    SectionActionItems,
			Heading: "Action items",
			Lines:   append([]string{}, m.ActionItems...),
			List:    true,
		})
	}

	sections = append(sections, Section{
		Kind:    SectionTranscript,
		Heading: "Transcript",
		Lines:   splitLines(m.TranscriptText()),
	})
	return sections
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
