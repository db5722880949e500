package pipeline

import (
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/transcribe"
)

// Derived is every artifact computed from one segment set.
type Derived struct {
	FullText    string
	Chapters    []meeting.Chapter
	Analysis    meeting.Analysis
	SearchIndex []meeting.SearchEntry
	Captions    string
	Readability float64
	Highlights  []string
	ActionItems []string
}

// Derive runs every segment-level derivation over the same set.
func Derive(segs []meeting.Segment, vocab transcribe.Vocabulary) Derived {
	return Derived{
		FullText:    FullText(segs),
		Chapters:    BuildChapters(segs),
		Analysis:    Analyze(segs, vocab),
		SearchIndex: BuildIndex(segs),
		Captions:    BuildCaptions(segs),
		Readability: Readability(segs),
		Highlights:  Highlights(segs),
		ActionItems: ActionItems(segs),
	}
}

// Apply replaces the meeting's derived collections with d. Segments are
// set alongside so every collection comes from the same run.
func (d Derived) Apply(m *meeting.Meeting, segs []meeting.Segment) {
	m.Transcript.Segments = segs
	m.Transcript.FullText = d.FullText
	m.Chapters = d.Chapters
	m.Analysis = d.Analysis
	m.SearchIndex = d.SearchIndex
	m.Accessibility = meeting.Accessibility{
		CaptionsVTT:      d.Captions,
		ReadabilityScore: d.Readability,
	}
	m.Highlights = d.Highlights
	m.ActionItems = d.ActionItems
	if n := len(segs); n > 0 {
		end := segs[n-1].End
		m.VideoSource.DurationSeconds = &end
	}
}
