package meeting

import (
	"maps"
	"slices"
	"time"
)

// Clone returns a deep copy so callers can mutate it without touching the
// Store's instance.
func (m *Meeting) Clone() *Meeting {
	if m == nil {
		return nil
	}
	c := *m

	c.Participants = slices.Clone(m.Participants)
	c.VideoSource.DurationSeconds = clonePtr(m.VideoSource.DurationSeconds)

	c.Transcript.Segments = make([]Segment, len(m.Transcript.Segments))
	for i, s := range m.Transcript.Segments {
		s.Keywords = slices.Clone(s.Keywords)
		c.Transcript.Segments[i] = s
	}
	if m.Transcript.Segments == nil {
		c.Transcript.Segments = nil
	}
	c.Transcript.LastGeneratedAt = clonePtr(m.Transcript.LastGeneratedAt)
	c.Transcript.LastEditedAt = clonePtr(m.Transcript.LastEditedAt)

	c.Summaries.Styles = maps.Clone(m.Summaries.Styles)
	c.Summaries.LastEditedAt = clonePtr(m.Summaries.LastEditedAt)

	c.Chapters = slices.Clone(m.Chapters)
	c.Analysis.Topics = slices.Clone(m.Analysis.Topics)
	c.Analysis.Keywords = slices.Clone(m.Analysis.Keywords)
	c.SearchIndex = slices.Clone(m.SearchIndex)
	c.Highlights = slices.Clone(m.Highlights)
	c.ActionItems = slices.Clone(m.ActionItems)
	c.Exports = slices.Clone(m.Exports)

	c.ProcessedAt = clonePtr(m.ProcessedAt)
	c.EmailsSentAt = clonePtr(m.EmailsSentAt)
	return &c
}

func clonePtr[T float64 | time.Time](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
