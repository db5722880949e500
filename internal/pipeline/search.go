package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
)

// MaxQueryChars bounds search queries.
const MaxQueryChars = 200

// Match is one search hit.
type Match struct {
	SegmentID string  `json:"segmentId"`
	Speaker   string  `json:"speaker"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text"`
}

// BuildIndex flattens segments into lowercased index entries.
func BuildIndex(segs []meeting.Segment) []meeting.SearchEntry {
	index := make([]meeting.SearchEntry, len(segs))
	for i, s := range segs {
		index[i] = meeting.SearchEntry{
			SegmentID: s.ID,
			Text:      strings.ToLower(s.Text),
			Start:     s.Start,
			End:       s.End,
		}
	}
	return index
}

// Search returns the index entries containing query, case-insensitively,
// in segment order. Speaker and original text are resolved from the segment.
func Search(m *meeting.Meeting, query string) ([]Match, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if utf8.RuneCountInString(q) > MaxQueryChars {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("query exceeds %d characters", MaxQueryChars))
	}
	q = strings.ToLower(q)

	matches := []Match{}
	for _, e := range m.SearchIndex {
		if !strings.Contains(e.Text, q) {
			continue
		}
		match := Match{SegmentID: e.SegmentID, Start: e.Start, End: e.End, Text: e.Text}
		if seg, ok := m.SegmentByID(e.SegmentID); ok {
			match.Speaker = seg.Speaker
			match.Text = seg.Text
		}
		matches = append(matches, match)
	}
	return matches, nil
}
