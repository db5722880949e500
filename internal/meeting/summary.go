package meeting

import "time"

// MeetingSummary is a meeting's metadata without transcript, index or captions.
// Used by list operations to keep payloads small.
type MeetingSummary struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	ScheduledAt  time.Time     `json:"scheduledAt"`
	Status       Status        `json:"status"`
	Participants []Participant `json:"participants"`
	VideoSource  VideoSource   `json:"videoSource"`

	// Summary is the active summary text (empty until processed)
	Summary string `json:"summary"`

	SegmentCount int `json:"segmentCount"`
	ExportCount  int `json:"exportCount"`

	ProcessedAt  *time.Time `json:"processedAt,omitempty"`
	EmailsSentAt *time.Time `json:"emailsSentAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ToSummary converts a Meeting to a MeetingSummary by stripping the heavy fields.
func (m *Meeting) ToSummary() MeetingSummary {
	return MeetingSummary{
		ID:           m.ID,
		Title:        m.Title,
		ScheduledAt:  m.ScheduledAt,
		Status:       m.Status,
		Participants: m.Participants,
		VideoSource:  m.VideoSource,
		Summary:      m.Summary,
		SegmentCount: len(m.Transcript.Segments),
		ExportCount:  len(m.Exports),
		ProcessedAt:  m.ProcessedAt,
		EmailsSentAt: m.EmailsSentAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
