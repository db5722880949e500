package meeting

import "time"

// Status is the processing state of a meeting. It only moves forward.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusProcessed Status = "processed"
)

// VideoType identifies where the recording comes from.
type VideoType string

const (
	VideoYouTube VideoType = "youtube"
	VideoVimeo   VideoType = "vimeo"
	VideoUpload  VideoType = "upload"
	VideoLocal   VideoType = "local"
)

// DefaultTitle is used when a meeting is created without a title.
const DefaultTitle = "Reunião sem título"

// CustomStyle is the summary style key used for manually edited summaries.
const CustomStyle = "custom"

// Meeting is the root aggregate of the pipeline. The Store owns it; every
// operation works on a private copy and writes the whole entity back.
type Meeting struct {
	// ID is a ULID assigned at creation and never reused
	ID string `json:"id"`

	Title        string        `json:"title"`
	ScheduledAt  time.Time     `json:"scheduledAt"`
	Participants []Participant `json:"participants"`
	Status       Status        `json:"status"`
	VideoSource  VideoSource   `json:"videoSource"`

	Transcript    Transcript    `json:"transcript"`
	Summary       string        `json:"summary"` // mirrors the active summary text
	Summaries     Summaries     `json:"summaries"`
	Chapters      []Chapter     `json:"chapters"`
	Analysis      Analysis      `json:"analysis"`
	SearchIndex   []SearchEntry `json:"searchIndex"`
	Accessibility Accessibility `json:"accessibility"`
	Highlights    []string      `json:"highlights"`
	ActionItems   []string      `json:"actionItems"`

	// Exports is an append-only audit log; entries are never pruned
	Exports  []ExportDescriptor `json:"exports"`
	Settings Settings           `json:"settings"`

	ProcessedAt  *time.Time `json:"processedAt"`
	EmailsSentAt *time.Time `json:"emailsSentAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Version is bumped by the Store on every successful update
	Version int64 `json:"version"`
}

// Participant is a meeting attendee who receives the minutes.
type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VideoSource describes the recording attached to a meeting.
type VideoSource struct {
	Type            VideoType `json:"type"`
	Value           string    `json:"value"`
	OfflineMode     bool      `json:"offlineMode"`
	DurationSeconds *float64  `json:"durationSeconds,omitempty"`
	Platform        string    `json:"platform,omitempty"`
}

// Segment is one timed utterance attributed to a speaker. Segments are
// immutable once produced; a new processing run replaces the whole sequence.
type Segment struct {
	ID        string   `json:"id"`
	Speaker   string   `json:"speaker"`
	Start     float64  `json:"start"`
	End       float64  `json:"end"`
	Duration  float64  `json:"duration"`
	Text      string   `json:"text"`
	Sentiment string   `json:"sentiment"`
	Keywords  []string `json:"keywords"`
}

// Transcript holds the generated segments and the user-editable copy.
type Transcript struct {
	Segments        []Segment  `json:"segments"`
	FullText        string     `json:"fullText"`
	EditableText    string     `json:"editableText"`
	LastGeneratedAt *time.Time `json:"lastGeneratedAt"`
	LastEditedAt    *time.Time `json:"lastEditedAt"`
}

// Summaries holds every generated summary variant keyed by style.
type Summaries struct {
	Default      string            `json:"default"`
	Styles       map[string]string `json:"styles"`
	Language     string            `json:"language"`
	LastEditedAt *time.Time        `json:"lastEditedAt"`
}

// Chapter is aligned 1:1 with a segment of the same run.
type Chapter struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Analysis is the meeting-level verdict, recomputed on every run.
type Analysis struct {
	Sentiment string   `json:"sentiment"`
	Score     float64  `json:"score"`
	Topics    []string `json:"topics"`
	Keywords  []string `json:"keywords"`
}

// SearchEntry is one row of the flat search index.
type SearchEntry struct {
	SegmentID string  `json:"segmentId"`
	Text      string  `json:"text"` // lowercased
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
}

// Accessibility carries the caption track and a readability estimate.
type Accessibility struct {
	CaptionsVTT      string  `json:"captionsVtt"`
	ReadabilityScore float64 `json:"readabilityScore"`
}

// ExportDescriptor records one rendered artifact.
type ExportDescriptor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Format    string    `json:"format"`
	FileName  string    `json:"fileName"`
	MimeType  string    `json:"mimeType"`
	Size      int       `json:"size"`
}

// Settings are sticky defaults for later processing and resummarize calls.
type Settings struct {
	PreferredSummaryStyle string `json:"preferredSummaryStyle"`
	PreferredLanguage     string `json:"preferredLanguage"`
}

// TranscriptText returns the text a reader should see: the edited copy when
// present, otherwise the generated one.
func (m *Meeting) TranscriptText() string {
	if m.Transcript.EditableText != "" {
		return m.Transcript.EditableText
	}
	return m.Transcript.FullText
}

// SegmentByID resolves a segment of the current run.
func (m *Meeting) SegmentByID(id string) (Segment, bool) {
	for _, s := range m.Transcript.Segments {
		if s.ID == id {
			return s, true
		}
	}
	return Segment{}, false
}
