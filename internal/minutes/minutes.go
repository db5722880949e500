// Package minutes builds the per-participant minutes messages. Nothing is
// sent: callers get previews to hand to a mail transport.
package minutes

import (
	"fmt"
	"strings"

	"github.com/hpungsan/callsnap/internal/meeting"
)

// Preview is one addressed message.
type Preview struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Subject returns the message subject for a meeting title.
func Subject(title string) string {
	return "Minutes: " + title
}

// Build returns one preview per participant, in participant order.
func Build(m *meeting.Meeting) []Preview {
	chapters := make([]string, len(m.Chapters))
	for i, ch := range m.Chapters {
		chapters[i] = ch.Title
	}
	chapterLine := orNone(strings.Join(chapters, ", "))
	actionLine := orNone(strings.Join(m.ActionItems, " | "))

	previews := make([]Preview, len(m.Participants))
	for i, p := range m.Participants {
		previews[i] = Preview{
			To:      p.Email,
			Subject: Subject(m.Title),
			Body: fmt.Sprintf("Hello %s,\nHere are the minutes for %s.\n\nSummary:\n%s\n\nChapters: %s\nActions: %s\n",
				p.Name, m.Title, m.Summary, chapterLine, actionLine),
		}
	}
	return previews
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
