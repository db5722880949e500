package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hpungsan/callsnap/internal/meeting"
)

// vttHeader starts every caption track.
const vttHeader = "WEBVTT"

// MaxVTTLineBytes bounds a single caption line, the same cap as API request
// bodies.
const MaxVTTLineBytes = 1 << 20

// vttTimestampRegex matches a cue timing line: 00:00:05.579 --> 00:00:06.858
var vttTimestampRegex = regexp.MustCompile(`^(\d{2,}:\d{2}:\d{2}\.\d{3})\s+-->\s+(\d{2,}:\d{2}:\d{2}\.\d{3})`)

// Cue is one parsed caption.
type Cue struct {
	Index   int
	Start   float64
	End     float64
	Speaker string
	Text    string
}

// BuildCaptions renders segments as a WebVTT track, one numbered cue per
// segment. No segments yields the header alone.
func BuildCaptions(segs []meeting.Segment) string {
	var b strings.Builder
	b.WriteString(vttHeader)
	b.WriteString("\n")
	for i, s := range segs {
		fmt.Fprintf(&b, "\n%d\n%s --> %s\n%s: %s\n",
			i+1, FormatTimestamp(s.Start), FormatTimestamp(s.End), s.Speaker, s.Text)
	}
	return b.String()
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm.
func FormatTimestamp(seconds float64) string {
	ms := int64(math.Round(math.Max(seconds, 0) * 1000))
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}

// FormatClock renders seconds as mm:ss, used for chapter markers.
func FormatClock(seconds float64) string {
	total := int64(math.Max(seconds, 0))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ParseVTT reads a WebVTT track back into cues. Cue text of the form
// "{speaker}: {text}" is split into Speaker and Text.
func ParseVTT(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxVTTLineBytes)

	sawHeader := false
	cues := []Cue{}
	var current *Cue
	pendingIndex := 0

	flush := func() {
		if current != nil {
			current.Speaker, current.Text = splitSpeaker(current.Text)
			cues = append(cues, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if !sawHeader {
			if line == "" {
				continue
			}
			if !strings.HasPrefix(line, vttHeader) {
				return nil, fmt.Errorf("missing %s header", vttHeader)
			}
			sawHeader = true
			continue
		}

		if line == "" {
			flush()
			pendingIndex = 0
			continue
		}

		if matches := vttTimestampRegex.FindStringSubmatch(line); matches != nil {
			flush()
			start, err := parseVTTTimestamp(matches[1])
			if err != nil {
				return nil, err
			}
			end, err := parseVTTTimestamp(matches[2])
			if err != nil {
				return nil, err
			}
			current = &Cue{Index: pendingIndex, Start: start, End: end}
			continue
		}

		if current == nil {
			// cue identifier line
			if n, err := strconv.Atoi(line); err == nil {
				pendingIndex = n
			}
			continue
		}

		if current.Text != "" {
			current.Text += "\n"
		}
		current.Text += line
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawHeader {
		return nil, fmt.Errorf("missing %s header", vttHeader)
	}
	return cues, nil
}

func splitSpeaker(text string) (string, string) {
	speaker, rest, ok := strings.Cut(text, ": ")
	if !ok || strings.Contains(speaker, "\n") {
		return "", text
	}
	return speaker, rest
}

// parseVTTTimestamp parses HH:MM:SS.mmm into seconds.
func parseVTTTimestamp(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	secStr, msStr, _ := strings.Cut(parts[2], ".")
	seconds, err := strconv.Atoi(secStr)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	millis, err := strconv.Atoi(msStr)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	ms := int64(hours)*3_600_000 + int64(minutes)*60_000 + int64(seconds)*1000 + int64(millis)
	return float64(ms) / 1000, nil
}
