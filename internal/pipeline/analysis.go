package pipeline

import (
	"math"
	"strings"

	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/transcribe"
)

// AnalysisConfidence is the fixed score of the placeholder classifier.
const AnalysisConfidence = 0.82

// Analyze derives the meeting-level verdict from the full segment set.
// Keywords are vocabulary phrases whose root appears in the concatenated
// text; topics are their distinct topic labels.
func Analyze(segs []meeting.Segment, vocab transcribe.Vocabulary) meeting.Analysis {
	var positive, negative int
	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.Text
		switch s.Sentiment {
		case transcribe.SentimentPositive:
			positive++
		case transcribe.SentimentNegative:
			negative++
		}
	}

	sentiment := transcribe.SentimentNeutral
	switch {
	case negative > positive:
		sentiment = transcribe.SentimentNegative
	case positive > 0:
		sentiment = transcribe.SentimentPositive
	}

	keywords := vocab.Match(strings.Join(texts, " "))
	return meeting.Analysis{
		Sentiment: sentiment,
		Score:     clamp(AnalysisConfidence, 0, 1),
		Topics:    nonNil(vocab.Topics(keywords)),
		Keywords:  nonNil(keywords),
	}
}

// Readability estimates how easy the transcript is to follow, from 0 to
// 100, penalizing long utterances. Returns 0 for an empty set.
func Readability(segs []meeting.Segment) float64 {
	if len(segs) == 0 {
		return 0
	}
	words := 0
	for _, s := range segs {
		words += len(strings.Fields(s.Text))
	}
	avg := float64(words) / float64(len(segs))
	score := clamp(100-1.5*avg, 0, 100)
	return math.Round(score*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
