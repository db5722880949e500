package pipeline

import (
	"fmt"
	"maps"
	"strings"

	"github.com/hpungsan/callsnap/internal/meeting"
)

// Built-in summary styles, in priority order.
const (
	StyleBullets   = "bullets"
	StyleNarrative = "narrative"
	StyleTLDR      = "tldr"
)

// BuiltinStyles lists the styles generated on every run. The first entry is
// the last-resort default.
var BuiltinStyles = []string{StyleBullets, StyleNarrative, StyleTLDR}

// Supported summary languages.
const (
	LanguagePortuguese = "pt-BR"
	LanguageEnglish    = "en-US"
)

// SummarySource is what a summary is derived from.
type SummarySource struct {
	Title    string
	Topics   []string
	Chapters int
	Actions  int
}

// SourceOf builds a SummarySource from a meeting's current derived state.
func SourceOf(m *meeting.Meeting) SummarySource {
	return SummarySource{
		Title:    m.Title,
		Topics:   m.Analysis.Topics,
		Chapters: len(m.Chapters),
		Actions:  len(m.ActionItems),
	}
}

// SummaryRequest selects the style and language of a run. PreviousStyle is
// the meeting's sticky preference, consulted when Style is empty.
type SummaryRequest struct {
	Style         string
	Language      string
	PreviousStyle string
}

// SummaryResult is the outcome of Summarize.
type SummaryResult struct {
	// Style is the key whose text became the default
	Style    string
	Default  string
	Styles   map[string]string
	Language string
}

type template struct {
	bullets   func(SummarySource) string
	narrative func(SummarySource) string
	tldr      func(SummarySource) string
}

var templates = map[string]template{
	LanguagePortuguese: {
		bullets: func(s SummarySource) string {
			return fmt.Sprintf("• %s\n• Tópicos: %s\n• %d capítulos revisados\n• %d ações definidas",
				s.Title, joinTopics(s.Topics, "gerais"), s.Chapters, s.Actions)
		},
		narrative: func(s SummarySource) string {
			return fmt.Sprintf("%s: Foram discutidos %s e próximos passos. A CallSnap gerou uma ata automática.",
				s.Title, joinTopics(s.Topics, "assuntos gerais"))
		},
		tldr: func(s SummarySource) string {
			return fmt.Sprintf("TL;DR: %s em %d capítulos, %d ações.", s.Title, s.Chapters, s.Actions)
		},
	},
	LanguageEnglish: {
		bullets: func(s SummarySource) string {
			return fmt.Sprintf("• %s\n• Topics: %s\n• %d chapters reviewed\n• %d action items",
				s.Title, joinTopics(s.Topics, "general"), s.Chapters, s.Actions)
		},
		narrative: func(s SummarySource) string {
			return fmt.Sprintf("%s: The team discussed %s and next steps. CallSnap generated automatic minutes.",
				s.Title, joinTopics(s.Topics, "general matters"))
		},
		tldr: func(s SummarySource) string {
			return fmt.Sprintf("TL;DR: %s in %d chapters, %d action items.", s.Title, s.Chapters, s.Actions)
		},
	},
}

func joinTopics(topics []string, fallback string) string {
	if len(topics) == 0 {
		return fallback
	}
	return strings.Join(topics, ", ")
}

// CanonicalLanguage maps a case-insensitive language tag to a supported one.
// Unknown tags are returned trimmed and unchanged; "" means pt-BR.
func CanonicalLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	switch strings.ToLower(lang) {
	case "", "pt", "pt-br":
		return LanguagePortuguese
	case "en", "en-us":
		return LanguageEnglish
	}
	return lang
}

// Summarize generates every built-in style for the source, merges them over
// existing, and picks the default. A requested style that is neither
// built-in nor already present gets a placeholder entry, so the result
// always contains the requested key. Unknown languages fall back to the
// pt-BR templates but are recorded as requested.
func Summarize(src SummarySource, existing map[string]string, req SummaryRequest) SummaryResult {
	lang := CanonicalLanguage(req.Language)
	tpl, ok := templates[lang]
	if !ok {
		tpl = templates[LanguagePortuguese]
	}

	fresh := map[string]string{
		StyleBullets:   tpl.bullets(src),
		StyleNarrative: tpl.narrative(src),
		StyleTLDR:      tpl.tldr(src),
	}
	styles := MergeStyles(existing, fresh)

	requested := meeting.Normalize(req.Style)
	if requested != "" {
		if _, ok := styles[requested]; !ok {
			styles[requested] = fmt.Sprintf("[%s] %s", requested, src.Title)
		}
	}

	style := ResolveStyle(styles, requested, meeting.Normalize(req.PreviousStyle))
	return SummaryResult{
		Style:    style,
		Default:  styles[style],
		Styles:   styles,
		Language: lang,
	}
}

// ResolveStyle picks the default key: requested, then previous, then the
// first built-in, each only if present in styles.
func ResolveStyle(styles map[string]string, requested, previous string) string {
	for _, candidate := range []string{requested, previous} {
		if candidate == "" {
			continue
		}
		if _, ok := styles[candidate]; ok {
			return candidate
		}
	}
	return BuiltinStyles[0]
}

// MergeStyles returns a new map with every entry of existing, overridden by
// fresh on matching keys. Neither input is modified.
func MergeStyles(existing, fresh map[string]string) map[string]string {
	out := make(map[string]string, len(existing)+len(fresh))
	maps.Copy(out, existing)
	maps.Copy(out, fresh)
	return out
}
