package transcribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
)

// DefaultCorpus is the fixed set of utterances emitted by CorpusBackend.
var DefaultCorpus = []string{
	"Discussão sobre roadmap do produto e prioridades do trimestre.",
	"Alinhamento com time de vendas sobre feedback dos clientes enterprise.",
	"Definição de próximos passos e responsáveis por cada tarefa chave.",
	"Detalhes técnicos sobre a integração com Google Meet e compliance.",
}

const (
	defaultSpeakers       = 3
	defaultSegmentSeconds = 45.0
	defaultStrideSeconds  = 3.0
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// CorpusBackend emits one segment per corpus utterance with rotating
// speakers and evenly spaced, non-overlapping time ranges.
type CorpusBackend struct {
	Corpus         []string
	Vocabulary     Vocabulary
	Speakers       int
	SegmentSeconds float64
	// StrideSeconds is the gap between a segment's end and the next start.
	StrideSeconds float64
}

// NewCorpusBackend returns a backend over DefaultCorpus and DefaultVocabulary.
func NewCorpusBackend() *CorpusBackend {
	return &CorpusBackend{
		Corpus:         DefaultCorpus,
		Vocabulary:     DefaultVocabulary,
		Speakers:       defaultSpeakers,
		SegmentSeconds: defaultSegmentSeconds,
		StrideSeconds:  defaultStrideSeconds,
	}
}

// Transcribe implements Backend. The output depends only on the corpus, so
// every run over the same backend yields identical segments.
func (b *CorpusBackend) Transcribe(ctx context.Context, _ Request) ([]meeting.Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("transcribe")
	}
	if len(b.Corpus) == 0 {
		return nil, errors.NewInternal(fmt.Errorf("corpus backend has no utterances"))
	}
	speakers := max(b.Speakers, 1)

	segs := make([]meeting.Segment, 0, len(b.Corpus))
	start := 0.0
	for i, text := range b.Corpus {
		text = strings.TrimSpace(text)
		end := start + b.SegmentSeconds
		sentiment := SentimentNeutral
		if i%2 == 0 {
			sentiment = SentimentPositive
		}
		segs = append(segs, meeting.Segment{
			ID:        fmt.Sprintf("seg-%d", i+1),
			Speaker:   fmt.Sprintf("Speaker %d", i%speakers+1),
			Start:     start,
			End:       end,
			Duration:  b.SegmentSeconds,
			Text:      text,
			Sentiment: sentiment,
			Keywords:  b.Vocabulary.Match(text),
		})
		start = end + b.StrideSeconds
	}
	return segs, nil
}
