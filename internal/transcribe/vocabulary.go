package transcribe

import "strings"

// Term is one controlled-vocabulary entry.
type Term struct {
	Phrase string
	Topic  string
}

// Root is the term's leading word, lowercased. A term matches text that
// contains its root.
func (t Term) Root() string {
	root, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(t.Phrase)), " ")
	return root
}

// Vocabulary is an ordered controlled vocabulary.
type Vocabulary []Term

// DefaultVocabulary covers the product, customer and delivery themes of the corpus.
var DefaultVocabulary = Vocabulary{
	{Phrase: "roadmap", Topic: "product"},
	{Phrase: "clientes enterprise", Topic: "customers"},
	{Phrase: "próximos passos", Topic: "planning"},
	{Phrase: "integração google meet", Topic: "integrations"},
	{Phrase: "compliance", Topic: "compliance"},
	{Phrase: "feedback", Topic: "customers"},
}

// Match returns, in vocabulary order, the phrases whose root appears
// case-insensitively in text.
func (v Vocabulary) Match(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, t := range v {
		if root := t.Root(); root != "" && strings.Contains(lower, root) {
			out = append(out, t.Phrase)
		}
	}
	return out
}

// Topics returns the distinct topics of the given phrases in vocabulary order.
func (v Vocabulary) Topics(phrases []string) []string {
	want := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		want[p] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, t := range v {
		if want[t.Phrase] && !seen[t.Topic] {
			seen[t.Topic] = true
			out = append(out, t.Topic)
		}
	}
	return out
}
