package tokenizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultFilters is the set of characters stripped from text before splitting.
const DefaultFilters = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

var ErrEmptyVocabulary = errors.New("tokenizer vocabulary is empty")

// Tokenizer maps review text to vocabulary indices using the word index
// produced at training time. It is never modified after Load.
type Tokenizer struct {
	wordIndex map[string]int
	numWords  int // 0 means unbounded
	oovIndex  int // 0 means unknown words are dropped
	filters   map[rune]struct{}
	lower     bool
	split     string
	charLevel bool
}

// artifact is the document written by the training toolchain's to_json().
type artifact struct {
	ClassName string         `json:"class_name"`
	Config    artifactConfig `json:"config"`
}

type artifactConfig struct {
	NumWords  *int            `json:"num_words"`
	Filters   *string         `json:"filters"`
	Lower     *bool           `json:"lower"`
	Split     *string         `json:"split"`
	CharLevel bool            `json:"char_level"`
	OOVToken  *string         `json:"oov_token"`
	WordIndex json.RawMessage `json:"word_index"`
}

// Load decodes a tokenizer artifact.
func Load(r io.Reader) (*Tokenizer, error) {
	var doc artifact
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode tokenizer: %w", err)
	}
	if doc.ClassName != "" && doc.ClassName != "Tokenizer" {
		return nil, fmt.Errorf("unexpected tokenizer class %q", doc.ClassName)
	}

	wordIndex, err := decodeWordIndex(doc.Config.WordIndex)
	if err != nil {
		return nil, err
	}
	if len(wordIndex) == 0 {
		return nil, ErrEmptyVocabulary
	}

	cfg := doc.Config
	t := &Tokenizer{
		wordIndex: wordIndex,
		lower:     true,
		split:     " ",
		charLevel: cfg.CharLevel,
	}
	filters := DefaultFilters
	if cfg.Filters != nil {
		filters = *cfg.Filters
	}
	t.filters = make(map[rune]struct{}, len(filters))
	for _, r := range filters {
		t.filters[r] = struct{}{}
	}
	if cfg.Lower != nil {
		t.lower = *cfg.Lower
	}
	if cfg.Split != nil && *cfg.Split != "" {
		t.split = *cfg.Split
	}
	if cfg.NumWords != nil {
		if *cfg.NumWords < 0 {
			return nil, fmt.Errorf("invalid num_words %d", *cfg.NumWords)
		}
		t.numWords = *cfg.NumWords
	}
	if cfg.OOVToken != nil {
		idx, ok := wordIndex[*cfg.OOVToken]
		if !ok {
			return nil, fmt.Errorf("oov token %q missing from word index", *cfg.OOVToken)
		}
		t.oovIndex = idx
	}
	return t, nil
}

// decodeWordIndex accepts the index either as an object or as a JSON-encoded
// string holding that object, which is how to_json() writes it.
func decodeWordIndex(raw json.RawMessage) (map[string]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrEmptyVocabulary
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("decode word_index string: %w", err)
		}
		raw = json.RawMessage(encoded)
	}
	var index map[string]int
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("decode word_index: %w", err)
	}
	for word, i := range index {
		if i <= 0 {
			return nil, fmt.Errorf("word %q has non-positive index %d", word, i)
		}
	}
	return index, nil
}

// Words splits text the way the tokenizer was fitted: optional lower-casing,
// filter characters replaced by the split string, empty pieces dropped.
func (t *Tokenizer) Words(text string) []string {
	if t.lower {
		text = strings.ToLower(text)
	}
	if t.charLevel {
		words := make([]string, 0, len(text))
		for _, r := range text {
			words = append(words, string(r))
		}
		return words
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if _, ok := t.filters[r]; ok {
			b.WriteString(t.split)
			continue
		}
		b.WriteRune(r)
	}

	pieces := strings.Split(b.String(), t.split)
	words := pieces[:0]
	for _, p := range pieces {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// TextToSequence converts text to vocabulary indices. Words outside the
// vocabulary, or ranked at or beyond num_words, become the OOV index when one
// is configured and are dropped otherwise.
func (t *Tokenizer) TextToSequence(text string) []int {
	words := t.Words(text)
	seq := make([]int, 0, len(words))
	for _, w := range words {
		i, ok := t.wordIndex[w]
		if ok && (t.numWords == 0 || i < t.numWords) {
			seq = append(seq, i)
			continue
		}
		if t.oovIndex != 0 {
			seq = append(seq, t.oovIndex)
		}
	}
	return seq
}

// Lookup returns the index of a single, already normalised word.
func (t *Tokenizer) Lookup(word string) (int, bool) {
	i, ok := t.wordIndex[word]
	return i, ok
}

// VocabularySize is the largest index TextToSequence can emit, plus one for
// the padding index 0.
func (t *Tokenizer) VocabularySize() int {
	if t.numWords > 0 {
		return t.numWords
	}
	highest := 0
	for _, i := range t.wordIndex {
		if i > highest {
			highest = i
		}
	}
	return highest + 1
}
