package ngramlm

import (
	"encoding/binary"
	"fmt"
)

// Sentence is an ordered sequence of tokens. A valid Sentence has length
// >= 1 after normalization (spec.md §3); the empty sentence is only ever
// seen internally, as the degenerate input to n-gram lifting.
type Sentence []Token

// key returns a string uniquely identifying s's token sequence, used as the
// map key backing TokenizedCorpus's set semantics. Tokens are fixed-width
// so this is an unambiguous encoding (no separator is needed).
func (s Sentence) key() string {
	buf := make([]byte, 8*len(s))
	for i, t := range s {
		binary.BigEndian.PutUint64(buf[i*8:], uint64(t))
	}
	return string(buf)
}

// TokenizedCorpus is a deduplicated set of sentences (spec.md §3).
type TokenizedCorpus struct {
	sentences map[string]Sentence
}

// NewTokenizedCorpus returns an empty TokenizedCorpus.
func NewTokenizedCorpus() *TokenizedCorpus {
	return &TokenizedCorpus{sentences: make(map[string]Sentence)}
}

// Add inserts s into c. Re-adding an already-present sentence is a no-op.
func (c *TokenizedCorpus) Add(s Sentence) {
	c.sentences[s.key()] = s
}

// Len returns the number of distinct sentences in c.
func (c *TokenizedCorpus) Len() int {
	return len(c.sentences)
}

// Sentences returns every sentence in c, in unspecified order.
func (c *TokenizedCorpus) Sentences() []Sentence {
	out := make([]Sentence, 0, len(c.sentences))
	for _, s := range c.sentences {
		out = append(out, s)
	}
	return out
}

// Merge unions other into c.
func (c *TokenizedCorpus) Merge(other *TokenizedCorpus) {
	for k, s := range other.sentences {
		c.sentences[k] = s
	}
}

// GobEncode implements gob.GobEncoder. TokenizedCorpus keeps its sentence
// set unexported (it's a dedup map keyed by an internal encoding, not
// something callers should touch directly), so it needs an explicit
// encoder the same way Vocabulary does.
func (c *TokenizedCorpus) GobEncode() ([]byte, error) {
	return gobEncode(c.Sentences())
}

// GobDecode implements gob.GobDecoder.
func (c *TokenizedCorpus) GobDecode(data []byte) error {
	var sentences []Sentence
	if err := gobDecode(data, &sentences); err != nil {
		return fmt.Errorf("decode tokenized corpus: %w", err)
	}
	c.sentences = make(map[string]Sentence, len(sentences))
	for _, s := range sentences {
		c.sentences[s.key()] = s
	}
	return nil
}

// DatasetEntry pairs a TokenizedCorpus with the multiplicity its counts
// should carry when folded into Transitions (spec.md §3).
type DatasetEntry struct {
	Corpus *TokenizedCorpus
	Weight uint64
}

// Dataset is an ordered list of weighted corpora sharing one Vocabulary
// (spec.md §3).
type Dataset struct {
	Vocabulary *Vocabulary
	entries    []DatasetEntry
}

// NewDataset returns an empty Dataset over vocab.
func NewDataset(vocab *Vocabulary) *Dataset {
	return &Dataset{Vocabulary: vocab}
}

// AddCorpus appends (corpus, weight) to d. weight must be >= 1.
func (d *Dataset) AddCorpus(corpus *TokenizedCorpus, weight uint64) error {
	if weight < 1 {
		return fmt.Errorf("corpus weight must be >= 1, got %d", weight)
	}
	d.entries = append(d.entries, DatasetEntry{Corpus: corpus, Weight: weight})
	return nil
}

// Entries returns d's (corpus, weight) pairs in the order they were added.
func (d *Dataset) Entries() []DatasetEntry {
	return d.entries
}

// gobDataset is the on-disk shape of a Dataset.
type gobDataset struct {
	Vocabulary *Vocabulary
	Entries    []DatasetEntry
}

// GobEncode implements gob.GobEncoder.
func (d *Dataset) GobEncode() ([]byte, error) {
	return gobEncode(&gobDataset{Vocabulary: d.Vocabulary, Entries: d.entries})
}

// GobDecode implements gob.GobDecoder.
func (d *Dataset) GobDecode(data []byte) error {
	var payload gobDataset
	if err := gobDecode(data, &payload); err != nil {
		return fmt.Errorf("decode dataset: %w", err)
	}
	d.Vocabulary = payload.Vocabulary
	d.entries = payload.Entries
	return nil
}

// Tokenize normalizes and looks up every entry of words against d.Vocabulary,
// returning the resulting Sentence. It fails with ErrUnknownWord if any
// word is absent from the vocabulary (spec.md §6 "messages tokenize", §7
// UnknownWord).
func (d *Dataset) Tokenize(words []string) (Sentence, error) {
	s := make(Sentence, 0, len(words))
	for _, w := range words {
		norm := NormalizeWord(w)
		if norm == "" {
			continue
		}
		t, ok := d.Vocabulary.TokenOf(norm)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWord, norm)
		}
		s = append(s, t)
	}
	return s, nil
}
