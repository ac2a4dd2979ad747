package ngramlm

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// version is stamped into every built Model's "version" header.
const version = "1"

// Model bundles a built Transitions set with the Vocabulary it was built
// over and a small set of free-form string headers (spec.md §3/§4.4).
type Model struct {
	Headers     map[string]string
	Transitions *TransitionsSet
	Vocabulary  *Vocabulary
}

// Build constructs a Model from ds, with bigram/trigram tables built
// according to the flags, and stamps the baseline headers: "version",
// "ngram_size" (when the model is built at one fixed order), and
// "build_id" (a fresh UUID, for provenance across repeated builds from the
// same dataset — spec.md §4.4, SPEC_FULL.md §3).
func Build(ds *Dataset, buildBigram, buildTrigram bool) *Model {
	m := &Model{
		Headers:     make(map[string]string),
		Transitions: BuildTransitions(ds, buildBigram, buildTrigram),
		Vocabulary:  ds.Vocabulary,
	}
	m.Headers["version"] = version
	m.Headers["build_id"] = uuid.NewString()
	switch {
	case buildTrigram:
		m.Headers["ngram_size"] = "3"
	case buildBigram:
		m.Headers["ngram_size"] = "2"
	default:
		m.Headers["ngram_size"] = "1"
	}
	return m
}

// WithHeader returns m after setting header k to v, for chaining
// (spec.md §4.4).
func (m *Model) WithHeader(k, v string) *Model {
	m.Headers[k] = v
	return m
}

// WordFrequency returns the number of times word was observed as a unigram
// successor of anything (i.e. its total occurrence count), or false if the
// word is unknown or never observed.
func (m *Model) WordFrequency(word string) (uint64, bool) {
	t, ok := m.Vocabulary.TokenOf(word)
	if !ok {
		return 0, false
	}
	var total uint64
	target := Of([1]Token{t})
	for _, cur := range m.Transitions.Unigram.contentContextsAndPadding() {
		total += m.Transitions.Unigram.Count(cur, target)
	}
	return total, total > 0
}

// Detokenize renders tokens back into their words via m.Vocabulary. It fails
// with ErrUnknownToken if any token has no vocabulary entry — a hard
// corruption of the model/vocabulary pairing, not an expected "not present"
// query (spec.md §7).
func (m *Model) Detokenize(tokens []Token) ([]string, error) {
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		w, ok := m.Vocabulary.WordOf(t)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnknownToken, t)
		}
		words = append(words, w)
	}
	return words, nil
}

// WordNeighbors is one entry of CheckWord's report: a neighboring unigram
// and the weighted count of the transition to/from it.
type WordNeighbors struct {
	Word  string
	Count uint64
}

// CheckWordResult is the diagnostic report "dataset check-word"/"model
// check-word" print (SPEC_FULL.md §4): the word's token, its frequency (the
// weighted counts of its unigram transitions in and out, summed, so each
// occurrence inside a sentence counts twice), and its top
// predecessor/successor unigrams by weighted count.
type CheckWordResult struct {
	Token           Token
	Frequency       uint64
	TopPredecessors []WordNeighbors
	TopSuccessors   []WordNeighbors
}

// CheckWord computes a CheckWordResult for word against m's unigram table.
// Predecessors are found by inverting the forward table on demand, since
// spec.md §4.2 allows omitting a permanently-stored backward table.
func (m *Model) CheckWord(word string, topN int) (CheckWordResult, bool) {
	t, ok := m.Vocabulary.TokenOf(word)
	if !ok {
		return CheckWordResult{}, false
	}
	self := Of([1]Token{t})
	var result CheckWordResult
	result.Token = t

	successors := m.Transitions.Unigram.Successors(self)
	var freq uint64
	for _, s := range successors {
		freq += s.Count
	}
	var predecessors []WordNeighbors
	for cur, nexts := range m.Transitions.Unigram.forward {
		if c, ok := nexts[self]; ok {
			if w, ok := m.Vocabulary.WordOf(cur.At(0)); ok {
				predecessors = append(predecessors, WordNeighbors{Word: w, Count: c})
			}
			freq += c
		}
	}
	result.Frequency = freq
	result.TopSuccessors = topNeighbors(m, successors, topN)
	sort.Slice(predecessors, func(i, j int) bool { return predecessors[i].Count > predecessors[j].Count })
	if topN > 0 && len(predecessors) > topN {
		predecessors = predecessors[:topN]
	}
	result.TopPredecessors = predecessors
	return result, true
}

func topNeighbors(m *Model, successors []Successor[[1]Token], topN int) []WordNeighbors {
	out := make([]WordNeighbors, 0, len(successors))
	for _, s := range successors {
		w, ok := m.Vocabulary.WordOf(s.Next.At(0))
		if !ok {
			continue
		}
		out = append(out, WordNeighbors{Word: w, Count: s.Count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// contentContextsAndPadding returns every unigram context, including
// TokenStart and TokenEnd, for WordFrequency's total-occurrence scan (which
// deliberately does not restrict to content contexts the way
// Complexity/AvgPaths/Variety do).
func (t *Transitions[A]) contentContextsAndPadding() []NGram[A] {
	out := make([]NGram[A], 0, len(t.forward))
	for cur := range t.forward {
		out = append(out, cur)
	}
	return out
}
