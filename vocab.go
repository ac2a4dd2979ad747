package ngramlm

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/dlclark/regexp2"
)

// wordTrimPattern strips the punctuation-heavy edges real messages tend to
// carry ("Hello," "World!") while leaving internal punctuation
// (contractions, hyphenation) alone. It's deliberately narrower than a full
// tokenizer: spec.md §1 scopes raw-line preprocessing out of the core as "a
// trivial preprocessor" — this only sharpens the edge-trimming step of it.
var wordTrimPattern = regexp2.MustCompile(`^[^\p{L}\p{N}]+|[^\p{L}\p{N}]+$`, regexp2.None)

// NormalizeWord applies the vocabulary's word normalization: trim
// surrounding whitespace, lowercase, and unescape a JSON string literal if
// the raw token happens to be one (spec.md §3).
func NormalizeWord(raw string) string {
	s := strings.TrimSpace(raw)
	if unescaped, ok := unescapeJSONString(s); ok {
		s = unescaped
	}
	return strings.ToLower(s)
}

// TrimPunctuation strips leading/trailing non-letter, non-digit runes from
// w. Used by the CLI's line preprocessor ahead of NormalizeWord; the core
// Vocabulary itself does not call this (spec.md's normalization is trim +
// lowercase + JSON-unescape only).
func TrimPunctuation(w string) string {
	trimmed, err := wordTrimPattern.Replace(w, "", -1, -1)
	if err != nil {
		// regexp2 only errors on catastrophic backtracking timeouts, which
		// this fixed anchored pattern cannot hit; fall back to the input.
		return w
	}
	return trimmed
}

func unescapeJSONString(s string) (string, bool) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	var out string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return "", false
	}
	return out, true
}

// IDAssignment selects how a Vocabulary assigns new Tokens to new words.
type IDAssignment int

const (
	// DenseIDs assigns sequential IDs starting from 1 (0 and the maximum
	// representable value are reserved for TokenStart/TokenEnd).
	DenseIDs IDAssignment = iota
	// RandomIDs draws uniform random 64-bit IDs, rejecting collisions with
	// the two sentinels and with already-assigned IDs.
	RandomIDs
)

// Vocabulary is a bijective mapping between normalized words and Tokens.
// TokenStart and TokenEnd are never present as values of either direction
// of the map (spec.md §3, invariant 2). Must be constructed with
// NewVocabulary or NewVocabularyRandom.
type Vocabulary struct {
	assignment IDAssignment
	wordToken  map[string]Token
	tokenWord  map[Token]string
	nextDense  Token
	rng        *rand.Rand
}

// NewVocabulary constructs an empty Vocabulary using the dense sequential
// assignment policy.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		assignment: DenseIDs,
		wordToken:  make(map[string]Token),
		tokenWord:  make(map[Token]string),
		nextDense:  1,
	}
}

// NewVocabularyRandom constructs an empty Vocabulary that assigns new words
// random 64-bit token IDs, rejecting sentinel and collision values.
func NewVocabularyRandom(seed1, seed2 uint64) *Vocabulary {
	v := NewVocabulary()
	v.assignment = RandomIDs
	v.rng = rand.New(rand.NewPCG(seed1, seed2))
	return v
}

// Len returns the number of distinct words in v.
func (v *Vocabulary) Len() int {
	return len(v.wordToken)
}

// TokenOf looks up the Token assigned to word, if any.
func (v *Vocabulary) TokenOf(word string) (Token, bool) {
	t, ok := v.wordToken[word]
	return t, ok
}

// WordOf looks up the word assigned to t, if any.
func (v *Vocabulary) WordOf(t Token) (string, bool) {
	w, ok := v.tokenWord[t]
	return w, ok
}

// Assign inserts word into v if it is not already present, returning its
// Token either way. This is the single mutation entry point; every other
// operation that adds words routes through it so the two directions of the
// bimap never drift apart (spec.md §9).
func (v *Vocabulary) Assign(word string) Token {
	if t, ok := v.wordToken[word]; ok {
		return t
	}
	var t Token
	switch v.assignment {
	case RandomIDs:
		t = v.drawRandomToken()
	default:
		t = v.drawDenseToken()
	}
	v.wordToken[word] = t
	v.tokenWord[t] = word
	return t
}

func (v *Vocabulary) drawDenseToken() Token {
	for v.nextDense.IsSentinel() {
		v.nextDense++
	}
	t := v.nextDense
	v.nextDense++
	return t
}

func (v *Vocabulary) drawRandomToken() Token {
	if v.rng == nil {
		v.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	for {
		t := Token(v.rng.Uint64())
		if t.IsSentinel() {
			continue
		}
		if _, taken := v.tokenWord[t]; taken {
			continue
		}
		return t
	}
}

// Merge adds every word of other that is missing from v, preserving v's
// existing assignments (spec.md §3; §8 invariant 5, merge monotonicity).
func (v *Vocabulary) Merge(other *Vocabulary) {
	for word := range other.wordToken {
		v.Assign(word)
	}
}

// gobVocabulary is the on-disk shape of a Vocabulary.
type gobVocabulary struct {
	Assignment IDAssignment
	Words      []string
	Tokens     []Token
}

// GobEncode implements gob.GobEncoder.
func (v *Vocabulary) GobEncode() ([]byte, error) {
	payload := gobVocabulary{Assignment: v.assignment}
	for w, t := range v.wordToken {
		payload.Words = append(payload.Words, w)
		payload.Tokens = append(payload.Tokens, t)
	}
	return gobEncode(&payload)
}

// GobDecode implements gob.GobDecoder.
func (v *Vocabulary) GobDecode(data []byte) error {
	var payload gobVocabulary
	if err := gobDecode(data, &payload); err != nil {
		return fmt.Errorf("decode vocabulary: %w", err)
	}
	v.assignment = payload.Assignment
	v.wordToken = make(map[string]Token, len(payload.Words))
	v.tokenWord = make(map[Token]string, len(payload.Words))
	v.nextDense = 1
	for i, w := range payload.Words {
		t := payload.Tokens[i]
		v.wordToken[w] = t
		v.tokenWord[t] = w
		if v.assignment == DenseIDs && t >= v.nextDense {
			v.nextDense = t + 1
		}
	}
	return nil
}
