package ngramlm

import "errors"

// Error taxonomy (spec.md §7). Queries that mean "not present" are never
// represented as errors — they return a zero value and an ok bool. These
// sentinels cover the failure modes that genuinely are exceptional.
var (
	// ErrUnknownWord signals a sentence contains a word absent from the
	// vocabulary during tokenization.
	ErrUnknownWord = errors.New("unknown word")
	// ErrUnknownToken signals detokenization encountered a token with no
	// vocabulary entry — a hard corruption of the model/vocabulary pairing.
	ErrUnknownToken = errors.New("unknown token")
	// ErrNgramOrderMismatch signals a deserialized n-gram payload whose
	// length doesn't match its declared order.
	ErrNgramOrderMismatch = errors.New("n-gram length does not match declared order")
	// ErrUnimplemented marks a named-but-not-built option, e.g. Kneser-Ney
	// smoothing (spec.md §4.2, §9).
	ErrUnimplemented = errors.New("not implemented")
)
