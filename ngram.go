package ngramlm

import "fmt"

// ngramArray is the type set of fixed-size token arrays this package deals
// in. Orders above 3 are out of scope (spec.md §1: N ∈ {1,2,3}).
type ngramArray interface {
	[1]Token | [2]Token | [3]Token
}

// NGram is a fixed-size tuple of N adjacent tokens, N ∈ {1,2,3}. Distinct
// orders are distinct types (NGram[[1]Token], NGram[[2]Token],
// NGram[[3]Token]), so a trigram can never be mistaken for a bigram at
// compile time, and both remain plain comparable values usable as map keys.
type NGram[A ngramArray] struct {
	tokens A
}

// Of builds an NGram from its tokens, e.g. Of([2]Token{a, b}).
func Of[A ngramArray](tokens A) NGram[A] {
	return NGram[A]{tokens: tokens}
}

// Len returns the order of g (1, 2, or 3).
func (g NGram[A]) Len() int {
	return len(g.tokens)
}

// At returns the i-th token of g.
func (g NGram[A]) At(i int) Token {
	return g.tokens[i]
}

// Slice returns g's tokens as a freshly allocated slice.
func (g NGram[A]) Slice() []Token {
	out := make([]Token, len(g.tokens))
	copy(out, g.tokens[:])
	return out
}

// IsStart reports whether every slot of g is TokenStart.
func (g NGram[A]) IsStart() bool {
	for _, t := range g.tokens {
		if t != TokenStart {
			return false
		}
	}
	return true
}

// IsEnd reports whether every slot of g is TokenEnd.
func (g NGram[A]) IsEnd() bool {
	for _, t := range g.tokens {
		if t != TokenEnd {
			return false
		}
	}
	return true
}

// ContainsStart reports whether any slot of g is TokenStart.
func (g NGram[A]) ContainsStart() bool {
	for _, t := range g.tokens {
		if t == TokenStart {
			return true
		}
	}
	return false
}

// ContainsEnd reports whether any slot of g is TokenEnd.
func (g NGram[A]) ContainsEnd() bool {
	for _, t := range g.tokens {
		if t == TokenEnd {
			return true
		}
	}
	return false
}

// EmittedToken returns g's last slot, the token this n-gram represents
// "emitting" when used as a transition target.
func (g NGram[A]) EmittedToken() Token {
	return g.tokens[len(g.tokens)-1]
}

// Head returns g's first N-1 slots.
func (g NGram[A]) Head() []Token {
	return g.Slice()[:g.Len()-1]
}

// Tail returns g's last N-1 slots.
func (g NGram[A]) Tail() []Token {
	return g.Slice()[1:]
}

func (g NGram[A]) String() string {
	return fmt.Sprint(g.tokens)
}

// Uni, Bi and Tri name the three concrete n-gram orders this package
// supports, so callers don't have to spell out NGram[[1]Token] etc.
type (
	Uni = NGram[[1]Token]
	Bi  = NGram[[2]Token]
	Tri = NGram[[3]Token]
)

// construct lifts a sentence s to its order-N n-gram sequence: prepend N
// copies of TokenStart, optionally append N copies of TokenEnd, then take
// every N-sized sliding window. This is the generic engine behind
// ConstructUni/Bi/Tri and ConstructTaillessUni/Bi/Tri; see spec.md §4.1 for
// the exact padding rules and the worked edge cases it must match.
func construct(s []Token, n int, withEnd bool) [][]Token {
	padded := make([]Token, 0, n+len(s)+n)
	for i := 0; i < n; i++ {
		padded = append(padded, TokenStart)
	}
	padded = append(padded, s...)
	if withEnd {
		for i := 0; i < n; i++ {
			padded = append(padded, TokenEnd)
		}
	} else if len(padded) < n {
		// Tailless lifting of an empty sentence still needs at least one
		// window: the all-start n-gram.
		for len(padded) < n {
			padded = append(padded, TokenStart)
		}
	}
	windows := make([][]Token, 0, len(padded)-n+1)
	for i := 0; i+n <= len(padded); i++ {
		w := make([]Token, n)
		copy(w, padded[i:i+n])
		windows = append(windows, w)
	}
	return windows
}

// ConstructUni lifts s to its full unigram n-gram sequence (spec.md §4.1).
func ConstructUni(s []Token) []Uni { return liftTo[[1]Token](s, 1, true) }

// ConstructBi lifts s to its full bigram n-gram sequence.
func ConstructBi(s []Token) []Bi { return liftTo[[2]Token](s, 2, true) }

// ConstructTri lifts s to its full trigram n-gram sequence.
func ConstructTri(s []Token) []Tri { return liftTo[[3]Token](s, 3, true) }

// ConstructTaillessUni lifts s without the trailing TokenEnd windows.
func ConstructTaillessUni(s []Token) []Uni { return liftTo[[1]Token](s, 1, false) }

// ConstructTaillessBi lifts s without the trailing TokenEnd windows.
func ConstructTaillessBi(s []Token) []Bi { return liftTo[[2]Token](s, 2, false) }

// ConstructTaillessTri lifts s without the trailing TokenEnd windows.
func ConstructTaillessTri(s []Token) []Tri { return liftTo[[3]Token](s, 3, false) }

func liftTo[A ngramArray](s []Token, n int, withEnd bool) []NGram[A] {
	windows := construct(s, n, withEnd)
	out := make([]NGram[A], len(windows))
	for i, w := range windows {
		var a A
		copy(a[:], w)
		out[i] = NGram[A]{tokens: a}
	}
	return out
}

// Deconstruct recovers the sentence a lifting was built from. It skips the
// leading all-start windows, then reads off the emitted token of each
// following window until one containing TokenEnd is reached (exclusive).
// Given a full lifting (ConstructUni/Bi/Tri) this exactly inverts construct;
// given a tailless lifting (ConstructTailless*) the result is a prefix of
// the original sentence, since the trailing context is not present to
// signal where the sentence ended.
func Deconstruct[A ngramArray](lifted []NGram[A]) []Token {
	if len(lifted) == 0 {
		return nil
	}
	i := 0
	for i < len(lifted) && lifted[i].IsStart() {
		i++
	}
	var out []Token
	for ; i < len(lifted); i++ {
		if lifted[i].ContainsEnd() {
			break
		}
		out = append(out, lifted[i].EmittedToken())
	}
	return out
}
