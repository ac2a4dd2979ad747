package ngramlm

import (
	"fmt"
	"math"
)

// Transitions is the sparse two-level conditional count table for a single
// n-gram order: current n-gram → (next n-gram → weighted count). Built once
// by BuildTransitions and immutable thereafter; safe for concurrent readers
// (spec.md §5).
type Transitions[A ngramArray] struct {
	order   int
	forward map[NGram[A]]map[NGram[A]]uint64
}

func newTransitions[A ngramArray](order int) *Transitions[A] {
	return &Transitions[A]{order: order, forward: make(map[NGram[A]]map[NGram[A]]uint64)}
}

// Order returns the n-gram order this table was built at (1, 2, or 3).
func (t *Transitions[A]) Order() int { return t.order }

// Len returns the number of distinct contexts with at least one recorded
// successor.
func (t *Transitions[A]) Len() int { return len(t.forward) }

func (t *Transitions[A]) add(cur, next NGram[A], weight uint64) {
	m, ok := t.forward[cur]
	if !ok {
		m = make(map[NGram[A]]uint64)
		t.forward[cur] = m
	}
	m[next] += weight
}

// Count returns the observed weighted count for (cur → next), or 0 if
// absent (spec.md §4.2; never raises).
func (t *Transitions[A]) Count(cur, next NGram[A]) uint64 {
	return t.forward[cur][next]
}

// Successor pairs a successor n-gram with its weighted count.
type Successor[A ngramArray] struct {
	Next  NGram[A]
	Count uint64
}

// Successors returns the (next, count) pairs observed after cur, or nil if
// cur was never observed (spec.md §4.2; total, never raises).
func (t *Transitions[A]) Successors(cur NGram[A]) []Successor[A] {
	m, ok := t.forward[cur]
	if !ok {
		return nil
	}
	out := make([]Successor[A], 0, len(m))
	for next, c := range m {
		out = append(out, Successor[A]{Next: next, Count: c})
	}
	return out
}

// Probability returns P(next|cur) = count(cur,next) / Σ_x count(cur,x), the
// true MLE spec.md §4.2 pins down, or false if cur was never observed.
func (t *Transitions[A]) Probability(cur, next NGram[A]) (float64, bool) {
	m, ok := t.forward[cur]
	if !ok {
		return 0, false
	}
	var sum uint64
	for _, c := range m {
		sum += c
	}
	if sum == 0 {
		return 0, false
	}
	return float64(m[next]) / float64(sum), true
}

// ProbabilityByArity returns count(cur,next) / |successors(cur)|, the
// bug-compatible normalization spec.md §4.2/§9 documents as a divergent
// implementation found in the corpus. Exposed under its own name rather
// than as the default, per §9.
func (t *Transitions[A]) ProbabilityByArity(cur, next NGram[A]) (float64, bool) {
	m, ok := t.forward[cur]
	if !ok || len(m) == 0 {
		return 0, false
	}
	return float64(m[next]) / float64(len(m)), true
}

// contentContexts returns every context n-gram that contains neither
// TokenStart nor TokenEnd, the restriction spec.md §4.2's aggregate
// metrics apply.
func (t *Transitions[A]) contentContexts() []NGram[A] {
	out := make([]NGram[A], 0, len(t.forward))
	for cur := range t.forward {
		if cur.ContainsStart() || cur.ContainsEnd() {
			continue
		}
		out = append(out, cur)
	}
	return out
}

// Complexity is Σ_a |successors(a)| over content contexts (spec.md §4.2).
func (t *Transitions[A]) Complexity() int {
	total := 0
	for _, cur := range t.contentContexts() {
		total += len(t.forward[cur])
	}
	return total
}

// AvgPaths is Complexity() / (number of content contexts).
func (t *Transitions[A]) AvgPaths() float64 {
	ctxs := t.contentContexts()
	if len(ctxs) == 0 {
		return 0
	}
	total := 0
	for _, cur := range ctxs {
		total += len(t.forward[cur])
	}
	return float64(total) / float64(len(ctxs))
}

// Variety is the fraction of content contexts whose successor count
// exceeds AvgPaths() (spec.md §4.2).
func (t *Transitions[A]) Variety() float64 {
	ctxs := t.contentContexts()
	if len(ctxs) == 0 {
		return 0
	}
	avg := t.AvgPaths()
	above := 0
	for _, cur := range ctxs {
		if float64(len(t.forward[cur])) > avg {
			above++
		}
	}
	return float64(above) / float64(len(ctxs))
}

// absoluteDiscountingDelta is the discount mass subtracted from every
// non-zero count, fixed at 0.75 per spec.md §4.2.
const absoluteDiscountingDelta = 0.75

// AbsoluteDiscounting returns the smoothed probability of next given cur
// using absolute discounting (δ = 0.75), per the formula of spec.md §4.2:
// held-out discount mass is redistributed uniformly across cur's observed
// successors.
func (t *Transitions[A]) AbsoluteDiscounting(cur, next NGram[A]) (float64, bool) {
	m, ok := t.forward[cur]
	if !ok || len(m) == 0 {
		return 0, false
	}
	var sum, discountedSum float64
	for _, c := range m {
		sum += float64(c)
		if d := float64(c) - absoluteDiscountingDelta; d > 0 {
			discountedSum += d
		}
	}
	if sum == 0 {
		return 0, false
	}
	c := float64(m[next])
	numerator := math.Max(c-absoluteDiscountingDelta, 0) +
		absoluteDiscountingDelta*float64(len(m))*(discountedSum/sum)
	return numerator / sum, true
}

// KneserNey is declared but deliberately left unimplemented, per spec.md
// §4.2/§9: the repository this spec was distilled from never completed it
// either.
func (t *Transitions[A]) KneserNey(cur, next NGram[A]) (float64, error) {
	return 0, fmt.Errorf("kneser-ney smoothing: %w", ErrUnimplemented)
}

// rawSuccessor is the order-erased view of a Successor, used at the
// ForwardLookup interface boundary so the generator can back off across
// orders without knowing their concrete array type.
type rawSuccessor struct {
	tokens []Token
	count  uint64
}

// ForwardLookup is implemented by Transitions[A] for every supported order.
type ForwardLookup interface {
	Order() int
	successorsOf(context []Token) ([]rawSuccessor, bool)
	smoothedWeight(context, next []Token, smoothing Smoothing) (float64, error)
}

func (t *Transitions[A]) successorsOf(context []Token) ([]rawSuccessor, bool) {
	var key A
	if len(context) != len(key) {
		return nil, false
	}
	copy(key[:], context)
	m, ok := t.forward[NGram[A]{tokens: key}]
	if !ok {
		return nil, false
	}
	out := make([]rawSuccessor, 0, len(m))
	for next, c := range m {
		out = append(out, rawSuccessor{tokens: next.Slice(), count: c})
	}
	return out, true
}

// smoothedWeight computes the smoothed score of (context -> next) for the
// Generator's step 3, bridging the type-erased ForwardLookup boundary back
// to this order's typed Transitions.
func (t *Transitions[A]) smoothedWeight(context, next []Token, smoothing Smoothing) (float64, error) {
	var curKey, nextKey A
	if len(context) != len(curKey) || len(next) != len(nextKey) {
		return 0, nil
	}
	copy(curKey[:], context)
	copy(nextKey[:], next)
	cur := NGram[A]{tokens: curKey}
	nx := NGram[A]{tokens: nextKey}
	switch smoothing {
	case SmoothingAbsoluteDiscounting:
		p, _ := t.AbsoluteDiscounting(cur, nx)
		return p, nil
	case SmoothingKneserNey:
		return t.KneserNey(cur, nx)
	default:
		return float64(t.Count(cur, nx)), nil
	}
}

// TransitionsSet bundles the unigram table (always present) with the
// optional bigram and trigram tables (spec.md §3).
type TransitionsSet struct {
	Unigram *Transitions[[1]Token]
	Bigram  *Transitions[[2]Token]
	Trigram *Transitions[[3]Token]
}

// BuildTransitions performs the single-pass counting algorithm of spec.md
// §4.2 over ds, building the unigram table and, if requested, bigram and
// trigram tables.
func BuildTransitions(ds *Dataset, buildBigram, buildTrigram bool) *TransitionsSet {
	ts := &TransitionsSet{Unigram: newTransitions[[1]Token](1)}
	if buildBigram {
		ts.Bigram = newTransitions[[2]Token](2)
	}
	if buildTrigram {
		ts.Trigram = newTransitions[[3]Token](3)
	}
	for _, entry := range ds.Entries() {
		for _, s := range entry.Corpus.Sentences() {
			addSentence(ts.Unigram, s, entry.Weight)
			if ts.Bigram != nil {
				addSentence(ts.Bigram, s, entry.Weight)
			}
			if ts.Trigram != nil {
				addSentence(ts.Trigram, s, entry.Weight)
			}
		}
	}
	return ts
}

func addSentence[A ngramArray](t *Transitions[A], s Sentence, weight uint64) {
	lifted := liftTo[A]([]Token(s), t.order, true)
	for i := 0; i+1 < len(lifted); i++ {
		t.add(lifted[i], lifted[i+1], weight)
	}
}

// orderedLookups returns the built tables from highest order to lowest,
// honoring params' order disables, for the generator's back-off chain
// (spec.md §4.3 step 1).
func (ts *TransitionsSet) orderedLookups(params *GenParams) []ForwardLookup {
	var out []ForwardLookup
	if ts.Trigram != nil && !params.DisableTrigram {
		out = append(out, ts.Trigram)
	}
	if ts.Bigram != nil && !params.DisableBigram {
		out = append(out, ts.Bigram)
	}
	out = append(out, ts.Unigram)
	return out
}

// flatTransitions is the on-disk shape of a Transitions[A] table: one
// (context, next, count) triple per entry, contexts and successors both
// serialized as plain token slices (spec.md §6: "N-grams serialize as
// fixed-length token arrays").
type flatTransitions struct {
	Order    int
	Contexts [][]Token
	Nexts    [][]Token
	Counts   []uint64
}

// GobEncode implements gob.GobEncoder.
func (t *Transitions[A]) GobEncode() ([]byte, error) {
	flat := flatTransitions{Order: t.order}
	for cur, m := range t.forward {
		for next, c := range m {
			flat.Contexts = append(flat.Contexts, cur.Slice())
			flat.Nexts = append(flat.Nexts, next.Slice())
			flat.Counts = append(flat.Counts, c)
		}
	}
	return gobEncode(&flat)
}

// GobDecode implements gob.GobDecoder.
func (t *Transitions[A]) GobDecode(data []byte) error {
	var flat flatTransitions
	if err := gobDecode(data, &flat); err != nil {
		return fmt.Errorf("decode transitions: %w", err)
	}
	var zero A
	t.order = flat.Order
	t.forward = make(map[NGram[A]]map[NGram[A]]uint64)
	for i, count := range flat.Counts {
		if len(flat.Contexts[i]) != len(zero) || len(flat.Nexts[i]) != len(zero) {
			return fmt.Errorf("%w: order %d, got context length %d", ErrNgramOrderMismatch, len(zero), len(flat.Contexts[i]))
		}
		var curArr, nextArr A
		copy(curArr[:], flat.Contexts[i])
		copy(nextArr[:], flat.Nexts[i])
		cur := NGram[A]{tokens: curArr}
		next := NGram[A]{tokens: nextArr}
		m, ok := t.forward[cur]
		if !ok {
			m = make(map[NGram[A]]uint64)
			t.forward[cur] = m
		}
		m[next] = count
	}
	return nil
}
