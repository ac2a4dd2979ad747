package ngramlm

import (
	"math"
	"math/rand/v2"
	"slices"
	"sort"
)

// Smoothing selects how a Generator re-weights a context's successors
// before sampling (spec.md §4.2/§4.3).
type Smoothing int

const (
	// NoSmoothing uses raw weighted counts, already proportional to
	// P(·|context) up to a constant.
	NoSmoothing Smoothing = iota
	// SmoothingAbsoluteDiscounting uses Transitions.AbsoluteDiscounting.
	SmoothingAbsoluteDiscounting
	// SmoothingKneserNey is declared but unimplemented (spec.md §9); a
	// generator step that reaches it fails with ErrUnimplemented.
	SmoothingKneserNey
)

// GenParams are the tunable generation parameters of spec.md §4.3.
type GenParams struct {
	// KNormal ∈ (0,1] keeps the central mass of a context's successor
	// distribution, discarding both tails symmetrically. 1.0 keeps
	// everything; 0.0 trims n/2 (integer division) candidates from each end,
	// so an even-sized list is discarded entirely (immediate STOP) and an
	// odd-sized one keeps only its middle candidate.
	KNormal float64
	// Temperature and TemperatureAlpha shape the acceptance probability of
	// the top-scoring candidate at chain position i as Temperature *
	// TemperatureAlpha^i.
	Temperature      float64
	TemperatureAlpha float64
	// RepeatPenalty shapes the acceptance probability of a candidate that
	// repeats a recent token as RepeatPenalty^repeats.
	RepeatPenalty float64
	// RepeatPenaltyWindow bounds how far back repeats are counted; 0 means
	// the entire chain.
	RepeatPenaltyWindow int
	// MaxLen is a hard stop: once len(chain) exceeds it, generation stops
	// unconditionally.
	MaxLen int
	// MinLen, when > 0, suppresses the END-token and EndWeight stop checks
	// while len(chain) <= MinLen. MaxLen, ForceBreakLen, and the stops for an
	// empty or fully trimmed candidate list still apply.
	MinLen int
	// Smoothing selects the successor re-weighting applied after tail
	// trimming (spec.md §4.3 step 3).
	Smoothing Smoothing
	// DisableBigram/DisableTrigram exclude an otherwise-built table from
	// the back-off chain.
	DisableBigram  bool
	DisableTrigram bool
	// EndWeight, when > 0, is a flat end-of-chain probability consulted
	// every step in addition to the ordinary stop conditions — the
	// "implicit end" some revisions of this design exposed even though
	// END successors are filtered out of the ordinary candidate list
	// (spec.md §9, open question). EndHeight, when > 0, raises EndWeight
	// to that power, decaying the end probability similarly to how
	// TemperatureAlpha decays acceptance.
	EndWeight  float64
	EndHeight  int
	// ForceBreakLen, when > 0, is an unconditional stop like MaxLen, for
	// callers that want a softer, separately-configurable ceiling (e.g. a
	// CLI --force-break flag distinct from --max-len).
	ForceBreakLen int
	// ContextWindow, when > 0, caps how much of the chain counts toward
	// repeat-penalty lookback (when RepeatPenaltyWindow is unset) and
	// toward the temperature-decay exponent, so very long generations
	// don't decay acceptance to zero.
	ContextWindow int
	// Rand is the uniform source driving rejection sampling. Reusing the
	// same Rand with the same seed and the same parameters reproduces the
	// same output (spec.md §4.3, Determinism).
	Rand *rand.Rand
}

// DefaultGenParams returns permissive generation parameters: no tail
// trimming, no temperature decay, no repeat penalty, a generous length cap.
func DefaultGenParams(seed uint64) *GenParams {
	return &GenParams{
		KNormal:          1.0,
		Temperature:      1.0,
		TemperatureAlpha: 1.0,
		RepeatPenalty:    1.0,
		MaxLen:           200,
		Rand:             rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// GenState is the Generator's two-state machine: Running, then Stopped
// (absorbing) once any stop condition fires (spec.md §4.3).
type GenState int

const (
	Running GenState = iota
	Stopped
)

// Step is the result of one Generator.Next call. Stop is true once the
// stream has ended, successfully or with Err set (spec.md §7:
// GenerationStop is not an error; a failure is a distinct terminal item).
type Step struct {
	Token Token
	Stop  bool
	Err   error
}

// Generator is a single-shot pull iterator over successor tokens, seeded
// from a prompt (spec.md §4.3). Call Next repeatedly until Step.Stop.
type Generator struct {
	model  *Model
	params *GenParams
	chain  []Token
	state  GenState
	// lookupUsed is the table backOffLookup drew the current step's
	// candidates from; step reads it to compute smoothed weights against
	// the right order's Transitions.
	lookupUsed ForwardLookup
}

// Generate seeds a Generator from prompt. The prompt is not re-validated
// against the vocabulary here; callers tokenize it first (spec.md §6).
func (m *Model) Generate(prompt []Token, params *GenParams) *Generator {
	chain := make([]Token, len(prompt))
	copy(chain, prompt)
	return &Generator{model: m, params: params, chain: chain, state: Running}
}

// Chain returns the tokens emitted so far, including the seed prompt.
func (g *Generator) Chain() []Token {
	out := make([]Token, len(g.chain))
	copy(out, g.chain)
	return out
}

// Next advances the generator by one token.
func (g *Generator) Next() Step {
	if g.state == Stopped {
		return Step{Stop: true}
	}
	tok, stop, err := g.step()
	if err != nil {
		g.state = Stopped
		return Step{Stop: true, Err: err}
	}
	if stop {
		g.state = Stopped
		return Step{Stop: true}
	}
	g.chain = append(g.chain, tok)
	return Step{Token: tok}
}

// candidate is a successor scored for sorting/sampling: Tokens is the full
// successor n-gram (so its emitted token, the last slot, can be read back
// out), Score is either the raw count or, under smoothing, the smoothed
// probability.
type candidate struct {
	tokens []Token
	score  float64
}

func (c candidate) emitted() Token { return c.tokens[len(c.tokens)-1] }

// step implements the per-step algorithm of spec.md §4.3.
func (g *Generator) step() (Token, bool, error) {
	// 1. Candidate lookup with back-off.
	raw, context, found := g.backOffLookup()
	if !found {
		return 0, true, nil
	}

	// 2. Tail trimming (k_normal).
	sort.Slice(raw, func(i, j int) bool {
		if raw[i].count != raw[j].count {
			return raw[i].count < raw[j].count
		}
		return slices.Compare(raw[i].tokens, raw[j].tokens) < 0
	})
	n := len(raw)
	offset := int(math.Floor((1-g.params.KNormal)*float64(n))) / 2
	if n <= 2*offset {
		return 0, true, nil
	}
	raw = raw[offset : n-offset]
	if len(raw) == 0 {
		return 0, true, nil
	}

	// 3. Optional smoothing.
	candidates := make([]candidate, len(raw))
	for i, rs := range raw {
		score := float64(rs.count)
		if g.params.Smoothing != NoSmoothing {
			w, err := g.lookupUsed.smoothedWeight(context, rs.tokens, g.params.Smoothing)
			if err != nil {
				return 0, false, err
			}
			score = w
		}
		candidates[i] = candidate{tokens: rs.tokens, score: score}
	}

	// 4. Rejection sampling down the sorted list.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score < candidates[j].score })
	remaining := candidates
	for len(remaining) > 1 {
		top := remaining[len(remaining)-1]
		u := g.params.Rand.Float64()
		repeats := g.countRepeats(top.emitted())
		accept := false
		if repeats > 0 {
			accept = u < math.Pow(g.params.RepeatPenalty, float64(repeats))
		} else {
			effLen := len(g.chain)
			if g.params.ContextWindow > 0 && effLen > g.params.ContextWindow {
				effLen = g.params.ContextWindow
			}
			temperature := g.params.Temperature * math.Pow(g.params.TemperatureAlpha, float64(effLen))
			accept = u < temperature
		}
		if accept {
			break
		}
		remaining = remaining[:len(remaining)-1]
	}
	chosen := remaining[len(remaining)-1]
	t := chosen.emitted()

	// 5. Stop checks.
	minGate := g.params.MinLen > 0 && len(g.chain) <= g.params.MinLen
	if g.params.ForceBreakLen > 0 && len(g.chain) >= g.params.ForceBreakLen {
		return 0, true, nil
	}
	if len(g.chain) > g.params.MaxLen {
		return 0, true, nil
	}
	if !minGate {
		if t == TokenEnd {
			return 0, true, nil
		}
		if g.params.EndWeight > 0 {
			p := g.params.EndWeight
			if g.params.EndHeight > 0 {
				p = math.Pow(g.params.EndWeight, float64(g.params.EndHeight))
			}
			if g.params.Rand.Float64() < p {
				return 0, true, nil
			}
		}
	}

	// 6. Emit t.
	return t, false, nil
}

func (g *Generator) countRepeats(token Token) int {
	window := g.params.RepeatPenaltyWindow
	if window == 0 {
		window = g.params.ContextWindow
	}
	chain := g.chain
	if window > 0 && len(chain) > window {
		chain = chain[len(chain)-window:]
	}
	count := 0
	for _, t := range chain {
		if t == token {
			count++
		}
	}
	return count
}

// backOffLookup implements spec.md §4.3 step 1: try the highest built
// order first, falling back to lower orders whenever the higher order's
// non-END successor list is empty.
func (g *Generator) backOffLookup() ([]rawSuccessor, []Token, bool) {
	for _, lk := range g.model.Transitions.orderedLookups(g.params) {
		context := taillessContext(g.chain, lk.Order())
		succs, ok := lk.successorsOf(context)
		if !ok {
			continue
		}
		filtered := filterEndSuccessors(succs)
		if len(filtered) > 0 {
			g.lookupUsed = lk
			return filtered, context, true
		}
	}
	return nil, nil, false
}

func filterEndSuccessors(succs []rawSuccessor) []rawSuccessor {
	out := make([]rawSuccessor, 0, len(succs))
	for _, s := range succs {
		if s.tokens[len(s.tokens)-1] == TokenEnd {
			continue
		}
		out = append(out, s)
	}
	return out
}

// taillessContext lifts chain tailless at order n and returns the last
// produced n-gram's tokens as the conditioning context (spec.md §4.3 step
// 1a, §4.1 "tailless" lifting).
func taillessContext(chain []Token, n int) []Token {
	windows := construct(chain, n, false)
	return windows[len(windows)-1]
}
