package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	ngramlm "github.com/krypt0nn/markov-chains"
)

// runModelBuild builds a model from a dataset bundle, optionally stamping
// extra -header key=value entries alongside the baseline version/build_id
// headers Model.Build always sets.
func runModelBuild(args []string) error {
	fs := flag.NewFlagSet("model build", flag.ExitOnError)
	datasetPath := fs.String("dataset", "", "path to the dataset bundle")
	output := fs.String("output", "", "path to the model output")
	bigram := fs.Bool("bigram", true, "build the bigram transitions table")
	trigram := fs.Bool("trigram", false, "build the trigram transitions table")
	headers := make(headerList)
	fs.Var(headers, "header", "extra header key=value to stamp on the model (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var ds ngramlm.Dataset
	if err := readBundle(*datasetPath, &ds); err != nil {
		return err
	}

	log.Info().Bool("bigram", *bigram).Bool("trigram", *trigram).Msg("building model")
	model := ngramlm.Build(&ds, *bigram, *trigram)
	for k, v := range headers {
		model.WithHeader(k, v)
	}

	log.Info().Str("output", *output).Str("build_id", model.Headers["build_id"]).Msg("storing model")
	return ngramlm.SaveModelFile(*output, model)
}

// runModelLoad is the interactive generation REPL of SPEC_FULL.md §4: read
// a prompt line, tokenize and echo it, stream generated words until STOP.
func runModelLoad(args []string) error {
	fs := flag.NewFlagSet("model load", flag.ExitOnError)
	modelPath := fs.String("model", "", "path to the model")
	configPath := fs.String("config", "", "path to a YAML generation-parameters file; values it sets override the command-line flags")
	seed := fs.Uint64("seed", 0, "RNG seed (0 draws a random one)")
	params, bindFlags := bindGenParamFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadGenParamsConfig(*configPath)
	if err != nil {
		return err
	}

	model, err := ngramlm.LoadModelFile(*modelPath)
	if err != nil {
		return err
	}

	bindFlags(params)
	if err := cfg.applyTo(params); err != nil {
		return err
	}
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = rand.Uint64()
	}
	params.Rand = rand.New(rand.NewPCG(rngSeed, rngSeed^0x9e3779b97f4a7c15))

	complexity := model.Transitions.Unigram.Complexity()
	prefix := fmt.Sprintf("complexity: %d > ", complexity)

	stdin := bufio.NewScanner(os.Stdin)
	fmt.Println()
	for {
		fmt.Print(prefix)
		if !stdin.Scan() {
			return stdin.Err()
		}
		words := strings.Fields(strings.ToLower(stdin.Text()))
		if len(words) == 0 {
			continue
		}
		tokens, ok := tokenizeKnownWords(model, words)
		if !ok || len(tokens) == 0 {
			fmt.Println("  (unknown word, try again)")
			continue
		}

		fmt.Print("\n  model: ")
		for _, w := range words {
			fmt.Print(w, " ")
		}

		gen := model.Generate(tokens, params)
		for {
			step := gen.Next()
			if step.Stop {
				if step.Err != nil {
					fmt.Printf("\n  failed to generate: %v", step.Err)
				}
				break
			}
			words, err := model.Detokenize([]ngramlm.Token{step.Token})
			if err != nil {
				fmt.Printf("\n  failed to detokenize: %v", err)
				break
			}
			fmt.Print(words[0], " ")
		}
		fmt.Print("\n\n")
	}
}

func tokenizeKnownWords(model *ngramlm.Model, words []string) ([]ngramlm.Token, bool) {
	tokens := make([]ngramlm.Token, 0, len(words))
	for _, w := range words {
		t, ok := model.Vocabulary.TokenOf(ngramlm.NormalizeWord(w))
		if !ok {
			return nil, false
		}
		tokens = append(tokens, t)
	}
	return tokens, true
}

// runModelCheckWord is model.go's counterpart to "dataset check-word",
// reading directly off a built model's unigram table instead of rebuilding
// one from scratch.
func runModelCheckWord(args []string) error {
	fs := flag.NewFlagSet("model check-word", flag.ExitOnError)
	modelPath := fs.String("model", "", "path to the model")
	word := fs.String("word", "", "word to check")
	topN := fs.Int("top", 10, "number of top neighbors to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	model, err := ngramlm.LoadModelFile(*modelPath)
	if err != nil {
		return err
	}
	return printCheckWord(model, *word, *topN)
}

func printCheckWord(model *ngramlm.Model, word string, topN int) error {
	result, ok := model.CheckWord(word, topN)
	if !ok {
		return fmt.Errorf("word not found in vocabulary: %q", word)
	}
	fmt.Printf("token: %s\n", result.Token)
	fmt.Printf("frequency: %d\n", result.Frequency)
	fmt.Println("top predecessors:")
	printNeighbors(result.TopPredecessors)
	fmt.Println("top successors:")
	printNeighbors(result.TopSuccessors)
	return nil
}

func printNeighbors(ns []ngramlm.WordNeighbors) {
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].Count > ns[j].Count })
	for _, n := range ns {
		fmt.Printf("  %-20s %d\n", n.Word, n.Count)
	}
}

// bindGenParamFlags registers CLI flags for every GenParams field on fs,
// returning a permissive default GenParams and a closure that, once fs has
// been parsed, copies every flag's value onto the params, whether the caller
// set the flag or left its default. Grounded on
// kho-fslm's cmd/score, which registers a single custom flag.Var; here
// there are simply more of them.
func bindGenParamFlags(fs *flag.FlagSet) (*ngramlm.GenParams, func(*ngramlm.GenParams)) {
	def := ngramlm.DefaultGenParams(0)

	kNormal := fs.Float64("k-normal", def.KNormal, "fraction of the successor distribution to keep after tail trimming")
	temperature := fs.Float64("temperature", def.Temperature, "base acceptance probability for the top-scoring candidate")
	temperatureAlpha := fs.Float64("temperature-alpha", def.TemperatureAlpha, "per-step temperature decay exponent base")
	repeatPenalty := fs.Float64("repeat-penalty", def.RepeatPenalty, "acceptance probability base for a repeated candidate")
	repeatPenaltyWindow := fs.Int("repeat-penalty-window", def.RepeatPenaltyWindow, "how far back to count repeats (0 = whole chain)")
	maxLen := fs.Int("max-len", def.MaxLen, "hard stop length")
	minLen := fs.Int("min-len", def.MinLen, "suppress the end-token and end-weight stops while the chain is at most this long")
	disableBigram := fs.Bool("disable-bigram", def.DisableBigram, "exclude the bigram table from back-off")
	disableTrigram := fs.Bool("disable-trigram", def.DisableTrigram, "exclude the trigram table from back-off")
	endWeight := fs.Float64("end-weight", def.EndWeight, "flat per-step end-of-chain probability")
	endHeight := fs.Int("end-height", def.EndHeight, "exponent applied to end-weight for decay")
	forceBreakLen := fs.Int("force-break-len", def.ForceBreakLen, "unconditional stop length, independent of max-len")
	contextWindow := fs.Int("context-window", def.ContextWindow, "cap on repeat-penalty lookback and temperature-decay exponent")
	smoothing := fs.String("smoothing", "none", "successor re-weighting: none, absolute_discounting, or kneser_ney")

	return def, func(p *ngramlm.GenParams) {
		p.KNormal = *kNormal
		p.Temperature = *temperature
		p.TemperatureAlpha = *temperatureAlpha
		p.RepeatPenalty = *repeatPenalty
		p.RepeatPenaltyWindow = *repeatPenaltyWindow
		p.MaxLen = *maxLen
		p.MinLen = *minLen
		p.DisableBigram = *disableBigram
		p.DisableTrigram = *disableTrigram
		p.EndWeight = *endWeight
		p.EndHeight = *endHeight
		p.ForceBreakLen = *forceBreakLen
		p.ContextWindow = *contextWindow
		switch *smoothing {
		case "absolute_discounting":
			p.Smoothing = ngramlm.SmoothingAbsoluteDiscounting
		case "kneser_ney":
			p.Smoothing = ngramlm.SmoothingKneserNey
		default:
			p.Smoothing = ngramlm.NoSmoothing
		}
	}
}
