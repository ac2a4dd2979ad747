// Command ngramlm builds and samples from corpus-driven n-gram language
// models: tokenize raw message files into a shared vocabulary, fold them
// into weighted datasets, build unigram/bigram/trigram transition tables,
// and generate new sequences from a seeded, back-off generator.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// subcommand is one leaf of the vocab/messages/dataset/model command tree.
type subcommand struct {
	name string
	run  func(args []string) error
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	groups := map[string][]subcommand{
		"vocab": {
			{"create", runVocabCreate},
			{"merge", runVocabMerge},
		},
		"messages": {
			{"parse", runMessagesParse},
			{"merge", runMessagesMerge},
		},
		"dataset": {
			{"create", runDatasetCreate},
			{"add-corpus", runDatasetAddCorpus},
			{"check-word", runDatasetCheckWord},
		},
		"model": {
			{"build", runModelBuild},
			{"load", runModelLoad},
			{"check-word", runModelCheckWord},
		},
	}

	group, ok := groups[os.Args[1]]
	if !ok {
		usage()
		os.Exit(2)
	}
	if len(os.Args) < 3 {
		usageGroup(os.Args[1], group)
		os.Exit(2)
	}
	for _, sub := range group {
		if sub.name != os.Args[2] {
			continue
		}
		if err := sub.run(os.Args[3:]); err != nil {
			log.Fatal().Err(err).Str("command", os.Args[1]+" "+os.Args[2]).Msg("command failed")
		}
		return
	}
	usageGroup(os.Args[1], group)
	os.Exit(2)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ngramlm <vocab|messages|dataset|model> <subcommand> [flags]")
}

func usageGroup(name string, subs []subcommand) {
	fmt.Fprintf(os.Stderr, "usage: ngramlm %s <subcommand> [flags], where <subcommand> is one of:\n", name)
	for _, s := range subs {
		fmt.Fprintf(os.Stderr, "  %s\n", s.name)
	}
}
