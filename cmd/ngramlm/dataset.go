package main

import (
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	ngramlm "github.com/krypt0nn/markov-chains"
)

// runDatasetCreate builds a fresh dataset bundle from a vocabulary and one
// weighted tokenized corpus.
func runDatasetCreate(args []string) error {
	fs := flag.NewFlagSet("dataset create", flag.ExitOnError)
	vocabPath := fs.String("vocab", "", "path to the vocabulary bundle")
	corpusPath := fs.String("corpus", "", "path to a tokenized corpus bundle")
	weight := fs.Uint64("weight", 1, "weight to give this corpus in the dataset")
	output := fs.String("output", "", "path to the dataset output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var vocab ngramlm.Vocabulary
	if err := readBundle(*vocabPath, &vocab); err != nil {
		return err
	}
	var corpus ngramlm.TokenizedCorpus
	if err := readBundle(*corpusPath, &corpus); err != nil {
		return err
	}

	ds := ngramlm.NewDataset(&vocab)
	if err := ds.AddCorpus(&corpus, *weight); err != nil {
		return fmt.Errorf("add corpus: %w", err)
	}

	log.Info().Str("output", *output).Msg("storing dataset bundle")
	return writeBundle(*output, ds)
}

// runDatasetAddCorpus extends an existing dataset bundle with one or more
// additional weighted tokenized corpora.
func runDatasetAddCorpus(args []string) error {
	fs := flag.NewFlagSet("dataset add-corpus", flag.ExitOnError)
	path := fs.String("path", "", "path to the dataset bundle to extend")
	var corpora stringList
	fs.Var(&corpora, "corpus", "path to a tokenized corpus bundle (repeatable)")
	weight := fs.Uint64("weight", 1, "weight to give these corpora")
	output := fs.String("output", "", "path to the updated dataset output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var ds ngramlm.Dataset
	if err := readBundle(*path, &ds); err != nil {
		return err
	}
	for _, p := range corpora {
		log.Info().Str("path", p).Msg("reading tokenized corpus bundle")
		var c ngramlm.TokenizedCorpus
		if err := readBundle(p, &c); err != nil {
			return err
		}
		if err := ds.AddCorpus(&c, *weight); err != nil {
			return fmt.Errorf("add corpus %s: %w", p, err)
		}
	}

	log.Info().Str("output", *output).Msg("storing updated dataset bundle")
	return writeBundle(*output, &ds)
}

// runDatasetCheckWord reports a word's frequency and its top predecessor
// and successor unigrams, built by folding the dataset into a throwaway
// unigram transitions table (SPEC_FULL.md §4).
func runDatasetCheckWord(args []string) error {
	fs := flag.NewFlagSet("dataset check-word", flag.ExitOnError)
	path := fs.String("path", "", "path to the dataset bundle")
	word := fs.String("word", "", "word to check")
	topN := fs.Int("top", 10, "number of top neighbors to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var ds ngramlm.Dataset
	if err := readBundle(*path, &ds); err != nil {
		return err
	}

	model := ngramlm.Build(&ds, false, false)
	return printCheckWord(model, *word, *topN)
}
