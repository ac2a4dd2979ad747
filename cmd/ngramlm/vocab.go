package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	ngramlm "github.com/krypt0nn/markov-chains"
)

// runVocabCreate builds a fresh, empty vocabulary bundle. Words are added to
// it later by "messages parse" (which assigns new words as it goes) or by
// merging another vocabulary into it.
func runVocabCreate(args []string) error {
	fs := flag.NewFlagSet("vocab create", flag.ExitOnError)
	output := fs.String("output", "", "path to the vocabulary output")
	random := fs.Bool("random-ids", false, "assign new words random 64-bit token ids instead of dense sequential ones")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var v *ngramlm.Vocabulary
	if *random {
		v = ngramlm.NewVocabularyRandom(1, 2)
	} else {
		v = ngramlm.NewVocabulary()
	}

	log.Info().Str("output", *output).Msg("storing vocabulary bundle")
	return writeBundle(*output, v)
}

// runVocabMerge unions one or more vocabulary bundles into a single output.
// The first bundle's token assignments are kept as they are; words found only
// in later bundles get fresh ids under the first bundle's assignment policy.
func runVocabMerge(args []string) error {
	fs := flag.NewFlagSet("vocab merge", flag.ExitOnError)
	var paths stringList
	fs.Var(&paths, "path", "path to a vocabulary bundle (repeatable)")
	output := fs.String("output", "", "path to the merged vocabulary output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var merged *ngramlm.Vocabulary
	for _, p := range paths {
		log.Info().Str("path", p).Msg("reading vocabulary bundle")
		var v ngramlm.Vocabulary
		if err := readBundle(p, &v); err != nil {
			return err
		}
		if merged == nil {
			merged = &v
			continue
		}
		merged.Merge(&v)
	}
	if merged == nil {
		merged = ngramlm.NewVocabulary()
	}

	log.Info().Str("output", *output).Int("words", merged.Len()).Msg("storing merged vocabulary bundle")
	return writeBundle(*output, merged)
}
