package ngramlm

import (
	"errors"
	"testing"
)

func TestBuildStampsHeaders(t *testing.T) {
	ds, _ := buildS1Dataset()

	m := Build(ds, true, false)
	if m.Headers["version"] != version {
		t.Errorf("version header = %q, want %q", m.Headers["version"], version)
	}
	if m.Headers["ngram_size"] != "2" {
		t.Errorf("ngram_size header = %q, want %q", m.Headers["ngram_size"], "2")
	}
	if m.Headers["build_id"] == "" {
		t.Error("build_id header is empty")
	}

	uni := Build(ds, false, false)
	if uni.Headers["ngram_size"] != "1" {
		t.Errorf("unigram-only ngram_size header = %q, want %q", uni.Headers["ngram_size"], "1")
	}
	tri := Build(ds, true, true)
	if tri.Headers["ngram_size"] != "3" {
		t.Errorf("trigram ngram_size header = %q, want %q", tri.Headers["ngram_size"], "3")
	}
}

func TestBuildStampsDistinctBuildIDs(t *testing.T) {
	ds, _ := buildS1Dataset()
	a := Build(ds, false, false)
	b := Build(ds, false, false)
	if a.Headers["build_id"] == b.Headers["build_id"] {
		t.Error("two builds from the same dataset shared a build_id")
	}
}

func TestWithHeaderChains(t *testing.T) {
	m := &Model{Headers: map[string]string{}}
	got := m.WithHeader("name", "demo").WithHeader("owner", "student")
	if got != m {
		t.Fatal("WithHeader should return the receiver for chaining")
	}
	if m.Headers["name"] != "demo" || m.Headers["owner"] != "student" {
		t.Fatalf("Headers = %v, want name=demo,owner=student", m.Headers)
	}
}

func TestWordFrequency(t *testing.T) {
	ds, _ := buildS1Dataset()
	m := Build(ds, false, false)

	freq, ok := m.WordFrequency("hello,")
	if !ok || freq != 1 {
		t.Fatalf("WordFrequency(hello,) = (%d,%v), want (1,true)", freq, ok)
	}
	if _, ok := m.WordFrequency("missing"); ok {
		t.Error("WordFrequency for an unknown word should report ok=false")
	}
}

func TestCheckWord(t *testing.T) {
	ds, tk := buildS1Dataset()
	m := Build(ds, false, false)

	result, ok := m.CheckWord("hello,", 5)
	if !ok {
		t.Fatal("CheckWord(hello,) not ok")
	}
	if result.Token != tk["hello,"] {
		t.Errorf("Token = %v, want %v", result.Token, tk["hello,"])
	}
	if result.Frequency != 2 {
		t.Errorf("Frequency = %d, want 2 (one as successor of <s>, one as predecessor of world!)", result.Frequency)
	}
	if len(result.TopSuccessors) != 1 || result.TopSuccessors[0].Word != "world!" || result.TopSuccessors[0].Count != 1 {
		t.Errorf("TopSuccessors = %+v, want [{world!,1}]", result.TopSuccessors)
	}
	if len(result.TopPredecessors) != 0 {
		t.Errorf("TopPredecessors = %+v, want none (<s> is not a vocabulary word)", result.TopPredecessors)
	}

	if _, ok := m.CheckWord("nowhere", 5); ok {
		t.Error("CheckWord for an unknown word should report ok=false")
	}
}

func TestDetokenize(t *testing.T) {
	ds, tk := buildS1Dataset()
	m := Build(ds, false, false)

	words, err := m.Detokenize([]Token{tk["hello,"], tk["world!"]})
	if err != nil {
		t.Fatalf("Detokenize: %v", err)
	}
	if len(words) != 2 || words[0] != "hello," || words[1] != "world!" {
		t.Fatalf("Detokenize = %v, want [hello, world!]", words)
	}

	if _, err := m.Detokenize([]Token{Token(999999)}); !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("Detokenize on an unknown token = %v, want ErrUnknownToken", err)
	}
}

func TestCheckWordTopNTruncates(t *testing.T) {
	v := NewVocabulary()
	hub := v.Assign("hub")
	leaves := []Token{v.Assign("a"), v.Assign("b"), v.Assign("c")}

	corpus := NewTokenizedCorpus()
	for _, leaf := range leaves {
		corpus.Add(Sentence{hub, leaf})
	}
	ds := NewDataset(v)
	if err := ds.AddCorpus(corpus, 1); err != nil {
		t.Fatal(err)
	}
	m := Build(ds, false, false)

	result, ok := m.CheckWord("hub", 2)
	if !ok {
		t.Fatal("CheckWord(hub) not ok")
	}
	if len(result.TopSuccessors) != 2 {
		t.Fatalf("TopSuccessors has %d entries, want 2 (topN truncation)", len(result.TopSuccessors))
	}
}
