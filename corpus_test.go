package ngramlm

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenizedCorpusDedup(t *testing.T) {
	c := NewTokenizedCorpus()
	c.Add(Sentence{1, 2})
	c.Add(Sentence{1, 2})
	c.Add(Sentence{3})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestTokenizedCorpusMerge(t *testing.T) {
	a := NewTokenizedCorpus()
	a.Add(Sentence{1})
	b := NewTokenizedCorpus()
	b.Add(Sentence{1})
	b.Add(Sentence{2})
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("Len() after merge = %d, want 2", a.Len())
	}
}

func TestTokenizedCorpusGobRoundTrip(t *testing.T) {
	c := NewTokenizedCorpus()
	c.Add(Sentence{1, 2, 3})
	c.Add(Sentence{4})

	data, err := c.GobEncode()
	if err != nil {
		t.Fatalf("GobEncode: %v", err)
	}
	var got TokenizedCorpus
	if err := got.GobDecode(data); err != nil {
		t.Fatalf("GobDecode: %v", err)
	}
	if got.Len() != c.Len() {
		t.Fatalf("Len() after round trip = %d, want %d", got.Len(), c.Len())
	}
}

// TestDatasetScenarioS1 reproduces spec.md §8 scenario S1.
func TestDatasetScenarioS1(t *testing.T) {
	v := NewVocabulary()
	lines := [][]string{
		{"hello,", "world!"},
		{"example", "text"},
	}
	corpus := NewTokenizedCorpus()
	for _, words := range lines {
		s := make(Sentence, 0, len(words))
		for _, w := range words {
			s = append(s, v.Assign(NormalizeWord(w)))
		}
		corpus.Add(s)
	}

	wantWords := []string{"hello,", "world!", "example", "text"}
	if v.Len() != len(wantWords) {
		t.Fatalf("vocabulary has %d words, want %d", v.Len(), len(wantWords))
	}
	for _, w := range wantWords {
		if _, ok := v.TokenOf(w); !ok {
			t.Errorf("vocabulary missing word %q", w)
		}
	}
	if corpus.Len() != 2 {
		t.Fatalf("corpus has %d sentences, want 2", corpus.Len())
	}
}

func TestDatasetTokenizeUnknownWord(t *testing.T) {
	v := NewVocabulary()
	v.Assign("known")
	ds := NewDataset(v)
	_, err := ds.Tokenize([]string{"known", "unknown"})
	if !errors.Is(err, ErrUnknownWord) {
		t.Fatalf("Tokenize error = %v, want ErrUnknownWord", err)
	}
}

func TestDatasetTokenizeSkipsEmptyNormalizedWords(t *testing.T) {
	v := NewVocabulary()
	v.Assign("hello")
	ds := NewDataset(v)
	got, err := ds.Tokenize([]string{"  ", "hello"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want, _ := v.TokenOf("hello")
	if !reflect.DeepEqual(got, Sentence{want}) {
		t.Fatalf("Tokenize result = %v, want [%v]", got, want)
	}
}

func TestDatasetAddCorpusRejectsZeroWeight(t *testing.T) {
	ds := NewDataset(NewVocabulary())
	if err := ds.AddCorpus(NewTokenizedCorpus(), 0); err == nil {
		t.Fatal("AddCorpus with weight 0 should fail")
	}
}

func TestDatasetGobRoundTrip(t *testing.T) {
	v := NewVocabulary()
	v.Assign("a")
	corpus := NewTokenizedCorpus()
	corpus.Add(Sentence{1})
	ds := NewDataset(v)
	if err := ds.AddCorpus(corpus, 3); err != nil {
		t.Fatalf("AddCorpus: %v", err)
	}

	data, err := ds.GobEncode()
	if err != nil {
		t.Fatalf("GobEncode: %v", err)
	}
	var got Dataset
	if err := got.GobDecode(data); err != nil {
		t.Fatalf("GobDecode: %v", err)
	}
	if len(got.Entries()) != 1 || got.Entries()[0].Weight != 3 {
		t.Fatalf("Entries() after round trip = %+v, want one entry with weight 3", got.Entries())
	}
}
