package ngramlm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadModelRoundTrip(t *testing.T) {
	ds, tk := buildS1Dataset()
	want := Build(ds, true, false).WithHeader("name", "demo")

	var buf bytes.Buffer
	if err := SaveModel(&buf, want); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	got, err := LoadModel(&buf)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}

	if got.Headers["name"] != "demo" || got.Headers["version"] != want.Headers["version"] {
		t.Fatalf("Headers after round trip = %v, want %v", got.Headers, want.Headers)
	}
	if got.Headers["ngram_size"] != "2" {
		t.Fatalf("ngram_size after round trip = %q, want %q", got.Headers["ngram_size"], "2")
	}

	hello, world := Of([1]Token{tk["hello,"]}), Of([1]Token{tk["world!"]})
	if got.Transitions.Unigram.Count(hello, world) != 1 {
		t.Fatalf("unigram count after round trip = %d, want 1", got.Transitions.Unigram.Count(hello, world))
	}
	if got.Transitions.Bigram == nil {
		t.Fatal("bigram table lost across round trip")
	}
	start := Of([2]Token{TokenStart, tk["hello,"]})
	helloWorld := Of([2]Token{tk["hello,"], tk["world!"]})
	if got.Transitions.Bigram.Count(start, helloWorld) != 1 {
		t.Fatalf("bigram count after round trip = %d, want 1", got.Transitions.Bigram.Count(start, helloWorld))
	}
	if got.Transitions.Trigram != nil {
		t.Fatal("trigram table present, want nil (model was built bigram-only)")
	}

	for _, w := range []string{"hello,", "world!", "example", "text"} {
		wantTok, _ := want.Vocabulary.TokenOf(w)
		gotTok, ok := got.Vocabulary.TokenOf(w)
		if !ok || gotTok != wantTok {
			t.Errorf("Vocabulary.TokenOf(%q) after round trip = (%v,%v), want (%v,true)", w, gotTok, ok, wantTok)
		}
	}

	for _, tok := range []Token{TokenStart, TokenEnd} {
		if _, ok := got.Vocabulary.WordOf(tok); ok {
			t.Errorf("sentinel token %v should never surface as a vocabulary word after round trip", tok)
		}
	}
}

func TestSaveLoadModelFileRoundTrip(t *testing.T) {
	ds, tk := buildS1Dataset()
	want := Build(ds, false, false)

	path := filepath.Join(t.TempDir(), "model.bundle")
	if err := SaveModelFile(path, want); err != nil {
		t.Fatalf("SaveModelFile: %v", err)
	}

	got, err := LoadModelFile(path)
	if err != nil {
		t.Fatalf("LoadModelFile: %v", err)
	}

	hello, world := Of([1]Token{tk["hello,"]}), Of([1]Token{tk["world!"]})
	if got.Transitions.Unigram.Count(hello, world) != 1 {
		t.Fatalf("unigram count after file round trip = %d, want 1", got.Transitions.Unigram.Count(hello, world))
	}
}

func TestLoadModelFileMissingPath(t *testing.T) {
	if _, err := LoadModelFile(filepath.Join(os.TempDir(), "does-not-exist-ngramlm-bundle")); err == nil {
		t.Fatal("LoadModelFile on a missing path should fail")
	}
}
