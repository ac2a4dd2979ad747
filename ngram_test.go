package ngramlm

import (
	"reflect"
	"testing"
)

func tok(vs ...uint64) []Token {
	out := make([]Token, len(vs))
	for i, v := range vs {
		out[i] = Token(v)
	}
	return out
}

func TestConstructEmptySentenceEdgeCases(t *testing.T) {
	uni := ConstructUni(nil)
	if got, want := len(uni), 2; got != want {
		t.Fatalf("len(ConstructUni(nil)) = %d, want %d", got, want)
	}
	if !uni[0].IsStart() || !uni[1].IsEnd() {
		t.Fatalf("ConstructUni(nil) = %v, want [START, END]", uni)
	}

	bi := ConstructBi(tok(1))
	want := [][2]Token{
		{TokenStart, TokenStart},
		{TokenStart, 1},
		{1, TokenEnd},
		{TokenEnd, TokenEnd},
	}
	if len(bi) != len(want) {
		t.Fatalf("len(ConstructBi([1])) = %d, want %d", len(bi), len(want))
	}
	for i, w := range want {
		if bi[i].tokens != w {
			t.Errorf("ConstructBi([1])[%d] = %v, want %v", i, bi[i].tokens, w)
		}
	}

	tri := ConstructTri(tok(1, 2))
	wantTri := [][3]Token{
		{TokenStart, TokenStart, TokenStart},
		{TokenStart, TokenStart, 1},
		{TokenStart, 1, 2},
		{1, 2, TokenEnd},
		{2, TokenEnd, TokenEnd},
		{TokenEnd, TokenEnd, TokenEnd},
	}
	if len(tri) != len(wantTri) {
		t.Fatalf("len(ConstructTri([1,2])) = %d, want %d", len(tri), len(wantTri))
	}
	for i, w := range wantTri {
		if tri[i].tokens != w {
			t.Errorf("ConstructTri([1,2])[%d] = %v, want %v", i, tri[i].tokens, w)
		}
	}
}

// TestNgramRoundTrip is spec.md §8 invariant 1.
func TestNgramRoundTrip(t *testing.T) {
	sentences := [][]Token{
		nil,
		tok(1),
		tok(1, 2),
		tok(1, 2, 3, 4, 5),
	}
	for _, s := range sentences {
		for _, n := range []int{1, 2, 3} {
			var got []Token
			switch n {
			case 1:
				got = Deconstruct(ConstructUni(s))
			case 2:
				got = Deconstruct(ConstructBi(s))
			case 3:
				got = Deconstruct(ConstructTri(s))
			}
			if !reflect.DeepEqual(got, s) {
				t.Errorf("order %d: Deconstruct(Construct(%v)) = %v, want %v", n, s, got, s)
			}
		}
	}
}

func TestNgramTaillessRoundTripIsPrefix(t *testing.T) {
	s := tok(1, 2, 3)
	for _, n := range []int{1, 2, 3} {
		var got []Token
		switch n {
		case 1:
			got = Deconstruct(ConstructTaillessUni(s))
		case 2:
			got = Deconstruct(ConstructTaillessBi(s))
		case 3:
			got = Deconstruct(ConstructTaillessTri(s))
		}
		if len(got) > len(s) {
			t.Fatalf("order %d: tailless result %v longer than source %v", n, got, s)
		}
		for i, want := range got {
			if s[i] != want {
				t.Fatalf("order %d: tailless result %v not a prefix of %v", n, got, s)
			}
		}
	}
}

func TestNGramHelpers(t *testing.T) {
	g := Of([3]Token{TokenStart, 7, TokenEnd})
	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	if !g.ContainsStart() || !g.ContainsEnd() {
		t.Fatalf("ContainsStart/ContainsEnd wrong for %v", g)
	}
	if g.IsStart() || g.IsEnd() {
		t.Fatalf("IsStart/IsEnd should both be false for a mixed n-gram")
	}
	if g.EmittedToken() != TokenEnd {
		t.Fatalf("EmittedToken() = %v, want TokenEnd", g.EmittedToken())
	}
	if !reflect.DeepEqual(g.Head(), tok(0, 7)) {
		t.Errorf("Head() = %v, want [START,7]", g.Head())
	}
	if !reflect.DeepEqual(g.Tail(), []Token{7, TokenEnd}) {
		t.Errorf("Tail() = %v, want [7,END]", g.Tail())
	}
}

func TestNGramOrdersAreDistinctTypes(t *testing.T) {
	var u Uni = Of([1]Token{1})
	var b Bi = Of([2]Token{1, 2})
	if u.Len() == b.Len() {
		t.Fatalf("expected distinct orders, both report Len() = %d", u.Len())
	}
}
