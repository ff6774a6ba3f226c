package fuzzy

import "testing"

func TestExactMatch(t *testing.T) {
	score, ok := Match("hello", "hello")
	if !ok || score != 1000 {
		t.Fatalf("score=%d ok=%v", score, ok)
	}
}

func TestPrefixMatch(t *testing.T) {
	score, ok := Match("hello world", "hello")
	if !ok || score < 900 {
		t.Fatalf("score=%d ok=%v", score, ok)
	}
}

func TestSubstringMatch(t *testing.T) {
	score, ok := Match("say hello there", "hello")
	if !ok || score < 500 || score >= 900 {
		t.Fatalf("score=%d ok=%v", score, ok)
	}
}

func TestSubsequenceMatch(t *testing.T) {
	score, ok := Match("hxexlxlxo", "hello")
	if !ok {
		t.Fatal("expected subsequence match")
	}
	if score <= 0 {
		t.Fatalf("expected positive subsequence score, got %d", score)
	}
}

func TestNoMatch(t *testing.T) {
	_, ok := Match("abc", "xyz")
	if ok {
		t.Fatal("expected no match")
	}
}

func TestEmptyQueryMatchesEverything(t *testing.T) {
	score, ok := Match("anything", "")
	if !ok || score != 0 {
		t.Fatalf("score=%d ok=%v", score, ok)
	}
}

func TestRankOrdersByScore(t *testing.T) {
	results := Rank([]string{"zzz", "hello", "help"}, "hel")
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}
	if results[0].Score < results[1].Score {
		t.Fatal("expected descending score order")
	}
}
