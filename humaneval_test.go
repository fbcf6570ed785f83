package codesplit

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const humanEvalFile = `-- Task: increment a number
-- Haskell Implementation:
addOne :: Int -> Int

addOne x = ⭐️ g x ⭐️ + 1
`

func TestHumanEvalPairs(t *testing.T) {
	pairs, err := HumanEvalPairs(humanEvalFile, rand.New(rand.NewPCG(42, 42)), 5)
	if err != nil {
		t.Fatalf("HumanEvalPairs() failed: %v", err)
	}

	want := []Pair{
		{Input: "<s>addOne :: Int -> Int <EOL> addOne x =", GT: "g x + 1"},
		{Input: "<s>addOne :: Int -> Int <EOL> addOne x = g x", GT: "+ 1"},
	}
	sortPairs := cmpopts.SortSlices(func(a, b Pair) bool { return a.Input < b.Input })
	if diff := cmp.Diff(want, pairs, sortPairs); diff != "" {
		t.Errorf("HumanEvalPairs() mismatch (-want +got):\n%s", diff)
	}
}

func TestHumanEvalPairs_MaxSplits(t *testing.T) {
	pairs, err := HumanEvalPairs(humanEvalFile, rand.New(rand.NewPCG(1, 1)), 1)
	if err != nil {
		t.Fatalf("HumanEvalPairs() failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Errorf("got %d pairs, want 1", len(pairs))
	}

	pairs, err = HumanEvalPairs(humanEvalFile, rand.New(rand.NewPCG(1, 1)), 0)
	if err != nil {
		t.Fatalf("HumanEvalPairs() failed: %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("got %d pairs, want 0", len(pairs))
	}
}

func TestHumanEvalPairs_GroundTruthStopsAtLine(t *testing.T) {
	content := "-- Haskell Implementation:\nf x = ⭐️ x\ng = 1\n"
	pairs, err := HumanEvalPairs(content, rand.New(rand.NewPCG(1, 1)), 5)
	if err != nil {
		t.Fatalf("HumanEvalPairs() failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if pairs[0].GT != "x " {
		t.Errorf("GT = %q, want %q", pairs[0].GT, "x ")
	}
}

func TestHumanEvalPairs_MissingHeader(t *testing.T) {
	_, err := HumanEvalPairs("f = ⭐️ 1", rand.New(rand.NewPCG(1, 1)), 5)
	if !errors.Is(err, ErrMissingImplementation) {
		t.Errorf("expected ErrMissingImplementation, got %v", err)
	}
}
