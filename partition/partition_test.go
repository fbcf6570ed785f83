package partition

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit_Deterministic(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	train1, test1, err := Split(items, 0.2, 42)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	train2, test2, err := Split(items, 0.2, 42)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if diff := cmp.Diff(train1, train2); diff != "" {
		t.Errorf("train differs between runs:\n%s", diff)
	}
	if diff := cmp.Diff(test1, test2); diff != "" {
		t.Errorf("test differs between runs:\n%s", diff)
	}
}

func TestSplit_DisjointAndExhaustive(t *testing.T) {
	items := make([]int, 57)
	for i := range items {
		items[i] = i
	}

	train, test, err := Split(items, 0.2, 42)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(train)+len(test) != len(items) {
		t.Fatalf("len(train)+len(test) = %d, want %d", len(train)+len(test), len(items))
	}
	if len(test) != 12 {
		t.Errorf("len(test) = %d, want 12", len(test))
	}

	seen := make(map[int]int)
	for _, v := range train {
		seen[v]++
	}
	for _, v := range test {
		seen[v]++
	}
	for _, v := range items {
		if seen[v] != 1 {
			t.Errorf("item %d appears %d times", v, seen[v])
		}
	}
}

func TestSplit_SeedChangesPartition(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	_, a, _ := Split(items, 0.5, 1)
	_, b, _ := Split(items, 0.5, 2)
	if cmp.Equal(a, b) {
		t.Error("different seeds produced the same test set")
	}
}

func TestSplit_InvalidRatio(t *testing.T) {
	for _, ratio := range []float64{0, 1, -0.1, 1.5, math.NaN()} {
		_, _, err := Split([]int{1, 2, 3}, ratio, 42)
		if !errors.Is(err, ErrInvalidRatio) {
			t.Errorf("Split(ratio=%v): expected ErrInvalidRatio, got %v", ratio, err)
		}
	}
}

func TestSplit_Empty(t *testing.T) {
	train, test, err := Split([]string{}, 0.2, 42)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(train) != 0 || len(test) != 0 {
		t.Errorf("got %d/%d items, want 0/0", len(train), len(test))
	}
}

func TestTestSize(t *testing.T) {
	tests := []struct {
		n     int
		ratio float64
		want  int
	}{
		{10, 0.2, 2},
		{11, 0.2, 3},
		{1, 0.2, 1},
		{0, 0.5, 0},
		{3, 0.99, 3},
	}

	for _, tt := range tests {
		if got := TestSize(tt.n, tt.ratio); got != tt.want {
			t.Errorf("TestSize(%d, %v) = %d, want %d", tt.n, tt.ratio, got, tt.want)
		}
	}
}
