// Package partition performs seeded train/test splits.
package partition

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrInvalidRatio indicates a test ratio outside the open interval (0, 1).
var ErrInvalidRatio = errors.New("partition: test ratio must be in (0, 1)")

// ValidateRatio checks that ratio lies strictly between 0 and 1.
func ValidateRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio <= 0 || ratio >= 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidRatio, ratio)
	}
	return nil
}

// TestSize returns the number of test items for n items: ceil(ratio*n),
// clamped to n.
func TestSize(n int, ratio float64) int {
	return min(int(math.Ceil(ratio*float64(n))), n)
}

// Split partitions items into disjoint train and test subsets.
//
// Items are shuffled with a PCG generator seeded from seed; the first
// TestSize(len(items), ratio) shuffled items form the test set. The same
// items, ratio and seed always yield the same partition.
func Split[T any](items []T, ratio float64, seed int64) (train, test []T, err error) {
	if err := ValidateRatio(ratio); err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	perm := rng.Perm(len(items))

	nTest := TestSize(len(items), ratio)
	test = make([]T, 0, nTest)
	train = make([]T, 0, len(items)-nTest)
	for k, idx := range perm {
		if k < nTest {
			test = append(test, items[idx])
		} else {
			train = append(train, items[idx])
		}
	}
	return train, test, nil
}
