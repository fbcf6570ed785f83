package bench

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

var (
	// ErrLengthMismatch indicates predictions and targets of different lengths.
	ErrLengthMismatch = errors.New("bench: predictions and targets differ in length")

	// ErrPredictions indicates a malformed predictions file.
	ErrPredictions = errors.New("bench: malformed predictions")
)

// Prediction is one model output paired with its ground truth.
type Prediction struct {
	Prediction string `json:"prediction"`
	GT         string `json:"gt"`
}

// Scores holds mean completion metrics, each in [0, 1].
type Scores struct {
	Samples        int
	ExactMatch     float64
	EditSimilarity float64
}

// ExactMatch returns 1 if prediction equals truth, else 0.
func ExactMatch(prediction, truth string) float64 {
	if prediction == truth {
		return 1
	}
	return 0
}

// EditSimilarity returns 1 - d/n, where d is the Levenshtein distance in
// runes and n the rune length of the longer string. Two empty strings are
// identical.
func EditSimilarity(prediction, truth string) float64 {
	n := max(utf8.RuneCountInString(prediction), utf8.RuneCountInString(truth))
	if n == 0 {
		return 1
	}
	d := fuzzy.LevenshteinDistance(prediction, truth)
	return 1 - float64(d)/float64(n)
}

// Score averages ExactMatch and EditSimilarity over aligned predictions and
// targets.
func Score(predictions, targets []string) (Scores, error) {
	if len(predictions) != len(targets) {
		return Scores{}, fmt.Errorf("%w: %d predictions, %d targets", ErrLengthMismatch, len(predictions), len(targets))
	}

	s := Scores{Samples: len(predictions)}
	if s.Samples == 0 {
		return s, nil
	}
	em, es := 0.0, 0.0
	for i, p := range predictions {
		em += ExactMatch(p, targets[i])
		es += EditSimilarity(p, targets[i])
	}
	s.ExactMatch = em / float64(s.Samples)
	s.EditSimilarity = es / float64(s.Samples)
	return s, nil
}

// ScorePredictions scores Prediction records against their own GT.
func ScorePredictions(preds []Prediction) Scores {
	s, _ := Score(
		lo.Map(preds, func(p Prediction, _ int) string { return p.Prediction }),
		lo.Map(preds, func(p Prediction, _ int) string { return p.GT }),
	)
	return s
}

// ReadPredictions reads one {"prediction": ..., "gt": ...} object per line.
// Blank lines are ignored.
func ReadPredictions(r io.Reader) ([]Prediction, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var preds []Prediction
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p Prediction
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrPredictions, lineNo, err)
		}
		preds = append(preds, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPredictions, err)
	}
	return preds, nil
}

// LoadPredictions reads a predictions file with ReadPredictions.
func LoadPredictions(path string) ([]Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening predictions: %w", err)
	}
	defer f.Close()
	return ReadPredictions(f)
}
