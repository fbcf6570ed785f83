// Package codesplit prepares line-completion datasets from source code.
//
// # Quick Start
//
//	b, err := codesplit.New(codesplit.WithSeed(42), codesplit.WithTestRatio(0.2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ds, err := b.Build(ctx, samples)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("train=%d dev=%d pairs=%d\n", len(ds.Train), len(ds.Dev), len(ds.Pairs))
//
// # Pipeline
//
// Each sample is normalized into a single line wrapped in <s> ... </s> with
// line breaks replaced by <EOL>. Exact duplicates are dropped, keeping the
// last occurrence. The remaining samples are split into train and dev sets
// with a seeded shuffle. Every dev sample is also cut at one randomly chosen
// valid split point into an input prefix and a one-line ground truth.
//
// # Reproducibility
//
// All randomness derives from the seed passed with WithSeed; the same corpus
// and options always produce the same dataset.
package codesplit
