package engine

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Factory builds an independent simulation for one seed.
type Factory func(seed int64) (*Simulation, error)

// Ensemble runs independent seeds of one setup concurrently.
type Ensemble struct {
	build     Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			seed := e.seedStart + int64(idx)
			sim, err := e.build(seed)
			if err != nil {
				errs[idx] = errors.Wrapf(err, "seed %d", seed)
				return
			}
			results[idx], errs[idx] = sim.Run(ctx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
