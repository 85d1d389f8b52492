package evolve

import (
	"context"

	"github.com/hepqca/qca/pkg/parallel"
)

type evolveConfig struct {
	parallel   bool
	poolConfig parallel.PoolConfig
}

// Option configures Evolve.
type Option func(*evolveConfig)

// WithParallel enables the data-parallel per-sweep update backend: each
// sweep's per-cell update reads only the previous sweep's snapshot and
// writes to its own shadow slot, so cells can be updated concurrently with
// no contention and no ordering dependency between them.
func WithParallel(enabled bool) Option {
	return func(c *evolveConfig) { c.parallel = enabled }
}

// Evolve runs the synchronous fixed-point sweep: on each sweep every cell's
// next state is computed from the current snapshot of its inner neighbours,
// so a cell never sees a neighbour's value from the sweep in progress. The
// sweep repeats until no cell's state changes, and returns the number of
// sweeps that changed at least one state.
func Evolve(a *Automaton, opts ...Option) int {
	cfg := evolveConfig{poolConfig: parallel.DefaultPoolConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := a.Len()
	shadow := make([]int32, n)
	sweeps := 0

	cellIdx := make([]int, n)
	for c := range cellIdx {
		cellIdx[c] = c
	}

	for {
		var changed bool

		if cfg.parallel {
			changedFlags := make([]bool, n)
			_, _ = parallel.ForEach(context.Background(), cellIdx, cfg.poolConfig, func(_ context.Context, c int) error {
				next := sweepCell(a, c)
				shadow[c] = next
				changedFlags[c] = next != a.States[c]
				return nil
			})
			for _, f := range changedFlags {
				if f {
					changed = true
					break
				}
			}
		} else {
			for c := 0; c < n; c++ {
				next := sweepCell(a, c)
				shadow[c] = next
				if next != a.States[c] {
					changed = true
				}
			}
		}

		if !changed {
			break
		}

		copy(a.States, shadow)
		sweeps++
	}

	return sweeps
}

// sweepCell computes cell c's next state from the current snapshot: one more
// than its own state if any inner neighbour holds an equal state, otherwise
// unchanged.
func sweepCell(a *Automaton, c int) int32 {
	cur := a.States[c]
	for _, inner := range a.InnerNeighs[c] {
		if a.States[inner] == cur {
			return cur + 1
		}
	}
	return cur
}
