package cells

import (
	"context"
	"math"

	"github.com/hepqca/qca/internal/hits"
	"github.com/hepqca/qca/pkg/errors"
	"github.com/hepqca/qca/pkg/geometry"
	"github.com/hepqca/qca/pkg/parallel"
)

// Former is the CellFormer stage: it pairs hits on adjacent layers into
// directed doublets that pass the cone test.
//
// Former validates its configuration at construction time, per the
// error-handling policy: a stage either produces a complete artefact or
// none.
type Former struct {
	cellAngle  float64
	parallel   bool
	poolConfig parallel.PoolConfig
	degenerate int
}

// NewFormer constructs a Former. cellAngle must lie in (0, pi/2).
func NewFormer(cellAngle float64, opts ...Option) (*Former, error) {
	if cellAngle <= 0 || cellAngle >= math.Pi/2 {
		return nil, errors.Wrap(errors.CodeInvalidConfig, "cell_angle must be in (0, pi/2)", nil)
	}
	f := &Former{cellAngle: cellAngle, poolConfig: parallel.DefaultPoolConfig()}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Option configures a Former.
type Option func(*Former)

// WithParallel enables the data-parallel per-layer-pair cone testing backend
// described in the concurrency model: one chunked task per adjacent layer
// pair, slotted by index so the merged CellTable is identical to the
// sequential result regardless of goroutine completion order.
func WithParallel(enabled bool) Option {
	return func(f *Former) { f.parallel = enabled }
}

// DegenerateCount returns the number of inner hits rejected because they sit
// at the origin (undefined cone axis) since the last call to Form.
func (f *Former) DegenerateCount() int {
	return f.degenerate
}

type pairResult struct {
	innerIdx, outerIdx []int32
	degenerate         int
}

type pairInput struct {
	inner, outer int64
}

// Form builds the CellTable for the given hits.
func (f *Former) Form(ht *hits.Table) (*Table, error) {
	f.degenerate = 0

	layers := ht.Layers()
	t := &Table{
		ht:          ht,
		layers:      layers,
		layerRanges: make(map[int64]layerRange, len(layers)),
	}

	if len(layers) < 2 {
		return t, nil
	}

	pairCount := len(layers) - 1
	results := make([]pairResult, pairCount)

	if f.parallel {
		inputs := make([]pairInput, pairCount)
		for k := 0; k < pairCount; k++ {
			inputs[k] = pairInput{inner: layers[k], outer: layers[k+1]}
		}
		pool := parallel.NewWorkerPool[pairInput, pairResult](f.poolConfig)
		taskResults := pool.ExecuteFunc(context.Background(), inputs, func(_ context.Context, in pairInput) (pairResult, error) {
			return f.formPair(ht, in.inner, in.outer), nil
		})
		for k, tr := range taskResults {
			results[k] = tr.Result
		}
	} else {
		for k := 0; k < pairCount; k++ {
			results[k] = f.formPair(ht, layers[k], layers[k+1])
		}
	}

	for k := 0; k < pairCount; k++ {
		begin := int32(len(t.innerIdx))
		t.innerIdx = append(t.innerIdx, results[k].innerIdx...)
		t.outerIdx = append(t.outerIdx, results[k].outerIdx...)
		end := int32(len(t.innerIdx))
		t.layerRanges[layers[k]] = layerRange{begin: begin, end: end}
		f.degenerate += results[k].degenerate
	}

	return t, nil
}

// formPair forms cells between one adjacent layer pair: the cartesian
// product of inner and outer hits, keeping pairs whose outer hit falls
// inside the cone rooted at the inner hit.
func (f *Former) formPair(ht *hits.Table, innerLayer, outerLayer int64) pairResult {
	innerRows := ht.LayerHits(innerLayer)
	outerRows := ht.LayerHits(outerLayer)

	var r pairResult

	for _, ii := range innerRows {
		innerHit := ht.Hit(ii)
		innerPos := innerHit.Pos()

		if innerPos.Norm() == 0 {
			r.degenerate++
			continue
		}

		for _, oi := range outerRows {
			outerPos := ht.Hit(oi).Pos()
			inCone, ok := geometry.InCone(innerPos, outerPos, f.cellAngle)
			if !ok {
				r.degenerate++
				continue
			}
			if inCone {
				r.innerIdx = append(r.innerIdx, ii)
				r.outerIdx = append(r.outerIdx, oi)
			}
		}
	}

	return r
}
