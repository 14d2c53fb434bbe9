package geocell

import (
	"context"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/geocell/internal/cellmap"
)

// Build replaces the index contents with the rows of src.
//
// Coverings are computed concurrently; the maps are only touched once every
// covering succeeded, so a failed or cancelled Build leaves the index as it was.
func (idx *Index) Build(ctx context.Context, src RowSource) error {
	start := time.Now()
	rows, err := idx.build(ctx, src)
	idx.metrics.RecordBuild(rows, time.Since(start), err)
	idx.logger.LogBuild(ctx, rows, err)
	return err
}

func (idx *Index) build(ctx context.Context, src RowSource) (int, error) {
	var pending []Tuple
	seen := roaring64.New()
	for t := range src.Scan() {
		if t.Geography(idx.column).IsNull() {
			continue
		}
		if !seen.CheckedAdd(uint64(t.Handle())) {
			return 0, fmt.Errorf("build %v: %w", t.Handle(), ErrDuplicateRow)
		}
		pending = append(pending, t)
	}

	coverings := make([]cellmap.Covering, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.opts.buildConcurrency)
	for i, t := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cells := idx.opts.coverer.Cover(t.Geography(idx.column).Polygon(), idx.params)
			cov, err := idx.toCovering(cells)
			if err != nil {
				return fmt.Errorf("build %v: %w", t.Handle(), err)
			}
			coverings[i] = cov
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	idx.cells.Clear()
	idx.tuples.Clear()
	for i, t := range pending {
		if err := idx.insert(t.Handle(), coverings[i]); err != nil {
			assertf("build insert of row %d: %v", t.Handle(), err)
		}
	}
	return len(pending), nil
}
