package perception

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

// PerceiveAll runs a pass over every molecule with at most workers passes in
// flight (GOMAXPROCS when workers <= 0). Results keep input order; a nil
// molecule yields an empty Result. The molecules must be distinct, since each
// pass writes labels onto its atoms.
//
// Cancellation is checked between molecules: passes already started finish,
// and the context error is returned.
func (p *Perceiver) PerceiveAll(ctx context.Context, mols []*molecule.Molecule, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(mols))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, mol := range mols {
		if egctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			if mol == nil {
				results[i] = &Result{}
				return nil
			}
			results[i] = p.PerceiveTypes(mol)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.logger.Debug("batch perceived", "molecules", len(mols), "workers", workers)
	return results, nil
}
