// internal/engine/batch.go
package engine

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Input is one document of a batch.
type Input struct {
	// Name identifies the document in errors and logs.
	Name string
	HTML io.Reader
	// CSS may be nil.
	CSS io.Reader
}

// RenderAll renders independent documents concurrently, at most
// Batch().Concurrency at a time. Results are returned in input order. The
// first failure cancels the documents that have not finished.
func (e *Engine) RenderAll(ctx context.Context, inputs []Input) ([]*Result, error) {
	results := make([]*Result, len(inputs))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, e.cfg.Batch().Concurrency))

	for i, in := range inputs {
		g.Go(func() error {
			res, err := e.Render(groupCtx, in.HTML, in.CSS)
			if err != nil {
				return fmt.Errorf("%s: %w", in.Name, err)
			}
			results[i] = res
			e.logger.Debug("Document rendered", zap.String("document", in.Name), zap.String("render_id", res.RenderID))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
