package usecase

import (
	"context"
	"fmt"

	"github.com/bolao-app/bolao-api/internal/domain/ledger"
)

// applyChunks commits staged op groups through the writer in bounded
// atomic chunks. A failure on the first chunk leaves the store untouched;
// a failure after that surfaces ErrPartialApply: chunks 1..k are
// committed, the rest were not attempted, and the caller retries the whole
// operation relying on delta recomputation to make the committed prefix a
// no-op.
func applyChunks(ctx context.Context, writer ledger.Writer, groups [][]ledger.Op) error {
	chunks := ledger.Chunk(groups, writer.MaxOps())
	for i, chunk := range chunks {
		if err := writer.Apply(ctx, chunk); err != nil {
			if i > 0 {
				return fmt.Errorf("%w: chunk %d of %d: %v", ErrPartialApply, i+1, len(chunks), err)
			}
			return fmt.Errorf("apply chunk 1 of %d: %w", len(chunks), err)
		}
	}
	return nil
}
