package ledger

import "context"

// DefaultMaxOps mirrors the common document-store cap on writes per atomic
// batch.
const DefaultMaxOps = 500

// Writer commits staged ops against the store. Apply is all-or-nothing for
// the ops it receives; callers must keep a single call at or below MaxOps
// by chunking (see Chunk) and must order chunks so that every committed
// prefix is a well-defined, retry-safe state.
type Writer interface {
	MaxOps() int
	Apply(ctx context.Context, ops []Op) error
}

// Chunk packs op groups into batches of at most maxOps ops without ever
// splitting a group. A group holds writes that must land together (for the
// reconciliation paths: one user's prediction writes plus that user's
// counter increment), so a committed chunk is internally consistent and a
// retry of the whole operation recomputes zero deltas for it.
//
// A single group larger than maxOps becomes its own oversized chunk; the
// store cap is a batching target, not a correctness bound, and splitting
// the group would be worse than exceeding the cap.
func Chunk(groups [][]Op, maxOps int) [][]Op {
	if maxOps <= 0 {
		maxOps = DefaultMaxOps
	}

	var chunks [][]Op
	var current []Op
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		if len(current) > 0 && len(current)+len(group) > maxOps {
			chunks = append(chunks, current)
			current = nil
		}
		current = append(current, group...)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}

	return chunks
}
