package ledger

import "testing"

func opGroup(n int) []Op {
	group := make([]Op, 0, n)
	for i := 0; i < n; i++ {
		group = append(group, ResetUserPoints{UserID: "u"})
	}
	return group
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name       string
		groupSizes []int
		maxOps     int
		wantChunks []int
	}{
		{
			name:       "empty input",
			groupSizes: nil,
			maxOps:     10,
			wantChunks: nil,
		},
		{
			name:       "single group under cap",
			groupSizes: []int{3},
			maxOps:     10,
			wantChunks: []int{3},
		},
		{
			name:       "groups packed up to cap",
			groupSizes: []int{4, 4, 4},
			maxOps:     8,
			wantChunks: []int{8, 4},
		},
		{
			name:       "group never split across chunks",
			groupSizes: []int{5, 5, 5},
			maxOps:     7,
			wantChunks: []int{5, 5, 5},
		},
		{
			name:       "oversized group becomes its own chunk",
			groupSizes: []int{2, 9, 2},
			maxOps:     4,
			wantChunks: []int{2, 9, 2},
		},
		{
			name:       "empty groups skipped",
			groupSizes: []int{0, 3, 0, 2},
			maxOps:     10,
			wantChunks: []int{5},
		},
		{
			name:       "non-positive cap falls back to default",
			groupSizes: []int{3, 3},
			maxOps:     0,
			wantChunks: []int{6},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			groups := make([][]Op, 0, len(tc.groupSizes))
			for _, size := range tc.groupSizes {
				groups = append(groups, opGroup(size))
			}

			chunks := Chunk(groups, tc.maxOps)
			if len(chunks) != len(tc.wantChunks) {
				t.Fatalf("chunk count: got=%d want=%d", len(chunks), len(tc.wantChunks))
			}
			total := 0
			for i, chunk := range chunks {
				if len(chunk) != tc.wantChunks[i] {
					t.Fatalf("chunk %d size: got=%d want=%d", i, len(chunk), tc.wantChunks[i])
				}
				total += len(chunk)
			}

			wantTotal := 0
			for _, size := range tc.groupSizes {
				wantTotal += size
			}
			if total != wantTotal {
				t.Fatalf("ops preserved: got=%d want=%d", total, wantTotal)
			}
		})
	}
}
