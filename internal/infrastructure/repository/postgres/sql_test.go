package postgres

import (
	"strings"
	"testing"
)

func TestCompactQuery_CollapsesWhitespace(t *testing.T) {
	query := "UPDATE users\n\tSET total_points = total_points + $1\n\tWHERE id = $2"
	got := compactQuery(query)
	want := "UPDATE users SET total_points = total_points + $1 WHERE id = $2"
	if got != want {
		t.Fatalf("compactQuery mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestCompactQuery_TruncatesLongStatements(t *testing.T) {
	query := "SELECT " + strings.Repeat("x", maxQueryInError*2)
	got := compactQuery(query)
	if len(got) != maxQueryInError+3 {
		t.Fatalf("expected truncated length %d, got %d", maxQueryInError+3, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation marker, got %q", got[len(got)-10:])
	}
}
