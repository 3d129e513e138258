package scoring

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "known alias", input: "vinicius goes", want: "Vina"},
		{name: "alias with accents", input: "Vinícius Góes", want: "Vina"},
		{name: "alias with surrounding whitespace", input: "  zanocelo  ", want: "Zanocello"},
		{name: "short alias", input: "PH", want: "Pedro Henrique"},
		{name: "unknown name unchanged", input: "Erick Pulga", want: "Erick Pulga"},
		{name: "unknown name keeps casing and spacing", input: "  RICHARDSON ", want: "  RICHARDSON "},
		{name: "empty string", input: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Canonicalize(tc.input); got != tc.want {
				t.Fatalf("Canonicalize(%q): got=%q want=%q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "alias folds to canonical key", input: "Vinícius Góes", want: "vina"},
		{name: "canonical form folds to same key", input: "Vina", want: "vina"},
		{name: "plain name folded and trimmed", input: "  Erick Pulga ", want: "erick pulga"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeName(tc.input); got != tc.want {
				t.Fatalf("NormalizeName(%q): got=%q want=%q", tc.input, got, tc.want)
			}
		})
	}
}

// A user typing an alias and a user typing the canonical form must land in
// the same population bucket, otherwise the alone tier would miscount.
func TestNormalizeNameAliasAndCanonicalShareKey(t *testing.T) {
	if NormalizeName("vinicius goes") != NormalizeName("Vina") {
		t.Fatal("alias and canonical form produced different keys")
	}
}
