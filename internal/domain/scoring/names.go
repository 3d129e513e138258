package scoring

import "strings"

// playerAliases maps known alternate spellings (case-folded, trimmed) to
// the canonical form the pool uses. Fixed table, extended as new nicknames
// show up in submitted predictions.
var playerAliases = map[string]string{
	"vinicius goes":      "Vina",
	"vinícius góes":      "Vina",
	"vinicius góes":      "Vina",
	"vinicius":           "Vina",
	"vinícius":           "Vina",
	"ph":                 "Pedro Henrique",
	"vinicius zanocelo":  "Zanocello",
	"vinicius zanocello": "Zanocello",
	"vinícius zanocelo":  "Zanocello",
	"vinícius zanocello": "Zanocello",
	"zanocelo":           "Zanocello",
}

// Canonicalize maps a known alternate spelling of a player's name to its
// canonical form. Unknown names come back unchanged, original casing and
// whitespace intact.
func Canonicalize(name string) string {
	if canonical, ok := playerAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return canonical
	}
	return name
}

// NormalizeName produces the key used both to compare a predicted player
// against actual scorers/assists and to count predictions for the
// alone/shared tier. Canonicalizing before folding keeps a user who typed
// an alias in the same population bucket as users who typed the canonical
// form.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(Canonicalize(name)))
}
