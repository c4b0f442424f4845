package plate

import (
	"regexp"
	"strings"
)

// Validator reports whether a normalized plate identifier is acceptable.
// The ledger takes it as a pluggable predicate so facilities with a known
// plate grammar can enforce it without touching the core.
type Validator func(string) bool

// Normalize canonicalizes a raw plate: trimmed, uppercased, inner spaces
// removed. All storage keys go through this.
func Normalize(raw string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
}

// Default accepts plates of 5 to 7 characters. Colombian plates follow a
// letter/digit pattern (AAA123 for cars, AA12B for motorcycles), but the
// character classes are deliberately not enforced here; install a Pattern
// validator to tighten it.
func Default(p string) bool {
	return len(p) >= 5 && len(p) <= 7
}

// Pattern builds a Validator from a regular expression over the normalized
// plate.
func Pattern(re *regexp.Regexp) Validator {
	return re.MatchString
}
