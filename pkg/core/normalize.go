// Package core provides identifier normalization, peptide localization,
// and the result store shared by the report and sequence-database passes.
package core

import (
	"regexp"
	"strings"
)

// modAnnotation matches inline modification annotations such as [160] or [42.01].
var modAnnotation = regexp.MustCompile(`\[[0-9.]+\]`)

// isoformSuffix matches trailing isoform suffixes such as -2 in P12345-2.
var isoformSuffix = regexp.MustCompile(`(-\d+)+$`)

// NormalizeAccession reduces a raw protein identifier to its canonical
// accession: the first comma-separated token, with any sp|/tr| wrapper
// unwrapped to its middle segment and any isoform suffix stripped. Two raw
// identifiers naming the same protein normalize identically.
func NormalizeAccession(raw string) string {
	id := raw
	if i := strings.IndexByte(id, ','); i >= 0 {
		id = id[:i]
	}
	lower := strings.ToLower(id)
	if strings.HasPrefix(lower, "sp|") || strings.HasPrefix(lower, "tr|") {
		if parts := strings.Split(id, "|"); len(parts) > 1 {
			id = parts[1]
		}
	}
	return isoformSuffix.ReplaceAllString(id, "")
}

// NormalizePeptide reduces an observed peptide string to its matchable
// form: uppercase, inline modification annotations removed, and I rewritten
// to L. Leucine and isoleucine are isobaric and cannot be distinguished by
// the identification method, so they must compare equal.
func NormalizePeptide(raw string) string {
	return NormalizeSequence(modAnnotation.ReplaceAllString(raw, ""))
}

// NormalizeSequence uppercases a residue string and folds I to L, the same
// folding applied to peptides, so substring localization stays consistent.
func NormalizeSequence(raw string) string {
	return strings.ReplaceAll(strings.ToUpper(raw), "I", "L")
}
