// Package report reads protein-identification reports in either of two
// shapes: hierarchical ProteinProphet-style markup or tab-delimited text
// with a header row. The shape is detected once from the first non-empty
// line and threaded through both passes.
//
// The hierarchical shape is consumed as a restricted line-oriented subset,
// one element per line with attributes extracted by string scanning. This
// is a deliberate scope limitation, not a general XML parser.
package report

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/omics-tools/peptmm/pkg/core"
)

// Shape identifies the report layout.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeHierarchical
	ShapeTabular
)

func (s Shape) String() string {
	switch s {
	case ShapeHierarchical:
		return "hierarchical (protXML)"
	case ShapeTabular:
		return "tabular (tab-delimited)"
	default:
		return "unknown"
	}
}

// Index maps normalized accessions to the distinct normalized peptides
// observed for them. It is built once in pass 1 and never mutated after.
type Index struct {
	Peptides map[string]map[string]struct{}
	Entries  int // peptide observations seen, pre-deduplication
	Distinct int // distinct (protein, peptide) pairs
}

func newIndex() *Index {
	return &Index{Peptides: make(map[string]map[string]struct{})}
}

// add normalizes and records one observed protein/peptide pair.
func (ix *Index) add(rawProt, rawPep string) {
	prot := core.NormalizeAccession(rawProt)
	pep := core.NormalizePeptide(rawPep)
	ix.Entries++
	set, ok := ix.Peptides[prot]
	if !ok {
		set = make(map[string]struct{})
		ix.Peptides[prot] = set
	}
	if _, dup := set[pep]; !dup {
		set[pep] = struct{}{}
		ix.Distinct++
	}
}

// Has reports whether any report entry referenced the accession.
func (ix *Index) Has(acc string) bool {
	_, ok := ix.Peptides[acc]
	return ok
}

// BuildIndex scans the report once, detects its shape, and returns the
// per-protein peptide sets (pass 1 of the two-pass pipeline).
func BuildIndex(r io.Reader) (*Index, Shape, error) {
	sc := newScanner(r)
	first, ok := firstNonEmpty(sc)
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, ShapeUnknown, err
		}
		return nil, ShapeUnknown, errors.New("empty report")
	}
	if strings.HasPrefix(strings.TrimSpace(first), "<?xml") {
		ix, err := indexHierarchical(sc)
		return ix, ShapeHierarchical, err
	}
	ix, err := indexTabular(first, sc)
	return ix, ShapeTabular, err
}

// Annotate re-reads the report and emits one annotated output row per
// peptide entry through emit, preserving the pass-1 shape (pass 2).
func Annotate(r io.Reader, shape Shape, store *core.ResultStore, emit func([]string) error) error {
	sc := newScanner(r)
	switch shape {
	case ShapeHierarchical:
		return annotateHierarchical(sc, store, emit)
	case ShapeTabular:
		return annotateTabular(sc, store, emit)
	default:
		return errors.New("unknown report shape")
	}
}

// newScanner sizes the line buffer for protein lines that carry the whole
// stripped-peptide list in a single attribute.
func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return sc
}

func firstNonEmpty(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		if line := sc.Text(); strings.TrimSpace(line) != "" {
			return line, true
		}
	}
	return "", false
}
