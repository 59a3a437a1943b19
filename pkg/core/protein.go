package core

import (
	"sort"
	"strconv"
)

// ProteinFeatures holds what the sequence-database scan recovers for one
// protein: the normalized residue sequence and the transmembrane annotation.
type ProteinFeatures struct {
	Sequence      string           // normalized (uppercase, I folded to L)
	TMPositions   map[int]struct{} // 1-based residue indices inside any TRANSMEM feature
	TMRegionCount int              // number of distinct TRANSMEM features
}

// PeptideMatch records a successfully localized peptide within its protein.
type PeptideMatch struct {
	Length    int // residues in the peptide
	TMOverlap int // residues shared with the protein's TM positions
}

// ProteinResult is the per-accession aggregate kept after matching.
type ProteinResult struct {
	Length        int // residues in the protein sequence
	TMRegionCount int // distinct TRANSMEM features
	TMResidues    int // residues annotated transmembrane
	Covered       int // residues covered by at least one localized peptide
	CoveredTM     int // covered residues that are also transmembrane
	Peptides      map[string]PeptideMatch
}

// ResultStore holds match results keyed by normalized accession. It is
// written during the sequence-database scan and read-only afterwards.
type ResultStore struct {
	proteins map[string]*ProteinResult
}

// NewResultStore creates an empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{proteins: make(map[string]*ProteinResult)}
}

// Put stores the result for one accession. A recurring accession
// overwrites: the last sequence-database entry wins.
func (s *ResultStore) Put(acc string, res *ProteinResult) {
	s.proteins[acc] = res
}

// Get returns the stored result for an accession.
func (s *ResultStore) Get(acc string) (*ProteinResult, bool) {
	res, ok := s.proteins[acc]
	return res, ok
}

// Accessions returns every stored accession in sorted order.
func (s *ResultStore) Accessions() []string {
	accs := make([]string, 0, len(s.proteins))
	for acc := range s.proteins {
		accs = append(accs, acc)
	}
	sort.Strings(accs)
	return accs
}

// ProteinFields returns the proteinID, protein_transmemRegions, protein_AA
// and protein_AA_covered columns for acc, or four empty strings when the
// protein was never found in a sequence database.
func (s *ResultStore) ProteinFields(acc string) []string {
	p, ok := s.proteins[acc]
	if !ok {
		return []string{"", "", "", ""}
	}
	return []string{
		acc,
		strconv.Itoa(p.TMRegionCount),
		strconv.Itoa(p.Length),
		strconv.Itoa(p.Covered),
	}
}

// TMFields returns the protein_AA_transmem and protein_AA_transmem_covered
// columns. A protein without any annotated TM region yields empty strings,
// never "0": absence of annotation is distinct from zero overlap.
func (s *ResultStore) TMFields(acc string) []string {
	p, ok := s.proteins[acc]
	if !ok || p.TMRegionCount == 0 {
		return []string{"", ""}
	}
	return []string{strconv.Itoa(p.TMResidues), strconv.Itoa(p.CoveredTM)}
}

// PeptideFields returns the peptide_AA and peptide_AA_transmem columns for
// the (accession, normalized peptide) pair, empty when the peptide was not
// localized.
func (s *ResultStore) PeptideFields(acc, pep string) []string {
	p, ok := s.proteins[acc]
	if !ok {
		return []string{"", ""}
	}
	m, ok := p.Peptides[pep]
	if !ok {
		return []string{"", ""}
	}
	return []string{strconv.Itoa(m.Length), strconv.Itoa(m.TMOverlap)}
}
