package core

import (
	"sort"
	"strings"
)

// MatchResult is the outcome of localizing one protein's peptide set.
type MatchResult struct {
	Matches   map[string]PeptideMatch
	Covered   map[int]struct{} // union of all localized peptides' residue spans
	CoveredTM map[int]struct{} // subset of Covered inside TM positions
	Unlocated []string         // peptides absent from the sequence, sorted
}

// Match localizes every peptide of the set within the protein's normalized
// sequence and accumulates residue-level coverage. Localization is
// first-occurrence substring search only. Peptides that do not occur in the
// sequence are reported in Unlocated and excluded from all aggregates.
func Match(f *ProteinFeatures, peptides map[string]struct{}) *MatchResult {
	res := &MatchResult{
		Matches:   make(map[string]PeptideMatch, len(peptides)),
		Covered:   make(map[int]struct{}),
		CoveredTM: make(map[int]struct{}),
	}

	for pep := range peptides {
		from := strings.Index(f.Sequence, pep) + 1 // 1-based residue index
		if from == 0 {
			res.Unlocated = append(res.Unlocated, pep)
			continue
		}
		to := from + len(pep) - 1
		overlap := 0
		for i := from; i <= to; i++ {
			res.Covered[i] = struct{}{}
			if _, tm := f.TMPositions[i]; tm {
				res.CoveredTM[i] = struct{}{}
				overlap++
			}
		}
		res.Matches[pep] = PeptideMatch{Length: len(pep), TMOverlap: overlap}
	}

	sort.Strings(res.Unlocated)
	return res
}

// Result assembles the stored per-protein aggregate from this match.
func (r *MatchResult) Result(f *ProteinFeatures) *ProteinResult {
	return &ProteinResult{
		Length:        len(f.Sequence),
		TMRegionCount: f.TMRegionCount,
		TMResidues:    len(f.TMPositions),
		Covered:       len(r.Covered),
		CoveredTM:     len(r.CoveredTM),
		Peptides:      r.Matches,
	}
}
