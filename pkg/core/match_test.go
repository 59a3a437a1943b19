package core

import "testing"

// features builds ProteinFeatures from a raw sequence and inclusive TM ranges.
func features(seq string, tmRanges ...[2]int) *ProteinFeatures {
	f := &ProteinFeatures{
		Sequence:      NormalizeSequence(seq),
		TMPositions:   make(map[int]struct{}),
		TMRegionCount: len(tmRanges),
	}
	for _, r := range tmRanges {
		for i := r[0]; i <= r[1]; i++ {
			f.TMPositions[i] = struct{}{}
		}
	}
	return f
}

func peptideSet(peps ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(peps))
	for _, p := range peps {
		set[NormalizePeptide(p)] = struct{}{}
	}
	return set
}

func TestMatchTransmembraneOverlap(t *testing.T) {
	// 13 residues, TM feature spanning 3-9
	f := features("MKLLAAVIFLLAA", [2]int{3, 9})

	res := Match(f, peptideSet("LLAAVIF", "MKL"))

	tests := []struct {
		peptide     string
		wantLength  int
		wantOverlap int
	}{
		{"LLAAVLF", 7, 7}, // residues 3-9, fully transmembrane
		{"MKL", 3, 1},     // residues 1-3, only residue 3 inside the TM span
	}
	for _, tt := range tests {
		m, ok := res.Matches[tt.peptide]
		if !ok {
			t.Fatalf("peptide %s was not localized", tt.peptide)
		}
		if m.Length != tt.wantLength {
			t.Errorf("peptide %s length = %d, want %d", tt.peptide, m.Length, tt.wantLength)
		}
		if m.TMOverlap != tt.wantOverlap {
			t.Errorf("peptide %s TM overlap = %d, want %d", tt.peptide, m.TMOverlap, tt.wantOverlap)
		}
		if m.TMOverlap > m.Length {
			t.Errorf("peptide %s TM overlap %d exceeds length %d", tt.peptide, m.TMOverlap, m.Length)
		}
	}
	if len(res.Unlocated) != 0 {
		t.Errorf("unexpected unlocated peptides: %v", res.Unlocated)
	}
}

func TestMatchCoverageUnion(t *testing.T) {
	f := features("MKVAAPEPTLDEKAA")

	// PEPTLDE spans 6-12, TLDEK spans 9-13: overlapping ranges must
	// contribute their union, not their sum
	res := Match(f, peptideSet("PEPTLDE", "TLDEK"))

	if got, want := len(res.Covered), 8; got != want {
		t.Errorf("covered residues = %d, want %d (union of 6-12 and 9-13)", got, want)
	}
	for i := 6; i <= 13; i++ {
		if _, ok := res.Covered[i]; !ok {
			t.Errorf("residue %d missing from coverage union", i)
		}
	}
	if len(res.CoveredTM) != 0 {
		t.Errorf("protein without TM positions reported %d covered TM residues", len(res.CoveredTM))
	}
}

func TestMatchMissingPeptide(t *testing.T) {
	f := features("MKVAAPEPTLDEK")

	res := Match(f, peptideSet("NOTTHERE", "MKV"))

	if len(res.Unlocated) != 1 || res.Unlocated[0] != "NOTTHERE" {
		t.Fatalf("Unlocated = %v, want [NOTTHERE]", res.Unlocated)
	}
	if _, ok := res.Matches["NOTTHERE"]; ok {
		t.Error("unlocated peptide must not produce a match")
	}
	if _, ok := res.Matches["MKV"]; !ok {
		t.Error("remaining peptides must still be localized")
	}
	// the failed peptide contributes nothing to coverage
	if got, want := len(res.Covered), 3; got != want {
		t.Errorf("covered residues = %d, want %d", got, want)
	}
}

func TestMatchFirstOccurrenceOnly(t *testing.T) {
	// AAK occurs at 2-4 and again at 7-9; only the first placement counts
	f := features("MAAKXXAAKXX", [2]int{7, 9})

	res := Match(f, peptideSet("AAK"))

	m := res.Matches["AAK"]
	if m.TMOverlap != 0 {
		t.Errorf("TM overlap = %d, want 0 (first occurrence is outside the TM span)", m.TMOverlap)
	}
	if _, ok := res.Covered[2]; !ok {
		t.Error("first occurrence residues missing from coverage")
	}
	if _, ok := res.Covered[7]; ok {
		t.Error("second occurrence must not contribute to coverage")
	}
}

func TestMatchEndToEndScenario(t *testing.T) {
	// protein P1: 10 residues, one TM feature spanning 5-10,
	// peptides AAA (2-4) and BBB (6-8)
	f := features("XAAAXBBBXX", [2]int{5, 10})

	res := Match(f, peptideSet("AAA", "BBB"))

	if m := res.Matches["AAA"]; m.TMOverlap != 0 {
		t.Errorf("AAA TM overlap = %d, want 0", m.TMOverlap)
	}
	if m := res.Matches["BBB"]; m.TMOverlap != 3 {
		t.Errorf("BBB TM overlap = %d, want 3", m.TMOverlap)
	}

	agg := res.Result(f)
	if agg.Covered != 6 {
		t.Errorf("covered residues = %d, want 6", agg.Covered)
	}
	if agg.CoveredTM != 3 {
		t.Errorf("covered TM residues = %d, want 3", agg.CoveredTM)
	}
	if agg.TMResidues != 6 {
		t.Errorf("TM residues = %d, want 6", agg.TMResidues)
	}
	if agg.TMRegionCount != 1 {
		t.Errorf("TM region count = %d, want 1", agg.TMRegionCount)
	}
	if agg.Length != 10 {
		t.Errorf("protein length = %d, want 10", agg.Length)
	}
	if agg.CoveredTM > agg.Covered {
		t.Error("covered TM residues must be a subset of covered residues")
	}
}
