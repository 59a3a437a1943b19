package report

import (
	"reflect"
	"strings"
	"testing"

	"github.com/omics-tools/peptmm/pkg/core"
)

// the trailing tab yields the reserved empty trailing column
const sampleTSV = "entry no.\tprotein\tpeptide sequence\tprobability\t\n" +
	"1\tsp|P11111|TEST1_HUMAN\tLLAAVIF\t0.99\t\n" +
	"2\tsp|P11111-2|TEST1_HUMAN\tM[147]KL\t0.95\t\n" +
	"\n" +
	"3\tP22222\tBBB\t0.80\t\n"

func TestBuildIndexTabular(t *testing.T) {
	ix, shape, err := BuildIndex(strings.NewReader(sampleTSV))
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if shape != ShapeTabular {
		t.Fatalf("shape = %v, want tabular", shape)
	}

	if ix.Entries != 3 {
		t.Errorf("entries = %d, want 3 (empty lines skipped)", ix.Entries)
	}
	// the isoform row folds into P11111
	if len(ix.Peptides) != 2 {
		t.Fatalf("indexed %d proteins, want 2: %v", len(ix.Peptides), ix.Peptides)
	}
	want := map[string]struct{}{"LLAAVLF": {}, "MKL": {}}
	if !reflect.DeepEqual(ix.Peptides["P11111"], want) {
		t.Errorf("P11111 peptides = %v, want %v", ix.Peptides["P11111"], want)
	}
	if ix.Distinct != 3 {
		t.Errorf("distinct pairs = %d, want 3", ix.Distinct)
	}
}

func TestBuildIndexTabularMissingColumn(t *testing.T) {
	_, _, err := BuildIndex(strings.NewReader("a\tb\tc\n1\t2\t3\n"))
	if err == nil {
		t.Fatal("header without protein/peptide columns must fail")
	}
}

func TestBuildIndexEmptyReport(t *testing.T) {
	_, _, err := BuildIndex(strings.NewReader("\n\n"))
	if err == nil {
		t.Fatal("empty report must fail")
	}
}

func TestAnnotateTabular(t *testing.T) {
	var rows [][]string
	emit := func(row []string) error {
		out := make([]string, len(row))
		copy(out, row)
		rows = append(rows, out)
		return nil
	}

	err := Annotate(strings.NewReader(sampleTSV), ShapeTabular, testStore(), emit)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("emitted %d rows, want header + 3 data rows", len(rows))
	}

	// header: original minus reserved trailing column, plus 8 appended
	wantHeader := []string{
		"entry no.", "protein", "peptide sequence", "probability",
		"peptide_AA", "peptide_AA_transmem",
		"proteinID", "protein_transmemRegions",
		"protein_AA", "protein_AA_covered",
		"protein_AA_transmem", "protein_AA_transmem_covered",
	}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header:\n got %v\nwant %v", rows[0], wantHeader)
	}
	if len(rows[0]) != 5-1+8 {
		t.Errorf("header has %d columns, want (original-1)+8", len(rows[0]))
	}
	for i, row := range rows[1:] {
		if len(row) != len(rows[0]) {
			t.Errorf("data row %d has %d columns, header has %d", i+1, len(row), len(rows[0]))
		}
	}

	want := []string{"1", "sp|P11111|TEST1_HUMAN", "LLAAVIF", "0.99", "7", "7", "P11111", "1", "22", "9", "7", "7"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("first data row:\n got %v\nwant %v", rows[1], want)
	}

	// isoform accession and modified peptide normalize onto the stored match
	wantIso := []string{"2", "sp|P11111-2|TEST1_HUMAN", "M[147]KL", "0.95", "3", "1", "P11111", "1", "22", "9", "7", "7"}
	if !reflect.DeepEqual(rows[2], wantIso) {
		t.Errorf("isoform row:\n got %v\nwant %v", rows[2], wantIso)
	}

	// unmatched protein: appended columns stay empty
	wantEmpty := []string{"3", "P22222", "BBB", "0.80", "", "", "", "", "", "", "", ""}
	if !reflect.DeepEqual(rows[3], wantEmpty) {
		t.Errorf("unmatched row:\n got %v\nwant %v", rows[3], wantEmpty)
	}
}

func TestAnnotateTabularZeroTMRegionsEmitsEmpty(t *testing.T) {
	store := core.NewResultStore()
	store.Put("P33333", &core.ProteinResult{
		Length:        50,
		TMRegionCount: 0,
		Covered:       10,
		Peptides: map[string]core.PeptideMatch{
			"SAMPLE": {Length: 6, TMOverlap: 0},
		},
	})

	input := "protein\tpeptide sequence\t\nP33333\tSAMPLE\t\n"
	var rows [][]string
	emit := func(row []string) error {
		out := make([]string, len(row))
		copy(out, row)
		rows = append(rows, out)
		return nil
	}
	if err := Annotate(strings.NewReader(input), ShapeTabular, store, emit); err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	row := rows[1]
	// protein_transmemRegions is the literal count, zero included
	if got := row[5]; got != "0" {
		t.Errorf("protein_transmemRegions = %q, want 0", got)
	}
	// protein_AA_transmem{,_covered} must be empty, never "0": no TM region
	// is annotated at all
	if row[8] != "" || row[9] != "" {
		t.Errorf("TM columns = %q/%q, want empty for protein without TM regions", row[8], row[9])
	}
}
