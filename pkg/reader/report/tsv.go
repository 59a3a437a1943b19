package report

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/omics-tools/peptmm/pkg/core"
)

const fieldDelimiter = "\t"

// Column names looked up in the tabular header, order-independent.
const (
	proteinColumn = "protein"
	peptideColumn = "peptide sequence"
)

// appendedColumns replace the report's reserved trailing column in tabular
// output, in this fixed order.
var appendedColumns = []string{
	"peptide_AA", "peptide_AA_transmem",
	"proteinID", "protein_transmemRegions",
	"protein_AA", "protein_AA_covered",
	"protein_AA_transmem", "protein_AA_transmem_covered",
}

// columnIndices locates the protein and peptide sequence columns by exact
// name. A header missing either column is a structural error.
func columnIndices(header []string) (prot, pep int, err error) {
	prot, pep = -1, -1
	for i, name := range header {
		switch name {
		case proteinColumn:
			if prot < 0 {
				prot = i
			}
		case peptideColumn:
			if pep < 0 {
				pep = i
			}
		}
	}
	if prot < 0 {
		return 0, 0, fmt.Errorf("report header has no %q column", proteinColumn)
	}
	if pep < 0 {
		return 0, 0, fmt.Errorf("report header has no %q column", peptideColumn)
	}
	return prot, pep, nil
}

func indexTabular(header string, sc *bufio.Scanner) (*Index, error) {
	iProt, iPep, err := columnIndices(strings.Split(header, fieldDelimiter))
	if err != nil {
		return nil, err
	}

	ix := newIndex()
	lineNum := 1
	for sc.Scan() {
		lineNum++
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, fieldDelimiter)
		if iProt >= len(fields) || iPep >= len(fields) {
			return nil, fmt.Errorf("line %d: row has %d fields, need at least %d",
				lineNum, len(fields), max(iProt, iPep)+1)
		}
		ix.add(fields[iProt], fields[iPep])
	}
	return ix, sc.Err()
}

// annotateTabular re-reads the report, drops the reserved trailing column
// of the header and of every row, and appends the annotation columns.
// Rows whose protein was never matched keep every appended field empty.
func annotateTabular(sc *bufio.Scanner, store *core.ResultStore, emit func([]string) error) error {
	first, ok := firstNonEmpty(sc)
	if !ok {
		if err := sc.Err(); err != nil {
			return err
		}
		return errors.New("empty report")
	}

	header := strings.Split(first, fieldDelimiter)
	iProt, iPep, err := columnIndices(header)
	if err != nil {
		return err
	}

	out := make([]string, 0, len(header)-1+len(appendedColumns))
	out = append(out, header[:len(header)-1]...)
	out = append(out, appendedColumns...)
	if err := emit(out); err != nil {
		return err
	}

	lineNum := 1
	for sc.Scan() {
		lineNum++
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, fieldDelimiter)
		if iProt >= len(fields) || iPep >= len(fields) {
			return fmt.Errorf("line %d: row has %d fields, need at least %d",
				lineNum, len(fields), max(iProt, iPep)+1)
		}
		acc := core.NormalizeAccession(fields[iProt])
		pep := core.NormalizePeptide(fields[iPep])

		row := make([]string, 0, len(fields)-1+len(appendedColumns))
		row = append(row, fields[:len(fields)-1]...)
		row = append(row, store.PeptideFields(acc, pep)...)
		row = append(row, store.ProteinFields(acc)...)
		row = append(row, store.TMFields(acc)...)
		if err := emit(row); err != nil {
			return err
		}
	}
	return sc.Err()
}
