package report

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/omics-tools/peptmm/pkg/core"
)

const (
	groupStart   = "<protein_group "
	groupEnd     = "</protein_group>"
	proteinStart = "<protein "
	proteinEnd   = "</protein>"
	peptideStart = "<peptide "
	modInfoStart = "<modification_info "
)

// hierarchicalHeader is the fixed 20-column output header for reports in
// hierarchical shape.
var hierarchicalHeader = []string{
	"group_number", "group_probability",
	"protein_name", "protein_peptides", "protein_pct_spectrum_ids", "protein_percent_coverage",
	"peptide_sequence", "peptide_sequence_modified", "peptide_charge",
	"peptide_nsp_adjusted_probability", "peptide_n_enzymatic_termini", "peptide_calc_neutral_pep_mass",
	"proteinID", "protein_transmemRegions", "protein_AA", "protein_AA_covered",
	"protein_AA_transmem", "protein_AA_transmem_covered", "peptide_AA", "peptide_AA_transmem",
}

// attrSeparators are the tolerated spellings between an attribute name and
// its opening quote.
var attrSeparators = []string{`="`, `='`, ` = "`, ` = '`, ` ="`, ` ='`, `= "`, `= '`}

// attr extracts the value of a named attribute from a single element line.
// Absent attributes yield the empty string.
func attr(line, name string) string {
	for _, sep := range attrSeparators {
		begin := strings.Index(line, name+sep)
		if begin < 0 {
			continue
		}
		rest := line[begin+len(name)+len(sep):]
		quote := sep[len(sep)-1:]
		if end := strings.Index(rest, quote); end >= 0 {
			return rest[:end]
		}
	}
	return ""
}

// nextLine returns the next trimmed line, failing when the stream ends
// inside an open structure.
func nextLine(sc *bufio.Scanner, within string) (string, error) {
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("unexpected end of report inside %s", within)
}

// indexHierarchical collects the peptide set of the first protein of every
// protein group. The first-listed protein is the group representative; the
// remaining group members carry the same peptide evidence.
func indexHierarchical(sc *bufio.Scanner) (*Index, error) {
	ix := newIndex()
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, groupStart) {
			continue
		}
		seen := false
		for {
			inner, err := nextLine(sc, "protein group")
			if err != nil {
				return nil, err
			}
			if inner == groupEnd {
				break
			}
			if seen || !strings.HasPrefix(inner, proteinStart) {
				continue
			}
			seen = true
			prot := attr(inner, "protein_name")
			for _, pep := range strings.Split(attr(inner, "unique_stripped_peptides"), "+") {
				ix.add(prot, pep)
			}
		}
	}
	return ix, sc.Err()
}

// annotateHierarchical re-walks the groups and emits one row per peptide
// element of each group-representative protein.
func annotateHierarchical(sc *bufio.Scanner, store *core.ResultStore, emit func([]string) error) error {
	if err := emit(hierarchicalHeader); err != nil {
		return err
	}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, groupStart) {
			continue
		}
		group := []string{attr(line, "group_number"), attr(line, "probability")}
		for {
			inner, err := nextLine(sc, "protein group")
			if err != nil {
				return err
			}
			if inner == groupEnd {
				break
			}
			if !strings.HasPrefix(inner, proteinStart) {
				continue
			}
			if err := annotateProtein(sc, inner, group, store, emit); err != nil {
				return err
			}
			// only the group representative is reported; drain the rest
			for inner != groupEnd {
				if inner, err = nextLine(sc, "protein group"); err != nil {
					return err
				}
			}
			break
		}
	}
	return sc.Err()
}

// annotateProtein emits a row for every peptide element of one protein,
// combining report fields with the stored annotation blocks.
func annotateProtein(sc *bufio.Scanner, line string, group []string, store *core.ResultStore, emit func([]string) error) error {
	protFields := []string{
		attr(line, "protein_name"),
		attr(line, "total_number_peptides"),
		attr(line, "pct_spectrum_ids"),
		attr(line, "percent_coverage"),
	}
	acc := core.NormalizeAccession(attr(line, "protein_name"))

	for {
		inner, err := nextLine(sc, "protein element")
		if err != nil {
			return err
		}
		if inner == proteinEnd {
			return nil
		}
		if !strings.HasPrefix(inner, peptideStart) {
			continue
		}

		pepFields := []string{
			attr(inner, "peptide_sequence"),
			attr(inner, "peptide_sequence"), // replaced below when a modified form follows
			attr(inner, "charge"),
			attr(inner, "nsp_adjusted_probability"),
			attr(inner, "n_enzymatic_termini"),
			attr(inner, "calc_neutral_pep_mass"),
		}
		pep := core.NormalizePeptide(attr(inner, "peptide_sequence"))

		// a modification_info child, when present, immediately follows the
		// peptide line
		peek, err := nextLine(sc, "peptide element")
		if err != nil {
			return err
		}
		if strings.HasPrefix(peek, modInfoStart) {
			pepFields[1] = attr(peek, "modified_peptide")
		}

		row := make([]string, 0, len(hierarchicalHeader))
		row = append(row, group...)
		row = append(row, protFields...)
		row = append(row, pepFields...)
		row = append(row, store.ProteinFields(acc)...)
		row = append(row, store.TMFields(acc)...)
		row = append(row, store.PeptideFields(acc, pep)...)
		if err := emit(row); err != nil {
			return err
		}

		if peek == proteinEnd {
			return nil
		}
	}
}
