// Package cmd provides the annotation pipeline implementation
package cmd

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omics-tools/peptmm/pkg/core"
	"github.com/omics-tools/peptmm/pkg/reader/report"
	"github.com/omics-tools/peptmm/pkg/reader/uniprot"
	"github.com/omics-tools/peptmm/pkg/writer/sqlite"
	"github.com/omics-tools/peptmm/pkg/writer/tsv"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Annotate report peptides with transmembrane-region overlap",
	Long: `Annotate a ProteinProphet report with transmembrane-region overlap per
peptide and coverage aggregates per protein.

The report is read twice: a first pass collects the distinct peptides per
protein, then the UniProt files are scanned once for the sequences and
TRANSMEM features of those proteins, and a second pass re-emits the report
with the annotation columns appended.

Examples:
  # protXML report against SwissProt
  peptmm annotate --in interact.prot.xml --up uniprot_sprot.dat.gz > annotated.tsv

  # tab-delimited export against both sequence divisions, with a results db
  peptmm annotate --in interact.prot.xls --up uniprot_sprot.dat.gz --up uniprot_trembl.dat.gz \
    --out annotated.tsv --db results.db`,
	RunE: runAnnotate,
}

// matchCounters accumulates the sequence-database scan statistics.
type matchCounters struct {
	proteins   int // database entries matching a requested accession
	tmProteins int // matched accessions carrying at least one TM region
	peptides   int // peptides localized in their protein sequence
	tmPeptides int // localized peptides overlapping a TM region
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	// Configuration errors are fatal before any parsing begins
	inputs := append([]string{reportFile}, uniprotFiles...)
	for _, path := range inputs {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("input file does not exist: %s", path)
		}
	}
	if dbFile != "" {
		if _, err := os.Stat(dbFile); err == nil {
			return fmt.Errorf("results database already exists: %s", dbFile)
		}
	}

	// Pass 1: index the report
	logger.Infof("reading input file %s", filepath.Base(reportFile))
	in, err := openInput(reportFile)
	if err != nil {
		return err
	}
	index, shape, err := report.BuildIndex(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("failed to index report: %w", err)
	}
	logger.Infof("loaded %d entries corresponding to a total of %d proteins with %d peptides",
		index.Entries, len(index.Peptides), index.Distinct)

	// Sequence-database scan
	store := core.NewResultStore()
	var c matchCounters
	for _, path := range uniprotFiles {
		logger.Infof("looking for protein sequences and transmembrane regions in %s", filepath.Base(path))
		f, err := openInput(path)
		if err != nil {
			return err
		}
		err = scanSequenceDB(f, index, store, &c)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", path, err)
		}
	}
	logger.Infof("could match %d proteins (%d of them having TM regions) with %d peptides (%d of them intersecting with a TM region)",
		c.proteins, c.tmProteins, c.peptides, c.tmPeptides)

	if dbFile != "" {
		if err := writeResultsDB(store); err != nil {
			return err
		}
	}

	// Pass 2: re-emit the report with annotations
	logger.Info("writing output file...")
	in, err = openInput(reportFile)
	if err != nil {
		return err
	}
	defer in.Close()

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()
	}
	w := tsv.NewWriter(out)
	if err := report.Annotate(in, shape, store, w.WriteRow); err != nil {
		return fmt.Errorf("failed to annotate report: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("done")
	return nil
}

// scanSequenceDB streams one sequence-database file, matching every entry
// that satisfies a requested accession from the report index.
func scanSequenceDB(r io.Reader, index *report.Index, store *core.ResultStore, c *matchCounters) error {
	rd := uniprot.NewReader(r, func(acc string) bool {
		return index.Has(core.NormalizeAccession(acc))
	})

	for rd.Next() {
		entry := rd.Entry()
		features := &core.ProteinFeatures{
			Sequence:      core.NormalizeSequence(entry.Sequence),
			TMPositions:   entry.TMPositions,
			TMRegionCount: entry.TMRegions,
		}
		c.proteins++

		// one entry may satisfy several requested accessions, e.g. isoforms
		// folding to the same id
		for _, raw := range entry.Accessions {
			acc := core.NormalizeAccession(raw)
			peptides, ok := index.Peptides[acc]
			if !ok {
				continue
			}
			if features.TMRegionCount > 0 {
				c.tmProteins++
			}

			res := core.Match(features, peptides)
			for _, pep := range res.Unlocated {
				logger.Warnf("could not find peptide %s in protein %s, skipping this peptide...", pep, acc)
			}
			c.peptides += len(res.Matches)
			for _, m := range res.Matches {
				if m.TMOverlap > 0 {
					c.tmPeptides++
				}
			}

			// recurring accessions overwrite: last entry wins
			store.Put(acc, res.Result(features))
		}
	}
	return rd.Err()
}

// writeResultsDB persists the complete result store to a SQLite database.
func writeResultsDB(store *core.ResultStore) error {
	dbw, err := sqlite.NewWriter(dbFile)
	if err != nil {
		return fmt.Errorf("failed to create results database: %w", err)
	}
	for _, acc := range store.Accessions() {
		res, _ := store.Get(acc)
		if err := dbw.WriteProtein(acc, res); err != nil {
			dbw.Close()
			return err
		}
	}
	if err := dbw.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize results database: %w", err)
	}
	logger.Infof("wrote results database %s", dbFile)
	return nil
}

// openInput opens a possibly gzipped input file; gzip is detected by the
// .gz/.tgz name suffix, matching how these archives are distributed.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	if strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".tgz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		return &gzipReadCloser{gz: gz, f: f}, nil
	}
	return f, nil
}

// gzipReadCloser closes both the gzip stream and the underlying file.
type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gz.Read(p)
}

func (g *gzipReadCloser) Close() error {
	if err := g.gz.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}
