// Package cmd provides CLI command implementations
package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Flags for annotate command
	reportFile   string
	uniprotFiles []string
	outputFile   string
	dbFile       string
)

// logger is the diagnostic stream; output rows never go through it.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

var rootCmd = &cobra.Command{
	Use:   "peptmm",
	Short: "peptmm - peptide transmembrane-region annotation tool",
	Long: `peptmm joins a ProteinProphet identification report (prot.xml or its
tab-delimited export) with UniProtKB flat files and annotates every
identified peptide with its overlap of annotated transmembrane regions.

The report is re-emitted in its own shape with appended annotation columns:
- per protein: length, residues covered by peptides, transmembrane region
  count, transmembrane residues and their coverage
- per peptide: length and transmembrane residue overlap`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(summarizeCmd)

	// Annotate command flags
	annotateCmd.Flags().StringVarP(&reportFile, "in", "i", "", "ProteinProphet report, prot.xml or prot.xls, may be gzipped (required)")
	annotateCmd.Flags().StringArrayVarP(&uniprotFiles, "up", "u", nil, "UniProt knowledgebase flat file, may be gzipped; repeatable (required)")
	annotateCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Annotated report path (default: stdout)")
	annotateCmd.Flags().StringVar(&dbFile, "db", "", "Optional SQLite results database to create")

	annotateCmd.MarkFlagRequired("in")
	annotateCmd.MarkFlagRequired("up")
}
