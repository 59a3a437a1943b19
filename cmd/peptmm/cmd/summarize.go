package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omics-tools/peptmm/pkg/reader/report"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize an identification report",
	Long: `Detect the report shape and print the index statistics of the first
pass: peptide entries seen, distinct proteins, and distinct protein/peptide
pairs after normalization. No sequence database is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("input file does not exist: %s", path)
	}

	in, err := openInput(path)
	if err != nil {
		return err
	}
	defer in.Close()

	index, shape, err := report.BuildIndex(in)
	if err != nil {
		return fmt.Errorf("failed to index report: %w", err)
	}

	fmt.Printf("Shape: %s\n", shape)
	fmt.Printf("Peptide entries: %d\n", index.Entries)
	fmt.Printf("Distinct proteins: %d\n", len(index.Peptides))
	fmt.Printf("Distinct protein/peptide pairs: %d\n", index.Distinct)
	return nil
}
