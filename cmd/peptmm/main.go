// peptmm - peptide transmembrane-region annotation tool
package main

import (
	"fmt"
	"os"

	"github.com/omics-tools/peptmm/cmd/peptmm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
