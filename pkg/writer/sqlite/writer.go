// Package sqlite persists annotation results to a SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/omics-tools/peptmm/pkg/core"
)

// Date format for RunTable (ISO 8601).
const runDateFormat = "2006-01-02 15:04:05"

// Writer handles writing match results to a SQLite database file.
type Writer struct {
	db           *sql.DB
	outputPath   string
	proteinStmt  *sql.Stmt
	peptideStmt  *sql.Stmt
	peptideID    int
	proteinCount int
}

// NewWriter creates the database file and its schema.
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema.
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ProteinTable (
		Accession TEXT PRIMARY KEY,
		Length INTEGER,
		TmRegionCount INTEGER,
		TmResidues INTEGER,
		CoveredResidues INTEGER,
		CoveredTmResidues INTEGER
	);

	CREATE TABLE IF NOT EXISTS PeptideTable (
		PeptideId INTEGER PRIMARY KEY,
		Accession TEXT REFERENCES ProteinTable(Accession),
		Sequence TEXT,
		Length INTEGER,
		TmOverlap INTEGER
	);

	CREATE TABLE IF NOT EXISTS RunTable (
		CreationDate TEXT,
		ProteinsWritten INTEGER,
		PeptidesWritten INTEGER
	);
	`

	if _, err := w.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// prepareStatements prepares SQL statements for batch insertion.
func (w *Writer) prepareStatements() error {
	var err error

	w.proteinStmt, err = w.db.Prepare(`
		INSERT INTO ProteinTable (
			Accession, Length, TmRegionCount, TmResidues,
			CoveredResidues, CoveredTmResidues
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare protein statement: %w", err)
	}

	w.peptideStmt, err = w.db.Prepare(`
		INSERT INTO PeptideTable (
			PeptideId, Accession, Sequence, Length, TmOverlap
		) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare peptide statement: %w", err)
	}

	return nil
}

// WriteProtein writes one protein's aggregate and its localized peptides.
func (w *Writer) WriteProtein(acc string, res *core.ProteinResult) error {
	_, err := w.proteinStmt.Exec(
		acc,
		res.Length,
		res.TMRegionCount,
		res.TMResidues,
		res.Covered,
		res.CoveredTM,
	)
	if err != nil {
		return fmt.Errorf("failed to insert protein %s: %w", acc, err)
	}
	w.proteinCount++

	// deterministic peptide ids
	peps := make([]string, 0, len(res.Peptides))
	for pep := range res.Peptides {
		peps = append(peps, pep)
	}
	sort.Strings(peps)

	for _, pep := range peps {
		m := res.Peptides[pep]
		w.peptideID++
		if _, err := w.peptideStmt.Exec(w.peptideID, acc, pep, m.Length, m.TMOverlap); err != nil {
			return fmt.Errorf("failed to insert peptide %s of %s: %w", pep, acc, err)
		}
	}
	return nil
}

// Finalize writes the run summary row and closes the database.
func (w *Writer) Finalize() error {
	_, err := w.db.Exec(`
		INSERT INTO RunTable (CreationDate, ProteinsWritten, PeptidesWritten)
		VALUES (?, ?, ?)
	`, time.Now().Format(runDateFormat), w.proteinCount, w.peptideID)
	if err != nil {
		return fmt.Errorf("failed to insert run summary: %w", err)
	}
	return w.Close()
}

// Close releases the prepared statements and closes the database without
// writing the run summary. Use Finalize on the success path.
func (w *Writer) Close() error {
	if w.proteinStmt != nil {
		w.proteinStmt.Close()
		w.proteinStmt = nil
	}
	if w.peptideStmt != nil {
		w.peptideStmt.Close()
		w.peptideStmt = nil
	}
	if w.db == nil {
		return nil
	}
	db := w.db
	w.db = nil
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
