// Package uniprot provides a streaming reader for UniProtKB flat-file
// records, recovering per entry the accession list, the assembled residue
// sequence, and the transmembrane feature positions.
package uniprot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	accessionPrefix = "AC "
	transmemPrefix  = "FT   TRANSMEM "
	sequenceIndent  = "     " // sequence data lines carry a fixed 5-space indent
	terminator      = "//"
)

// Entry is one database record of interest.
type Entry struct {
	Accessions  []string         // accessions listed on the entry's first AC line
	Sequence    string           // raw residue string, embedded spaces stripped
	TMPositions map[int]struct{} // 1-based positions inside any TRANSMEM feature
	TMRegions   int              // distinct TRANSMEM features
}

// Reader provides streaming access to flat-file entries. When Keep is set,
// entries whose accession list contains no accepted accession are consumed
// without accumulating sequence or feature data.
type Reader struct {
	scanner *bufio.Scanner
	keep    func(accession string) bool
	entry   *Entry
	lineNum int
	err     error
}

// NewReader creates a reader over r. keep may be nil to accept every entry.
func NewReader(r io.Reader, keep func(string) bool) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{scanner: sc, keep: keep}
}

// Next advances to the next entry of interest. Returns false at end of
// input or on error.
func (r *Reader) Next() bool {
	r.entry = nil
	for {
		entry, err := r.readEntry()
		if err != nil {
			if err != io.EOF {
				r.err = err
			}
			return false
		}
		if entry != nil {
			r.entry = entry
			return true
		}
		// entry rejected by keep, scan on
	}
}

// Entry returns the current entry.
func (r *Reader) Entry() *Entry {
	return r.entry
}

// Err returns any error encountered during reading.
func (r *Reader) Err() error {
	return r.err
}

// readEntry scans forward to the next AC line and consumes the record it
// opens. Rejected records return (nil, nil) after being consumed through
// their terminator; only the record's first AC line selects accessions.
func (r *Reader) readEntry() (*Entry, error) {
	for r.scanner.Scan() {
		r.lineNum++
		line := r.scanner.Text()
		if !strings.HasPrefix(line, accessionPrefix) {
			continue
		}

		accessions := splitAccessions(line)
		wanted := r.keep == nil
		if !wanted {
			for _, acc := range accessions {
				if r.keep(acc) {
					wanted = true
					break
				}
			}
		}
		if !wanted {
			if err := r.skipEntry(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return r.parseEntry(accessions)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// parseEntry accumulates sequence and TRANSMEM features until the entry
// terminator. An entry cut off by end of input is a structural error.
func (r *Reader) parseEntry(accessions []string) (*Entry, error) {
	entry := &Entry{
		Accessions:  accessions,
		TMPositions: make(map[int]struct{}),
	}
	var seq strings.Builder

	for r.scanner.Scan() {
		r.lineNum++
		line := r.scanner.Text()
		switch {
		case line == terminator:
			entry.Sequence = seq.String()
			return entry, nil
		case strings.HasPrefix(line, sequenceIndent):
			seq.WriteString(strings.ReplaceAll(line, " ", ""))
		case strings.HasPrefix(line, transmemPrefix):
			from, to, err := parseTransmem(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			entry.TMRegions++
			for i := from; i <= to; i++ {
				entry.TMPositions[i] = struct{}{}
			}
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("line %d: unexpected end of file inside database entry", r.lineNum)
}

// skipEntry consumes an irrelevant record through its terminator. The file
// is read strictly line by line, so skipping still walks every line.
func (r *Reader) skipEntry() error {
	for r.scanner.Scan() {
		r.lineNum++
		if r.scanner.Text() == terminator {
			return nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("line %d: unexpected end of file inside database entry", r.lineNum)
}

// splitAccessions splits an AC line into its accession tokens.
func splitAccessions(line string) []string {
	body := strings.TrimPrefix(line, accessionPrefix)
	var accs []string
	for _, tok := range strings.Split(body, ";") {
		if tok = strings.TrimSpace(tok); tok != "" {
			accs = append(accs, tok)
		}
	}
	return accs
}

// parseTransmem extracts the inclusive residue range of a TRANSMEM feature
// line; start and end are the third and fourth whitespace-delimited tokens.
func parseTransmem(line string) (from, to int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return 0, 0, fmt.Errorf("malformed TRANSMEM feature %q", line)
	}
	if from, err = strconv.Atoi(fields[2]); err != nil {
		return 0, 0, fmt.Errorf("invalid TRANSMEM start in %q: %w", line, err)
	}
	if to, err = strconv.Atoi(fields[3]); err != nil {
		return 0, 0, fmt.Errorf("invalid TRANSMEM end in %q: %w", line, err)
	}
	return from, to, nil
}
