package tsv

import (
	"bytes"
	"testing"
)

func TestWriteRow(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	rows := [][]string{
		{"a", "b", "c"},
		{"1", "", "3"}, // empty fields are preserved, not collapsed
		{"only"},
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			t.Fatalf("WriteRow(%v): %v", row, err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := "a\tb\tc\n1\t\t3\nonly\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
