// Package output writes curated samples, demo profiles and index documents.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/manuelcorpas/pharmxd/internal/curate"
)

// SampleColumns is the column header of a 23andMe-style genotype file.
var SampleColumns = []string{"rsid", "chromosome", "position", "genotype"}

// SampleWriter writes a curated sample as a 23andMe-style tab-delimited file.
// The chromosome column carries the gene symbol.
type SampleWriter struct {
	w *bufio.Writer
}

// NewSampleWriter creates a new sample writer.
func NewSampleWriter(w io.Writer) *SampleWriter {
	return &SampleWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes each preamble line as a comment, followed by the
// commented column header.
func (sw *SampleWriter) WriteHeader(preamble []string) error {
	for _, line := range preamble {
		if _, err := sw.w.WriteString("# " + line + "\n"); err != nil {
			return err
		}
	}
	_, err := sw.w.WriteString("# " + strings.Join(SampleColumns, "\t") + "\n")
	return err
}

// Write writes a single variant row.
func (sw *SampleWriter) Write(l curate.RenderedLine) error {
	values := []string{
		l.VariantID,
		l.Gene,
		strconv.Itoa(l.Position),
		l.Genotype,
	}
	_, err := sw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (sw *SampleWriter) Flush() error {
	return sw.w.Flush()
}

// SamplePreamble returns the header comment lines of a curated sample file.
func SamplePreamble(cs *curate.CuratedSample, generated time.Time) []string {
	return []string{
		"PharmXD Test Sample",
		"Source: openSNP via GenomePrep (CC0 public domain)",
		"Original file: " + cs.SourceRef,
		"Generated: " + generated.Format(time.RFC3339),
	}
}

// WriteSample writes a complete sample file: preamble, column header and
// one row per rendered line.
func WriteSample(w io.Writer, cs *curate.CuratedSample, preamble []string) error {
	sw := NewSampleWriter(w)
	if err := sw.WriteHeader(preamble); err != nil {
		return fmt.Errorf("write sample header: %w", err)
	}
	for _, l := range cs.Lines {
		if err := sw.Write(l); err != nil {
			return fmt.Errorf("write sample %s: %w", cs.OutputID, err)
		}
	}
	return sw.Flush()
}
