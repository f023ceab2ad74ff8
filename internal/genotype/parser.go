// Package genotype extracts catalog variants from consumer genotype exports
// (23andMe, AncestryDNA, FTDNA, MyHeritage and similar flat files).
package genotype

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
)

// CommentMarker starts a header or comment line.
const CommentMarker = "#"

// LineKind classifies a raw genotype line.
type LineKind int

const (
	LineRecord LineKind = iota
	LineComment
	LineBlank
	LineMalformed
)

// Line holds the fields extracted from a record line.
type Line struct {
	VariantID string
	Genotype  string
	Delimiter rune // '\t' or ','
}

// Stats counts how the lines of one file were handled.
type Stats struct {
	Lines     int
	Comments  int
	Blank     int
	Malformed int
	Records   int
	Matched   int
}

// ParseLine extracts the variant ID (field 0) and genotype (field 3) from a
// line. Tab-delimited parsing is tried first; comma-delimited parsing only
// when that yields fewer than four fields and the line contains a comma.
func ParseLine(raw string) (Line, LineKind) {
	if strings.HasPrefix(raw, CommentMarker) {
		return Line{}, LineComment
	}
	if !utf8.ValidString(raw) {
		return Line{}, LineMalformed
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Line{}, LineBlank
	}

	if fields := strings.Split(trimmed, "\t"); len(fields) >= 4 {
		return Line{VariantID: fields[0], Genotype: fields[3], Delimiter: '\t'}, LineRecord
	}
	if strings.Contains(raw, ",") {
		if fields := strings.Split(trimmed, ","); len(fields) >= 4 {
			return Line{VariantID: fields[0], Genotype: fields[3], Delimiter: ','}, LineRecord
		}
	}

	return Line{}, LineMalformed
}

// Extract reads a genotype file and returns the calls for catalog variants.
// Malformed lines are skipped. If the reader fails, the calls gathered so
// far are returned together with the error and the interrupted line is
// dropped.
func Extract(r io.Reader, cat *catalog.Catalog) (*Calls, Stats, error) {
	calls := NewCalls()
	var stats Stats

	reader := bufio.NewReader(r)
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return calls, stats, fmt.Errorf("read genotype line %d: %w", stats.Lines+1, err)
		}
		if len(raw) > 0 {
			stats.Lines++
			line, kind := ParseLine(raw)
			switch kind {
			case LineComment:
				stats.Comments++
			case LineBlank:
				stats.Blank++
			case LineMalformed:
				stats.Malformed++
			case LineRecord:
				stats.Records++
				if cat.Contains(line.VariantID) {
					calls.Set(line.VariantID, line.Genotype)
					stats.Matched++
				}
			}
		}
		if err == io.EOF {
			break
		}
	}

	return calls, stats, nil
}
