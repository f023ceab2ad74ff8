package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// row is one line of a catalog TSV.
type row struct {
	VariantID string `csv:"variant_id"`
	Gene      string `csv:"gene"`
	Allele    string `csv:"allele"`
	Effect    string `csv:"effect"`
}

// ParseError reports an invalid catalog row. Line counts the header as
// line 1 and does not count comment lines.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("catalog parse error at line %d: %s", e.Line, e.Message)
}

// ParseEffect converts a textual effect into an Effect. Free-form tag
// labels such as "tag_for_UGT1A1*28" map to EffectTagVariant.
func ParseEffect(s string) (Effect, bool) {
	e := Effect(strings.ToLower(strings.TrimSpace(s)))
	if e.Valid() {
		return e, true
	}
	if strings.HasPrefix(string(e), "tag_") {
		return EffectTagVariant, true
	}
	return "", false
}

// Load reads a tab-delimited catalog file with the header
// "variant_id gene allele effect".
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a tab-delimited catalog from r.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.Comment = '#'

	var rows []*row
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, r := range rows {
		line := i + 2 // header is line 1
		id := strings.TrimSpace(r.VariantID)
		if id == "" {
			return nil, &ParseError{Line: line, Message: "empty variant_id"}
		}
		gene := strings.TrimSpace(r.Gene)
		if gene == "" {
			return nil, &ParseError{Line: line, Message: fmt.Sprintf("empty gene for %s", id)}
		}
		effect, ok := ParseEffect(r.Effect)
		if !ok {
			return nil, &ParseError{Line: line, Message: fmt.Sprintf("unknown effect %q", r.Effect)}
		}
		entries = append(entries, Entry{
			VariantID: id,
			Gene:      gene,
			Allele:    strings.TrimSpace(r.Allele),
			Effect:    effect,
		})
	}

	return New(entries), nil
}
