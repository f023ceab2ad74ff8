package genotype

import (
	"path"
	"strings"
)

// Sample is the catalog variant map extracted from one genotype file.
type Sample struct {
	SampleID     string `json:"sample_id"`
	SourceRef    string `json:"source_file"`
	Calls        *Calls `json:"pgx_snps"`
	VariantCount int    `json:"snp_count"`
}

// NewSample builds a Sample; VariantCount is the number of calls.
func NewSample(id, source string, calls *Calls) *Sample {
	if calls == nil {
		calls = NewCalls()
	}
	return &Sample{
		SampleID:     id,
		SourceRef:    source,
		Calls:        calls,
		VariantCount: calls.Len(),
	}
}

var compressionExts = []string{".gz", ".xz", ".bz2", ".zip"}

// SampleIDFromName derives a sample ID from a file or archive member name:
// the base name without compression suffix and without its last extension.
func SampleIDFromName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	for _, ext := range compressionExts {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// IsGenotypeFileName reports whether name looks like a genotype export:
// a .txt or .csv file, optionally compressed, or a zip archive.
func IsGenotypeFileName(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, "/") {
		return false
	}
	if strings.HasSuffix(lower, ".zip") {
		return true
	}
	for _, ext := range compressionExts {
		if strings.HasSuffix(lower, ext) {
			lower = lower[:len(lower)-len(ext)]
			break
		}
	}
	return strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".csv")
}
