package duckdb

import (
	"database/sql/driver"
	"fmt"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
	"github.com/manuelcorpas/pharmxd/internal/genotype"
)

// WriteSamples loads the calls of each sample into sample_calls. Gene
// symbols come from cat; variants it does not list get an empty gene.
func (s *Store) WriteSamples(samples []*genotype.Sample, cat *catalog.Catalog) error {
	var rows [][]driver.Value
	for _, smp := range samples {
		for _, id := range smp.Calls.IDs() {
			gt, _ := smp.Calls.Get(id)
			var gene string
			if e, ok := cat.Lookup(id); ok {
				gene = e.Gene
			}
			rows = append(rows, []driver.Value{smp.SampleID, smp.SourceRef, id, gene, gt})
		}
	}
	if err := s.appendRows("sample_calls", rows); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return nil
}

// SamplesWithGenotype returns the IDs of samples carrying genotype at
// variantID, sorted.
func (s *Store) SamplesWithGenotype(variantID, genotype string) ([]string, error) {
	ids, err := s.queryStrings(`SELECT sample_id FROM sample_calls
		WHERE variant_id=? AND genotype=? ORDER BY sample_id`, variantID, genotype)
	if err != nil {
		return nil, fmt.Errorf("query samples with genotype: %w", err)
	}
	return ids, nil
}

// GenotypeCount is the number of samples sharing a genotype at one variant.
type GenotypeCount struct {
	Genotype string
	Samples  int64
}

// GenotypeCounts tallies genotypes observed at variantID, most frequent first.
func (s *Store) GenotypeCounts(variantID string) ([]GenotypeCount, error) {
	rows, err := s.db.Query(`SELECT genotype, COUNT(*) AS n FROM sample_calls
		WHERE variant_id=? GROUP BY genotype ORDER BY n DESC, genotype`, variantID)
	if err != nil {
		return nil, fmt.Errorf("query genotype counts: %w", err)
	}
	defer rows.Close()

	var out []GenotypeCount
	for rows.Next() {
		var c GenotypeCount
		if err := rows.Scan(&c.Genotype, &c.Samples); err != nil {
			return nil, fmt.Errorf("scan genotype count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genotype counts: %w", err)
	}
	return out, nil
}

// VariantCoverage returns how many samples have a call at each catalog
// variant. Variants never called report zero.
func (s *Store) VariantCoverage(cat *catalog.Catalog) (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT variant_id, COUNT(*) FROM sample_calls GROUP BY variant_id`)
	if err != nil {
		return nil, fmt.Errorf("query variant coverage: %w", err)
	}
	defer rows.Close()

	cov := make(map[string]int64, cat.Len())
	for _, id := range cat.IDs() {
		cov[id] = 0
	}
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan variant coverage: %w", err)
		}
		cov[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant coverage: %w", err)
	}
	return cov, nil
}
