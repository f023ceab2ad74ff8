package duckdb

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"

	"github.com/manuelcorpas/pharmxd/internal/label"
)

// WriteLabelIndex loads a label index into label_drugs and label_genes.
// Drugs are stored in index order. An index decoded from JSON has no order,
// so its PGx-relevant drugs come first in their stored order, followed by
// the rest sorted by name.
func (s *Store) WriteLabelIndex(idx *label.Index) error {
	order := idx.Order
	if len(order) == 0 {
		order = decodedOrder(idx)
	}

	drugRows := make([][]driver.Value, 0, len(order))
	for i, name := range order {
		d, ok := idx.Drugs[name]
		if !ok {
			continue
		}
		drugRows = append(drugRows, []driver.Value{
			name, int64(i),
			d.HasPrimarySource, d.HasSecondarySource, d.PGx.HasPGx,
			strings.Join(d.PGx.Sections, ","),
			strings.Join(d.PGx.Genes, ","),
			strings.Join(d.PGx.Phenotypes, ","),
			strings.Join(d.BrandNames, ","),
			strings.Join(d.Manufacturer, ","),
		})
	}
	if err := s.appendRows("label_drugs", drugRows); err != nil {
		return fmt.Errorf("write label drugs: %w", err)
	}

	var geneRows [][]driver.Value
	for _, gene := range idx.Genes() {
		for i, drug := range idx.ByGene[gene] {
			geneRows = append(geneRows, []driver.Value{gene, drug, int64(i)})
		}
	}
	if err := s.appendRows("label_genes", geneRows); err != nil {
		return fmt.Errorf("write label genes: %w", err)
	}
	return nil
}

func decodedOrder(idx *label.Index) []string {
	seen := make(map[string]bool, len(idx.Drugs))
	var order []string
	for _, name := range idx.PGxRelevant {
		if _, ok := idx.Drugs[name]; ok && !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	var rest []string
	for name := range idx.Drugs {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// DrugsForGene returns the drugs whose label mentions gene, in index order.
func (s *Store) DrugsForGene(gene string) ([]string, error) {
	drugs, err := s.queryStrings(`SELECT drug FROM label_genes WHERE gene=? ORDER BY ord`, strings.ToUpper(gene))
	if err != nil {
		return nil, fmt.Errorf("query drugs for gene: %w", err)
	}
	return drugs, nil
}

// PGxRelevantDrugs returns the drugs flagged as pharmacogenomically relevant.
func (s *Store) PGxRelevantDrugs() ([]string, error) {
	drugs, err := s.queryStrings(`SELECT name FROM label_drugs WHERE has_pgx ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("query pgx drugs: %w", err)
	}
	return drugs, nil
}

// GeneDrugCount is the number of labels mentioning a gene.
type GeneDrugCount struct {
	Gene  string
	Drugs int64
}

// GeneDrugCounts returns per-gene label counts, most mentioned first.
func (s *Store) GeneDrugCounts() ([]GeneDrugCount, error) {
	rows, err := s.db.Query(`SELECT gene, COUNT(*) AS n FROM label_genes GROUP BY gene ORDER BY n DESC, gene`)
	if err != nil {
		return nil, fmt.Errorf("query gene counts: %w", err)
	}
	defer rows.Close()

	var out []GeneDrugCount
	for rows.Next() {
		var c GeneDrugCount
		if err := rows.Scan(&c.Gene, &c.Drugs); err != nil {
			return nil, fmt.Errorf("scan gene count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gene counts: %w", err)
	}
	return out, nil
}
