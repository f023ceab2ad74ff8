package label

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IndexSource names the sources an index is built from.
const IndexSource = "OpenFDA + DailyMed"

// DrugBundle pairs a drug name with its fetch bundle. A nil Bundle means the
// fetch produced nothing for the drug.
type DrugBundle struct {
	Drug   string
	Bundle *Bundle
}

// DrugEntry is the index record for one drug.
type DrugEntry struct {
	Name               string    `json:"name"`
	HasPrimarySource   bool      `json:"has_openfda"`
	HasSecondarySource bool      `json:"has_dailymed"`
	PGx                Relevance `json:"pgx_info"`
	// BrandNames and Manufacturer are nil when no result carries openfda
	// metadata.
	BrandNames   []string `json:"brand_names"`
	Manufacturer []string `json:"manufacturer"`
}

// IndexMeta describes an index build.
type IndexMeta struct {
	Created    time.Time `json:"created"`
	TotalDrugs int       `json:"total_drugs"`
	Source     string    `json:"source"`
	RunID      string    `json:"run_id"`
}

// Index cross-references drugs by gene and PGx relevance.
// It is not modified after Build returns.
type Index struct {
	Meta        IndexMeta             `json:"meta"`
	Drugs       map[string]*DrugEntry `json:"drugs"`
	ByGene      map[string][]string   `json:"by_gene"`
	PGxRelevant []string              `json:"pgx_relevant"`

	// Order lists drug names in build order.
	Order []string `json:"-"`
}

// Genes returns the indexed gene symbols in sorted order.
func (idx *Index) Genes() []string {
	genes := make([]string, 0, len(idx.ByGene))
	for g := range idx.ByGene {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes
}

type buildConfig struct {
	now    func() time.Time
	runID  string
	logger *zap.Logger
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithClock sets the clock used for the index creation time.
func WithClock(now func() time.Time) BuildOption {
	return func(c *buildConfig) { c.now = now }
}

// WithRunID sets the run identifier recorded in the index metadata.
func WithRunID(id string) BuildOption {
	return func(c *buildConfig) { c.runID = id }
}

// WithLogger sets the logger for skipped drugs.
func WithLogger(l *zap.Logger) BuildOption {
	return func(c *buildConfig) { c.logger = l }
}

// Build classifies each drug's primary-source label and aggregates the
// results. Drugs with a nil bundle get no entry at all; a bundle without a
// primary source still gets an entry with HasPGx false. Gene lists and the
// relevant list follow input order.
func Build(drugs []DrugBundle, opts ...BuildOption) *Index {
	cfg := buildConfig{
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.New().String()
	}

	idx := &Index{
		Meta: IndexMeta{
			Created: cfg.now(),
			Source:  IndexSource,
			RunID:   cfg.runID,
		},
		Drugs:       make(map[string]*DrugEntry),
		ByGene:      make(map[string][]string),
		PGxRelevant: []string{},
	}

	for _, db := range drugs {
		if db.Bundle == nil {
			cfg.logger.Debug("no bundle for drug", zap.String("drug", db.Drug))
			continue
		}
		if _, dup := idx.Drugs[db.Drug]; dup {
			cfg.logger.Warn("duplicate drug in input, keeping first", zap.String("drug", db.Drug))
			continue
		}

		entry := buildEntry(db.Drug, db.Bundle)
		idx.Drugs[db.Drug] = entry
		idx.Order = append(idx.Order, db.Drug)

		for _, gene := range entry.PGx.Genes {
			idx.ByGene[gene] = append(idx.ByGene[gene], db.Drug)
		}
		if entry.PGx.HasPGx {
			idx.PGxRelevant = append(idx.PGxRelevant, db.Drug)
		}
	}

	idx.Meta.TotalDrugs = len(idx.Drugs)
	return idx
}

func buildEntry(drug string, b *Bundle) *DrugEntry {
	entry := &DrugEntry{
		Name:               drug,
		HasPrimarySource:   b.Primary != nil,
		HasSecondarySource: b.Secondary != nil,
	}

	rec := Record{DrugName: drug}
	if b.Primary != nil {
		rec.Results = b.Primary.Results
		for _, r := range b.Primary.Results {
			if r.Meta != nil {
				entry.BrandNames = r.Meta.BrandNames
				entry.Manufacturer = r.Meta.Manufacturers
				break
			}
		}
	}
	entry.PGx = Classify(rec)

	return entry
}

// ReadIndex decodes an index document written by the labels index command.
// The decoded index has no Order.
func ReadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read label index: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode label index %s: %w", path, err)
	}
	return &idx, nil
}
