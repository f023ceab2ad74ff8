// Package curate selects a small, well-covered subset of extracted genotype
// samples and renders them as reference test files.
package curate

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
	"github.com/manuelcorpas/pharmxd/internal/genotype"
)

// WellCoveredThreshold is the minimum number of catalog variants a sample
// must carry to be preferred during selection.
const WellCoveredThreshold = 10

// DefaultTarget is the corpus size produced when none is configured.
const DefaultTarget = 10

const (
	SummarySource  = "openSNP via GenomePrep"
	SummaryLicense = "CC0 (Public Domain)"

	// UnknownGene labels a rendered variant missing from the catalog.
	UnknownGene = "Unknown"
)

// WarningKind identifies a non-fatal curation condition.
type WarningKind int

const (
	// InsufficientCoverage: fewer well-covered samples than requested, so
	// the first samples of the full input were used instead.
	InsufficientCoverage WarningKind = iota
	// Shortfall: fewer samples were curated than requested.
	Shortfall
)

func (k WarningKind) String() string {
	switch k {
	case InsufficientCoverage:
		return "insufficient_coverage"
	case Shortfall:
		return "shortfall"
	}
	return fmt.Sprintf("WarningKind(%d)", int(k))
}

// Warning reports a curation condition to the caller.
type Warning struct {
	Kind        WarningKind
	Target      int
	Available   int
	WellCovered int
	Selected    int
}

func (w Warning) String() string {
	switch w.Kind {
	case InsufficientCoverage:
		return fmt.Sprintf("only %d of %d samples have at least %d catalog variants (wanted %d)",
			w.WellCovered, w.Available, WellCoveredThreshold, w.Target)
	case Shortfall:
		return fmt.Sprintf("curated %d samples, wanted %d", w.Selected, w.Target)
	}
	return w.Kind.String()
}

// RenderedLine is one variant row of a curated sample file.
type RenderedLine struct {
	VariantID string
	Gene      string
	Position  int
	Genotype  string
}

// CuratedSample is a selected sample ready to be written.
type CuratedSample struct {
	OutputID       string
	FileRef        string
	OriginSampleID string
	SourceRef      string
	VariantCount   int
	Lines          []RenderedLine
}

// SummaryEntry describes one curated sample in the summary index.
type SummaryEntry struct {
	File         string `json:"file"`
	OriginalID   string `json:"original_id"`
	VariantCount int    `json:"pgx_snp_count"`
}

// SummaryMeta is the header of the summary index.
type SummaryMeta struct {
	Created            time.Time `json:"created"`
	Source             string    `json:"source"`
	License            string    `json:"license"`
	NumSamples         int       `json:"num_samples"`
	RunID              string    `json:"run_id"`
	MeanVariantCount   float64   `json:"mean_pgx_snp_count"`
	MedianVariantCount float64   `json:"median_pgx_snp_count"`
}

// SummaryIndex lists the curated samples in output order.
type SummaryIndex struct {
	Meta    SummaryMeta    `json:"meta"`
	Samples []SummaryEntry `json:"samples"`
}

// Result is the outcome of Curate. Samples and Summary.Samples correspond
// one to one.
type Result struct {
	Samples  []*CuratedSample
	Summary  SummaryIndex
	Warnings []Warning
}

type config struct {
	rng    *rand.Rand
	logger *zap.Logger
	now    func() time.Time
	runID  string
}

// Option configures Curate.
type Option func(*config)

// WithRand sets the random source used for selection.
func WithRand(r *rand.Rand) Option {
	return func(c *config) { c.rng = r }
}

// WithSeed makes selection reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithLogger sets the logger for curation warnings.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithClock sets the time source for the summary timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithRunID sets the run identifier recorded in the summary.
func WithRunID(id string) Option {
	return func(c *config) { c.runID = id }
}

// Curate picks target samples and renders them.
//
// If at least target samples are well covered, target of them are drawn
// uniformly at random without replacement. Otherwise the first target
// samples of the full input are used in input order, ignoring coverage.
// Curate never fails; scarce input is reported through Result.Warnings.
func Curate(samples []*genotype.Sample, target int, cat *catalog.Catalog, opts ...Option) Result {
	cfg := config{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}
	if target < 0 {
		target = 0
	}

	var res Result

	var well []*genotype.Sample
	for _, s := range samples {
		if s.VariantCount >= WellCoveredThreshold {
			well = append(well, s)
		}
	}

	var selected []*genotype.Sample
	if len(well) >= target {
		selected = draw(cfg.rng, well, target)
	} else {
		w := Warning{Kind: InsufficientCoverage, Target: target, Available: len(samples), WellCovered: len(well)}
		res.Warnings = append(res.Warnings, w)
		cfg.logger.Warn(w.String(),
			zap.Int("well_covered", len(well)),
			zap.Int("available", len(samples)),
			zap.Int("target", target))
		selected = samples[:min(target, len(samples))]
	}

	if len(selected) < target {
		w := Warning{Kind: Shortfall, Target: target, Available: len(samples), WellCovered: len(well), Selected: len(selected)}
		res.Warnings = append(res.Warnings, w)
		cfg.logger.Warn(w.String(), zap.Int("selected", len(selected)), zap.Int("target", target))
	}

	res.Samples = make([]*CuratedSample, 0, len(selected))
	res.Summary = SummaryIndex{
		Meta: SummaryMeta{
			Created:    cfg.now(),
			Source:     SummarySource,
			License:    SummaryLicense,
			NumSamples: len(selected),
			RunID:      cfg.runID,
		},
		Samples: make([]SummaryEntry, 0, len(selected)),
	}

	counts := make([]int, 0, len(selected))
	for i, s := range selected {
		id := fmt.Sprintf("sample_%02d", i+1)
		cs := Render(s, cat)
		cs.OutputID = id
		cs.FileRef = id + ".txt"
		res.Samples = append(res.Samples, cs)
		res.Summary.Samples = append(res.Summary.Samples, SummaryEntry{
			File:         cs.FileRef,
			OriginalID:   s.SampleID,
			VariantCount: s.VariantCount,
		})
		counts = append(counts, s.VariantCount)
	}

	data := stats.LoadRawData(counts)
	if data.Len() > 0 {
		res.Summary.Meta.MeanVariantCount, _ = data.Mean()
		res.Summary.Meta.MedianVariantCount, _ = data.Median()
	}

	return res
}

// draw returns n members of pool chosen uniformly without replacement.
// pool is not modified.
func draw(rng *rand.Rand, pool []*genotype.Sample, n int) []*genotype.Sample {
	p := append([]*genotype.Sample(nil), pool...)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(p)-i)
		p[i], p[j] = p[j], p[i]
	}
	return p[:n]
}

// Render turns a sample into one line per called variant, in call order.
// Positions are always 0.
func Render(s *genotype.Sample, cat *catalog.Catalog) *CuratedSample {
	cs := &CuratedSample{
		OriginSampleID: s.SampleID,
		SourceRef:      s.SourceRef,
		VariantCount:   s.VariantCount,
	}
	for _, id := range s.Calls.IDs() {
		gt, _ := s.Calls.Get(id)
		gene := UnknownGene
		if e, ok := cat.Lookup(id); ok {
			gene = e.Gene
		}
		cs.Lines = append(cs.Lines, RenderedLine{VariantID: id, Gene: gene, Genotype: gt})
	}
	return cs
}
