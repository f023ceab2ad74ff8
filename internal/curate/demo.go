package curate

import (
	"github.com/manuelcorpas/pharmxd/internal/catalog"
	"github.com/manuelcorpas/pharmxd/internal/genotype"
)

// Demo is a fixed genotype profile used when no real samples are available.
type Demo struct {
	SampleID    string           `json:"sample_id"`
	Description string           `json:"description"`
	Profile     *genotype.Calls  `json:"pgx_profile"`
	Notes       []string         `json:"-"`
	Sample      *genotype.Sample `json:"-"`
}

// DemoSample returns the "demo_sarah" profile: CYP2C19 *1/*2, an
// intermediate metabolizer of clopidogrel, with wildtype calls elsewhere
// apart from CYP2C9 *2 and VKORC1 heterozygosity.
func DemoSample() *Demo {
	calls := genotype.CallsFromPairs(
		"rs4244285", "AG", // CYP2C19 *2 het
		"rs4986893", "GG",
		"rs12248560", "CC",
		"rs3892097", "CC",
		"rs16947", "GG",
		"rs1799853", "CT", // CYP2C9 *2 het
		"rs1057910", "AA",
		"rs9923231", "GA",
		"rs4149056", "TT",
		"rs3918290", "CC",
		"rs1800460", "CC",
		"rs1142345", "TT",
	)
	return &Demo{
		SampleID:    "demo_sarah",
		Description: "Demo patient: Sarah, 45yo, cardiac stent patient",
		Profile:     calls,
		Notes: []string{
			"PharmXD Demo Sample: Sarah",
			"45-year-old patient with recent cardiac stent",
			"CYP2C19: *1/*2 (Intermediate Metabolizer) - Important for clopidogrel",
		},
		Sample: genotype.NewSample("demo_sarah", "demo", calls),
	}
}

// Render renders the demo profile like any curated sample.
func (d *Demo) Render(cat *catalog.Catalog) *CuratedSample {
	cs := Render(d.Sample, cat)
	cs.OutputID = d.SampleID
	cs.FileRef = d.SampleID + ".txt"
	return cs
}
