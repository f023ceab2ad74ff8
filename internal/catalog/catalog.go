// Package catalog provides the fixed table of pharmacogenomic variants that
// genotype files are reduced to.
package catalog

// Effect is the functional consequence of carrying a catalog allele.
type Effect string

// Functional effect values.
const (
	EffectNoFunction          Effect = "no_function"
	EffectDecreasedFunction   Effect = "decreased_function"
	EffectIncreasedFunction   Effect = "increased_function"
	EffectNormalFunction      Effect = "normal_function"
	EffectDecreasedExpression Effect = "decreased_expression"
	EffectTagVariant          Effect = "tag_variant"
)

// Valid reports whether e is one of the known effect values.
func (e Effect) Valid() bool {
	switch e {
	case EffectNoFunction, EffectDecreasedFunction, EffectIncreasedFunction,
		EffectNormalFunction, EffectDecreasedExpression, EffectTagVariant:
		return true
	}
	return false
}

// Entry describes a single catalog variant.
type Entry struct {
	VariantID string // rsID, unique key
	Gene      string // HGNC symbol, e.g. "CYP2C19"
	Allele    string // star allele or HGVS-like label, e.g. "*2"
	Effect    Effect
}

// Catalog is an immutable variant table keyed by variant ID.
// It is safe for concurrent use once constructed.
type Catalog struct {
	entries map[string]Entry
	order   []string
}

// New builds a catalog from entries. Later duplicates of a variant ID
// replace earlier ones but keep the first position.
func New(entries []Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if _, ok := c.entries[e.VariantID]; !ok {
			c.order = append(c.order, e.VariantID)
		}
		c.entries[e.VariantID] = e
	}
	return c
}

// Lookup returns the entry for a variant ID.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Contains reports whether id is a catalog variant.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.entries[id]
	return ok
}

// Len returns the number of variants in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// IDs returns variant IDs in catalog order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Genes returns the distinct gene symbols in first-seen catalog order.
func (c *Catalog) Genes() []string {
	seen := make(map[string]bool)
	var genes []string
	for _, id := range c.order {
		g := c.entries[id].Gene
		if !seen[g] {
			seen[g] = true
			genes = append(genes, g)
		}
	}
	return genes
}

// defaultEntries are key array-genotyped variants for the core pharmacogenes.
var defaultEntries = []Entry{
	// CYP2C19
	{"rs4244285", "CYP2C19", "*2", EffectNoFunction},
	{"rs4986893", "CYP2C19", "*3", EffectNoFunction},
	{"rs12248560", "CYP2C19", "*17", EffectIncreasedFunction},
	{"rs28399504", "CYP2C19", "*4", EffectNoFunction},

	// CYP2D6
	{"rs3892097", "CYP2D6", "*4", EffectNoFunction},
	{"rs5030655", "CYP2D6", "*6", EffectNoFunction},
	{"rs16947", "CYP2D6", "*2", EffectNormalFunction},
	{"rs1065852", "CYP2D6", "*10/*4", EffectDecreasedFunction},
	{"rs28371725", "CYP2D6", "*41", EffectDecreasedFunction},

	// CYP2C9
	{"rs1799853", "CYP2C9", "*2", EffectDecreasedFunction},
	{"rs1057910", "CYP2C9", "*3", EffectDecreasedFunction},

	// VKORC1
	{"rs9923231", "VKORC1", "-1639G>A", EffectDecreasedExpression},

	// SLCO1B1
	{"rs4149056", "SLCO1B1", "*5", EffectDecreasedFunction},

	// DPYD
	{"rs3918290", "DPYD", "*2A", EffectNoFunction},
	{"rs55886062", "DPYD", "*13", EffectNoFunction},
	{"rs67376798", "DPYD", "D949V", EffectDecreasedFunction},

	// TPMT
	{"rs1800460", "TPMT", "*3B", EffectNoFunction},
	{"rs1142345", "TPMT", "*3C", EffectNoFunction},
	{"rs1800462", "TPMT", "*2", EffectNoFunction},

	// UGT1A1: rs8175347 (the *28 TA repeat) is not callable from arrays,
	// rs887829 (*80) tags it.
	{"rs887829", "UGT1A1", "*80", EffectTagVariant},
}

var defaultCatalog = New(defaultEntries)

// Default returns the built-in catalog. The returned value is shared and
// must not be modified.
func Default() *Catalog {
	return defaultCatalog
}
