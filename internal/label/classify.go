package label

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label sections scanned for pharmacogenomic content, in scan order.
var Sections = []string{
	"clinical_pharmacology",
	"drug_interactions",
	"warnings_and_cautions",
	"warnings",
	"precautions",
	"dosage_and_administration",
	"use_in_specific_populations",
}

// Named non-CYP pharmacogenes.
var pgxGenes = []string{"VKORC1", "SLCO1B1", "DPYD", "TPMT", "UGT1A1"}

// Keywords in match order: gene tokens first, then phenotype and
// terminology phrases.
var Keywords = []string{
	"CYP2D6", "CYP2C19", "CYP2C9", "CYP3A4", "CYP3A5",
	"VKORC1", "SLCO1B1", "DPYD", "TPMT", "UGT1A1",
	"poor metabolizer", "intermediate metabolizer", "extensive metabolizer",
	"ultrarapid metabolizer", "pharmacogenomic", "pharmacogenetic",
	"genetic polymorphism", "genotype", "phenotype",
}

type keyword struct {
	text      string
	lower     string
	gene      bool
	phenotype bool
}

var keywordTable = buildKeywordTable(Keywords)

func buildKeywordTable(words []string) []keyword {
	lower := cases.Lower(language.Und)
	table := make([]keyword, len(words))
	for i, w := range words {
		lw := lower.String(w)
		table[i] = keyword{
			text:      w,
			lower:     lw,
			gene:      isGeneKeyword(w),
			phenotype: strings.Contains(lw, "metabolizer"),
		}
	}
	return table
}

func isGeneKeyword(w string) bool {
	if strings.HasPrefix(w, "CYP") {
		return true
	}
	for _, g := range pgxGenes {
		if w == g {
			return true
		}
	}
	return false
}

// Record is the label text of one drug: the sub-records of its primary
// source, each mapping section name to text.
type Record struct {
	DrugName string
	Results  []Result
}

// Relevance summarizes the pharmacogenomic content found in a label.
type Relevance struct {
	HasPGx     bool     `json:"has_pharmacogenomics"`
	Sections   []string `json:"pgx_sections"`
	Genes      []string `json:"mentioned_genes"`
	Phenotypes []string `json:"mentioned_metabolizers"`
}

// orderedSet keeps first-seen order without duplicates.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{items: []string{}, seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

// Classify scans the recognized sections of every sub-record for PGx
// keywords (case-insensitive substring match).
//
// Gene and phenotype membership are evaluated independently per keyword, so a
// keyword could land in both Genes and Phenotypes. The current tables never
// trigger this; the overlap is left unresolved.
func Classify(rec Record) Relevance {
	lower := cases.Lower(language.Und)
	sections := newOrderedSet()
	genes := newOrderedSet()
	phenotypes := newOrderedSet()

	for _, r := range rec.Results {
		for _, name := range Sections {
			text, ok := r.Sections[name]
			if !ok {
				continue
			}
			textLower := lower.String(text)

			for _, kw := range keywordTable {
				if !strings.Contains(textLower, kw.lower) {
					continue
				}
				sections.add(name)
				if kw.gene {
					genes.add(kw.text)
				}
				if kw.phenotype {
					phenotypes.add(kw.text)
				}
			}
		}
	}

	return Relevance{
		HasPGx:     len(sections.items) > 0,
		Sections:   sections.items,
		Genes:      genes.items,
		Phenotypes: phenotypes.items,
	}
}
