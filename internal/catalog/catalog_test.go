package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 20, c.Len())

	e, ok := c.Lookup("rs4244285")
	require.True(t, ok)
	assert.Equal(t, Entry{VariantID: "rs4244285", Gene: "CYP2C19", Allele: "*2", Effect: EffectNoFunction}, e)

	e, ok = c.Lookup("rs887829")
	require.True(t, ok)
	assert.Equal(t, "UGT1A1", e.Gene)
	assert.Equal(t, EffectTagVariant, e.Effect)

	assert.False(t, c.Contains("rs0"))
	assert.Equal(t, []string{"CYP2C19", "CYP2D6", "CYP2C9", "VKORC1", "SLCO1B1", "DPYD", "TPMT", "UGT1A1"}, c.Genes())
}

func TestDefault_AllEffectsValid(t *testing.T) {
	c := Default()
	for _, id := range c.IDs() {
		e, _ := c.Lookup(id)
		assert.True(t, e.Effect.Valid(), "%s has invalid effect %q", id, e.Effect)
	}
}

func TestIDs_ReturnsCopy(t *testing.T) {
	c := New([]Entry{{VariantID: "rs1", Gene: "G"}})
	ids := c.IDs()
	ids[0] = "changed"
	assert.Equal(t, []string{"rs1"}, c.IDs())
}

func TestNew_DuplicateKeepsPosition(t *testing.T) {
	c := New([]Entry{
		{VariantID: "rs1", Gene: "A"},
		{VariantID: "rs2", Gene: "B"},
		{VariantID: "rs1", Gene: "C"},
	})
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"rs1", "rs2"}, c.IDs())
	e, _ := c.Lookup("rs1")
	assert.Equal(t, "C", e.Gene)
}

func TestParseEffect(t *testing.T) {
	tests := []struct {
		in   string
		want Effect
		ok   bool
	}{
		{"no_function", EffectNoFunction, true},
		{" Decreased_Function ", EffectDecreasedFunction, true},
		{"tag_for_UGT1A1*28", EffectTagVariant, true},
		{"tag_variant", EffectTagVariant, true},
		{"loss", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEffect(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	input := "variant_id\tgene\tallele\teffect\n" +
		"rs4244285\tCYP2C19\t*2\tno_function\n" +
		"# comment rows are ignored\n" +
		"rs887829\tUGT1A1\t*80\ttag_for_UGT1A1*28\n"

	c, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	e, ok := c.Lookup("rs887829")
	require.True(t, ok)
	assert.Equal(t, EffectTagVariant, e.Effect)
	assert.Equal(t, "*80", e.Allele)
}

func TestParse_UnknownEffect(t *testing.T) {
	input := "variant_id\tgene\tallele\teffect\n" +
		"rs1\tCYP2D6\t*4\tbroken\n"

	_, err := Parse(strings.NewReader(input))
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
}

func TestParse_EmptyGene(t *testing.T) {
	input := "variant_id\tgene\tallele\teffect\n" +
		"rs1\t\t*4\tno_function\n"

	_, err := Parse(strings.NewReader(input))
	assert.Error(t, err)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load("/nonexistent/catalog.tsv")
	assert.Error(t, err)
}
