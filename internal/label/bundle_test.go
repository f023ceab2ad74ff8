package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBundle(t *testing.T) {
	b, err := LoadBundle("testdata", "Clopidogrel")
	require.NoError(t, err)

	assert.Equal(t, "2026-01-17T10:00:00", b.DownloadedAt)
	assert.NotNil(t, b.Secondary)
	require.NotNil(t, b.Primary)
	require.Len(t, b.Primary.Results, 2)

	r := b.Primary.Results[0]
	assert.Equal(t,
		"Clopidogrel is a prodrug. CYP2C19 is involved in the formation of the active metabolite. Poor metabolizers have reduced exposure.",
		r.Sections["clinical_pharmacology"])
	require.NotNil(t, r.Meta)
	assert.Equal(t, []string{"Plavix"}, r.Meta.BrandNames)
	assert.NotContains(t, r.Sections, "openfda")
}

func TestDecodeBundle_NullSources(t *testing.T) {
	b, err := DecodeBundle([]byte(`{"openfda": null, "dailymed": null}`))
	require.NoError(t, err)
	assert.Nil(t, b.Primary)
	assert.Nil(t, b.Secondary)
}

func TestDecodeBundle_MissingResults(t *testing.T) {
	b, err := DecodeBundle([]byte(`{"openfda": {"meta": {}}}`))
	require.NoError(t, err)
	require.NotNil(t, b.Primary)
	assert.Empty(t, b.Primary.Results)
}

func TestDecodeBundle_Invalid(t *testing.T) {
	_, err := DecodeBundle([]byte(`{not json`))
	assert.Error(t, err)
}

func TestDecodeSource(t *testing.T) {
	src, err := DecodeSource([]byte(`{"results": [
		{"warnings": "x", "openfda": {"brand_name": "Single"}},
		"not an object",
		{"precautions": ["a", "b"]}
	]}`))
	require.NoError(t, err)
	require.Len(t, src.Results, 2)
	assert.Equal(t, []string{"Single"}, src.Results[0].Meta.BrandNames)
	assert.Equal(t, []string{}, src.Results[0].Meta.Manufacturers)
	assert.Equal(t, "a b", src.Results[1].Sections["precautions"])
	assert.Nil(t, src.Results[1].Meta)
}

func TestSectionText(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"string", "text", "text"},
		{"list", []interface{}{"a", "b", "c"}, "a b c"},
		{"string slice", []string{"x", "y"}, "x y"},
		{"number", float64(3), "3"},
		{"nested", []interface{}{"a", []interface{}{"b", "c"}}, "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SectionText(tt.in))
		})
	}
}
