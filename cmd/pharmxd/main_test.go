package main

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
)

func TestConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		in      string
		want    any
		wantErr bool
	}{
		{"labels.drugs", "clopidogrel,warfarin", []string{"clopidogrel", "warfarin"}, false},
		{"labels.drugs", " codeine , ,tramadol", []string{"codeine", "tramadol"}, false},
		{"samples.target", "20", 20, false},
		{"samples.target", "many", nil, true},
		{"samples.seed", "42", uint64(42), false},
		{"samples.seed", "-1", nil, true},
		{"samples.out_dir", "123", "123", false},
		{"extra.flag", "on", true, false},
		{"extra.count", "7", 7, false},
		{"extra.name", "data/samples", "data/samples", false},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.in, func(t *testing.T) {
			got, err := configValue(tt.key, tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDrugListFromConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	setDefaults()

	val, err := configValue("labels.drugs", "clopidogrel,warfarin")
	require.NoError(t, err)
	viper.Set("labels.drugs", val)
	assert.Equal(t, []string{"clopidogrel", "warfarin"}, splitList(viper.GetStringSlice("labels.drugs")))

	viper.Reset()
	setDefaults()
	t.Setenv("PHARMXD_LABELS_DRUGS", "codeine,tramadol")
	viper.SetEnvPrefix("PHARMXD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	assert.Equal(t, []string{"codeine", "tramadol"}, splitList(viper.GetStringSlice("labels.drugs")))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", "c"}))
	assert.Nil(t, splitList([]string{"", " , "}))
}

func TestPick(t *testing.T) {
	paths := []string{"a", "b", "c", "d", "e"}
	rng := rand.New(rand.NewPCG(1, 1))

	assert.Equal(t, paths, pick(rng, paths, 0))
	assert.Equal(t, paths, pick(rng, paths, 10))

	got := pick(rng, paths, 3)
	assert.Len(t, got, 3)
	seen := make(map[string]bool)
	for _, p := range got {
		assert.Contains(t, paths, p)
		assert.False(t, seen[p])
		seen[p] = true
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, paths, "input must not be reordered")
}

func TestDefaultDrugsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, d := range defaultDrugs {
		assert.False(t, seen[d], d)
		seen[d] = true
	}
	assert.Len(t, defaultDrugs, 34)
}

func TestWriteCoverage(t *testing.T) {
	cat := catalog.New([]catalog.Entry{
		{VariantID: "rs4244285", Gene: "CYP2C19", Allele: "*2", Effect: catalog.EffectNoFunction},
		{VariantID: "rs3892097", Gene: "CYP2D6", Allele: "*4", Effect: catalog.EffectNoFunction},
	})
	var buf bytes.Buffer
	require.NoError(t, writeCoverage(&buf, cat, map[string]int64{"rs4244285": 3}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"VARIANT", "GENE", "SAMPLES"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"rs4244285", "CYP2C19", "3"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"rs3892097", "CYP2D6", "0"}, strings.Fields(lines[2]))
}
