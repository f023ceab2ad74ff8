package genotype

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  LineKind
		id    string
		gt    string
		delim rune
	}{
		{"tab record", "rs4244285\tchr10\t12345\tAG\n", LineRecord, "rs4244285", "AG", '\t'},
		{"tab extra fields", "rs1\t1\t2\tA\tG\n", LineRecord, "rs1", "A", '\t'},
		{"comma record", "rs9923231,16,31107689,CT\r\n", LineRecord, "rs9923231", "CT", ','},
		{"comment", "# rsid\tchromosome\tposition\tgenotype\n", LineComment, "", "", 0},
		{"indented comment is not a comment", " #x\ty\tz\tw", LineRecord, "#x", "w", '\t'},
		{"blank", "   \n", LineBlank, "", "", 0},
		{"too few tab fields", "rs1\t1\t2\n", LineMalformed, "", "", 0},
		{"too few comma fields", "rs1,1,2\n", LineMalformed, "", "", 0},
		{"no delimiter", "garbage\n", LineMalformed, "", "", 0},
		{"tab preferred over comma", "rs1\t1,2\t3\tAA\n", LineRecord, "rs1", "AA", '\t'},
		{"comma fallback with tabs", "rs1\tx,1,2,GG\n", LineRecord, "rs1\tx", "GG", ','},
		{"quoted comma fields kept", "\"rs1\",\"1\",\"2\",\"AA\"\n", LineRecord, "\"rs1\"", "\"AA\"", ','},
		{"invalid utf8", "rs1\t1\t2\t\xff\xfe\n", LineMalformed, "", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, kind := ParseLine(tt.raw)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.id, line.VariantID)
			assert.Equal(t, tt.gt, line.Genotype)
			assert.Equal(t, tt.delim, line.Delimiter)
		})
	}
}

func TestExtract_23andMe(t *testing.T) {
	calls, stats, err := ExtractFile("testdata/sample_23andme.txt", catalog.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{"rs4244285", "rs12248560", "rs3892097", "rs4149056"}, calls.IDs())
	gt, ok := calls.Get("rs4244285")
	assert.True(t, ok)
	assert.Equal(t, "GG", gt, "later duplicate should win")

	_, ok = calls.Get("rs0000001")
	assert.False(t, ok)

	assert.Equal(t, Stats{Lines: 10, Comments: 2, Blank: 1, Malformed: 1, Records: 6, Matched: 5}, stats)
}

func TestExtract_CommaDelimited(t *testing.T) {
	calls, stats, err := ExtractFile("testdata/sample_myheritage.csv", catalog.Default())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"rs9923231": "CT",
		"rs1799853": "CC",
		"rs887829":  "CT",
	}, calls.Map())
	// The RSID,CHROMOSOME,POSITION,RESULT header parses as an unmatched record.
	assert.Equal(t, 5, stats.Records)
	assert.Equal(t, 3, stats.Matched)
}

func TestExtract_NoTrailingNewline(t *testing.T) {
	calls, _, err := Extract(strings.NewReader("rs16947\t22\t1\tAG"), catalog.Default())
	require.NoError(t, err)
	gt, _ := calls.Get("rs16947")
	assert.Equal(t, "AG", gt)
}

func TestExtract_OnlyCatalogVariants(t *testing.T) {
	cat := catalog.New([]catalog.Entry{{VariantID: "rs1", Gene: "G1", Allele: "*2", Effect: catalog.EffectNoFunction}})
	calls, _, err := Extract(strings.NewReader("rs1\t1\t1\tAA\nrs2\t1\t2\tCC\n"), cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"rs1"}, calls.IDs())
}

func TestExtract_Cases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{
			name: "single catalog record",
			in:   "rs4244285\tchr10\t12345\tAG\n",
			want: map[string]string{"rs4244285": "AG"},
		},
		{
			name: "comments and unmatched ids only",
			in:   "# rsid\tchromosome\tposition\tgenotype\n#build 37\nrs0000001\t1\t100\tAA\nrs0000002\t2\t200\tCT\n",
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, _, err := Extract(strings.NewReader(tt.in), catalog.Default())
			require.NoError(t, err)
			assert.Equal(t, tt.want, calls.Map())
		})
	}
}

type failingReader struct {
	data string
	done bool
}

var errBroken = errors.New("broken pipe")

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errBroken
	}
	r.done = true
	return copy(p, r.data), nil
}

func TestExtract_ReadErrorKeepsPartialCalls(t *testing.T) {
	r := &failingReader{data: "rs4244285\t10\t1\tAG\nrs12248560\t10\t2\tC"}
	calls, stats, err := Extract(r, catalog.Default())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBroken))
	require.NotNil(t, calls)
	assert.Equal(t, []string{"rs4244285"}, calls.IDs())
	assert.Equal(t, 1, stats.Matched)
}

func TestExtract_Empty(t *testing.T) {
	calls, stats, err := Extract(strings.NewReader(""), catalog.Default())
	require.NoError(t, err)
	assert.Zero(t, calls.Len())
	assert.Zero(t, stats.Lines)
}

var _ io.Reader = (*failingReader)(nil)
