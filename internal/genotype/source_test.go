package genotype

import (
	"bufio"
	"bytes"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
)

func TestOpen_Compressed(t *testing.T) {
	plain, err := os.ReadFile("testdata/sample_23andme.txt")
	require.NoError(t, err)

	for _, name := range []string{
		"sample_23andme.txt",
		"sample_23andme.txt.gz",
		"sample_23andme.txt.xz",
		"sample_23andme.txt.bz2",
		"sample_23andme.zip",
	} {
		t.Run(name, func(t *testing.T) {
			rc, err := Open(filepath.Join("testdata", name))
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, string(plain), string(got))
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want Compression
	}{
		{"gzip", []byte{0x1f, 0x8b, 0x08, 0x00}, CompressionGzip},
		{"zip", []byte("PK\x03\x04rest"), CompressionZip},
		{"xz", []byte{0xfd, '7', 'z', 'X', 'Z', 0x00, 0x00}, CompressionXZ},
		{"bzip2", []byte("BZh91AY"), CompressionBZip2},
		{"text", []byte("# rsid\tchromosome"), CompressionNone},
		{"short", []byte("r"), CompressionNone},
		{"empty", nil, CompressionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(bufio.NewReader(bytes.NewReader(tt.head))))
		})
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open("testdata/missing.txt")
	assert.Error(t, err)
}

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.csv", "c.txt.gz", "notes.md", ".hidden.txt", "export.zip"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	paths, err := ListDir(dir)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"a.csv", "b.txt", "c.txt.gz", "export.zip"}, names)
}

func TestSampleIDFromName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"user123_file456.23andme.txt", "user123_file456.23andme"},
		{"dir/sub/genome.csv", "genome"},
		{"/data/genome.txt.gz", "genome"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SampleIDFromName(tt.in), tt.in)
	}
}

func TestBundle(t *testing.T) {
	b, err := OpenBundle("testdata/opensnp_bundle.zip")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, []string{
		"user1_file1.23andme.txt",
		"user2_file2.myheritage.csv",
		"user3_file3.ancestry.txt",
	}, b.Names())

	all := b.Sample(nil, 10)
	assert.Len(t, all, 3)

	rng := rand.New(rand.NewPCG(1, 2))
	two := b.Sample(rng, 2)
	assert.Len(t, two, 2)
	assert.NotEqual(t, two[0], two[1])
	for _, n := range two {
		assert.Contains(t, b.Names(), n)
	}

	rc, err := b.OpenMember("user3_file3.ancestry.txt")
	require.NoError(t, err)
	calls, _, err := Extract(rc, catalog.Default())
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	gt, ok := calls.Get("rs4986893")
	assert.True(t, ok)
	assert.Equal(t, "GG", gt)

	_, err = b.OpenMember("readme.pdf")
	assert.Error(t, err)
}

func TestExtractSamples_OrderedAndTolerant(t *testing.T) {
	paths := []string{
		"testdata/sample_23andme.txt.gz",
		"testdata/missing.txt",
		"testdata/sample_myheritage.csv",
		"testdata/sample_23andme.txt",
	}
	samples := ExtractSamples(FileItems(paths), catalog.Default(), 3, zap.NewNop())
	require.Len(t, samples, 3)

	assert.Equal(t, "sample_23andme", samples[0].SampleID)
	assert.Equal(t, "testdata/sample_23andme.txt.gz", samples[0].SourceRef)
	assert.Equal(t, 4, samples[0].VariantCount)
	assert.Equal(t, "sample_myheritage", samples[1].SampleID)
	assert.Equal(t, 3, samples[1].VariantCount)
	assert.Equal(t, "testdata/sample_23andme.txt", samples[2].SourceRef)
}

func TestExtractSamples_Bundle(t *testing.T) {
	b, err := OpenBundle("testdata/opensnp_bundle.zip")
	require.NoError(t, err)
	defer b.Close()

	samples := ExtractSamples(BundleItems(b, b.Names()), catalog.Default(), 0, nil)
	require.Len(t, samples, 3)
	assert.Equal(t, "user1_file1.23andme", samples[0].SampleID)
	assert.Equal(t, 4, samples[0].VariantCount)
	assert.Equal(t, 1, samples[2].VariantCount)
}

func TestOrderedCollect(t *testing.T) {
	results := make(chan WorkResult, 4)
	for _, seq := range []int{2, 0, 3, 1} {
		results <- WorkResult{Seq: seq}
	}
	close(results)

	var got []int
	err := OrderedCollect(results, func(r WorkResult) error {
		got = append(got, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestCalls_JSONOrder(t *testing.T) {
	c := CallsFromPairs("rs9923231", "CT", "rs4244285", "AG", "rs1799853", "CC")
	c.Set("rs9923231", "TT")
	data, err := c.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"rs9923231":"TT","rs4244285":"AG","rs1799853":"CC"}`, string(data))

	assert.Equal(t, "{}", mustJSON(t, NewCalls()))
}

func mustJSON(t *testing.T, c *Calls) string {
	t.Helper()
	data, err := c.MarshalJSON()
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}
