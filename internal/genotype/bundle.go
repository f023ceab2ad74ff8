package genotype

import (
	"archive/zip"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"
)

// Bundle is a zip archive holding many genotype exports, such as the
// openSNP data dump.
type Bundle struct {
	zr      *zip.ReadCloser
	members map[string]*zip.File
	names   []string
}

// OpenBundle opens a zip bundle and indexes its genotype members.
func OpenBundle(path string) (*Bundle, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	b := &Bundle{zr: zr, members: make(map[string]*zip.File)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !IsGenotypeFileName(f.Name) {
			continue
		}
		b.members[f.Name] = f
		b.names = append(b.names, f.Name)
	}
	sort.Strings(b.names)
	return b, nil
}

// Close releases the archive.
func (b *Bundle) Close() error {
	return b.zr.Close()
}

// Names returns the genotype member names in sorted order.
func (b *Bundle) Names() []string {
	return append([]string(nil), b.names...)
}

// Sample draws up to n member names at random without replacement.
// n <= 0 returns every member. A nil rng uses the global source.
func (b *Bundle) Sample(rng *rand.Rand, n int) []string {
	if n <= 0 || n >= len(b.names) {
		return b.Names()
	}
	names := b.Names()
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	return names[:n]
}

// OpenMember opens a member for reading, decompressing nested gzip, xz or
// bzip2 payloads.
func (b *Bundle) OpenMember(name string) (io.ReadCloser, error) {
	f, ok := b.members[name]
	if !ok {
		return nil, fmt.Errorf("bundle member %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open bundle member %s: %w", name, err)
	}
	inner, err := NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("open bundle member %s: %w", name, err)
	}
	return &memberReadCloser{ReadCloser: inner, raw: rc}, nil
}

type memberReadCloser struct {
	io.ReadCloser
	raw io.Closer
}

func (c *memberReadCloser) Close() error {
	err := c.ReadCloser.Close()
	if rerr := c.raw.Close(); err == nil {
		err = rerr
	}
	return err
}
