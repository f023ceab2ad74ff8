package genotype

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
)

// Compression identifies how a genotype stream is packed.
type Compression byte

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionBZip2
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZip:
		return "zip"
	case CompressionXZ:
		return "xz"
	case CompressionBZip2:
		return "bzip2"
	default:
		return "none"
	}
}

var magic = []struct {
	c   Compression
	sig []byte
}{
	{CompressionGzip, []byte{0x1f, 0x8b}},
	{CompressionZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{CompressionXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{CompressionBZip2, []byte{0x42, 0x5a, 0x68}},
}

// ErrEmptyArchive is returned when a zip stream holds no genotype member.
var ErrEmptyArchive = errors.New("zip archive has no genotype file")

// Detect reports the compression of the stream behind br without consuming it.
func Detect(br *bufio.Reader) Compression {
	head, _ := br.Peek(6)
	for _, m := range magic {
		if bytes.HasPrefix(head, m.sig) {
			return m.c
		}
	}
	return CompressionNone
}

// NewReader wraps r so that gzip, xz, bzip2 or single-member zip input is
// decompressed transparently. Plain text passes through unchanged.
// Closing the returned reader does not close r.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	switch Detect(br) {
	case CompressionGzip:
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return gz, nil
	case CompressionZip:
		zr := zipstream.NewReader(br)
		for {
			hdr, err := zr.Next()
			if err == io.EOF {
				return nil, ErrEmptyArchive
			}
			if err != nil {
				return nil, fmt.Errorf("open zip stream: %w", err)
			}
			if IsGenotypeFileName(hdr.Name) {
				return io.NopCloser(zr), nil
			}
		}
	case CompressionXZ:
		xr, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, fmt.Errorf("open xz stream: %w", err)
		}
		return io.NopCloser(xr), nil
	case CompressionBZip2:
		return io.NopCloser(bzip2.NewReader(br)), nil
	}
	return io.NopCloser(br), nil
}

// Open opens a genotype file on disk, decompressing it if needed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genotype file: %w", err)
	}
	rc, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &fileReadCloser{ReadCloser: rc, f: f}, nil
}

type fileReadCloser struct {
	io.ReadCloser
	f *os.File
}

func (c *fileReadCloser) Close() error {
	err := c.ReadCloser.Close()
	if ferr := c.f.Close(); err == nil {
		err = ferr
	}
	return err
}

// ListDir returns the genotype files directly inside dir, sorted by name.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read genotype dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsGenotypeFileName(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ExtractFile opens path and extracts the catalog variants it carries.
func ExtractFile(path string, cat *catalog.Catalog) (*Calls, Stats, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer rc.Close()
	return Extract(rc, cat)
}
