package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
	"github.com/manuelcorpas/pharmxd/internal/curate"
)

// SummaryIndexFile is the name of the curated corpus index document.
const SummaryIndexFile = "samples_index.json"

// WriteJSON writes v as an indented JSON document.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSONFile writes v as an indented JSON document to path, creating
// parent directories as needed.
func WriteJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, v); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteCorpus writes each curated sample to dir as <FileRef> and the
// summary index as samples_index.json. It returns the paths written.
func WriteCorpus(dir string, res curate.Result, generated time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create corpus dir: %w", err)
	}

	var paths []string
	for _, cs := range res.Samples {
		p := filepath.Join(dir, cs.FileRef)
		if err := writeSampleFile(p, cs, SamplePreamble(cs, generated)); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}

	p := filepath.Join(dir, SummaryIndexFile)
	if err := WriteJSONFile(p, res.Summary); err != nil {
		return paths, err
	}
	return append(paths, p), nil
}

// WriteDemo writes the demo profile as <id>.txt and <id>.json in dir.
func WriteDemo(dir string, demo *curate.Demo, cat *catalog.Catalog) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create demo dir: %w", err)
	}
	cs := demo.Render(cat)
	txt := filepath.Join(dir, cs.FileRef)
	if err := writeSampleFile(txt, cs, demo.Notes); err != nil {
		return nil, err
	}
	js := filepath.Join(dir, demo.SampleID+".json")
	if err := WriteJSONFile(js, demo); err != nil {
		return []string{txt}, err
	}
	return []string{txt, js}, nil
}

func writeSampleFile(path string, cs *curate.CuratedSample, preamble []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSample(f, cs, preamble); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
