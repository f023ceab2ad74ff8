// Package label classifies drug label text for pharmacogenomic content and
// builds a cross-referenced drug index from the results.
package label

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jeffail/gabs"
	"go.uber.org/zap"
)

// ErrSourceAbsent is returned when a drug's stored fetch bundle does not exist.
var ErrSourceAbsent = errors.New("label source absent")

// Bundle is the stored result of fetching one drug's label from the primary
// (openFDA) and secondary (DailyMed) sources. Either source may be absent.
type Bundle struct {
	Primary      *Source
	Secondary    json.RawMessage // presence only, never parsed
	DownloadedAt string
}

// Source is a primary-source payload: the label sub-records returned for a drug.
type Source struct {
	Results []Result
}

// Result is one label sub-record.
type Result struct {
	Sections map[string]string // section name -> normalized text
	Meta     *Metadata         // nil when the sub-record carries no openfda block
}

// Metadata holds product metadata attached to a label sub-record.
type Metadata struct {
	BrandNames    []string
	Manufacturers []string
}

// DecodeBundle decodes a stored bundle document of the form
// {"openfda": {...}|null, "dailymed": {...}|null, "downloaded_at": "..."}.
func DecodeBundle(data []byte) (*Bundle, error) {
	parsed, err := gabs.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}

	b := &Bundle{}
	if s, ok := parsed.S("downloaded_at").Data().(string); ok {
		b.DownloadedAt = s
	}

	if primary := parsed.S("openfda"); primary.Data() != nil {
		src, err := decodeSource(primary)
		if err != nil {
			return nil, err
		}
		b.Primary = src
	}

	if secondary := parsed.S("dailymed"); secondary.Data() != nil {
		b.Secondary = json.RawMessage(secondary.Bytes())
	}

	return b, nil
}

// DecodeSource decodes a bare primary-source payload {"results": [...]}.
func DecodeSource(data []byte) (*Source, error) {
	parsed, err := gabs.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse label source: %w", err)
	}
	return decodeSource(parsed)
}

func decodeSource(c *gabs.Container) (*Source, error) {
	src := &Source{}

	results := c.S("results")
	if results.Data() == nil {
		return src, nil
	}
	children, err := results.Children()
	if err != nil {
		return nil, fmt.Errorf("label results: %w", err)
	}

	for _, child := range children {
		fields, err := child.ChildrenMap()
		if err != nil {
			// Non-object results carry no sections.
			continue
		}

		r := Result{Sections: make(map[string]string, len(fields))}
		for name, value := range fields {
			if name == "openfda" {
				r.Meta = &Metadata{
					BrandNames:    stringList(value.S("brand_name")),
					Manufacturers: stringList(value.S("manufacturer_name")),
				}
				continue
			}
			r.Sections[name] = SectionText(value.Data())
		}
		src.Results = append(src.Results, r)
	}

	return src, nil
}

// SectionText normalizes a raw section value to a single string. Lists are
// joined with a single space.
func SectionText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []interface{}:
		parts := make([]string, len(t))
		for i, p := range t {
			parts[i] = SectionText(p)
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(t, " ")
	default:
		return fmt.Sprint(t)
	}
}

func stringList(c *gabs.Container) []string {
	switch v := c.Data().(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, SectionText(item))
		}
		return out
	}
	return []string{}
}

// BundlePath returns the stored bundle path for a drug.
func BundlePath(dir, drug string) string {
	return filepath.Join(dir, strings.ToLower(drug)+".json")
}

// LoadBundle reads and decodes the stored bundle for a drug.
// Returns an error wrapping ErrSourceAbsent if no bundle file exists.
func LoadBundle(dir, drug string) (*Bundle, error) {
	data, err := os.ReadFile(BundlePath(dir, drug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", drug, ErrSourceAbsent)
		}
		return nil, fmt.Errorf("read bundle %s: %w", drug, err)
	}
	return DecodeBundle(data)
}

// LoadBundles loads bundles for drugs in order. Drugs whose bundle is missing
// or unreadable get a nil Bundle and a warning; they are skipped by Build.
func LoadBundles(dir string, drugs []string, logger *zap.Logger) []DrugBundle {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]DrugBundle, 0, len(drugs))
	for _, drug := range drugs {
		b, err := LoadBundle(dir, drug)
		if err != nil {
			logger.Warn("skipping drug label",
				zap.String("drug", drug),
				zap.Error(err))
		}
		out = append(out, DrugBundle{Drug: drug, Bundle: b})
	}
	return out
}
