package genotype

import (
	"io"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
)

// WorkItem is one genotype source waiting to be extracted.
type WorkItem struct {
	Seq    int
	Name   string // sample ID
	Source string // file path or archive member name
	Open   func() (io.ReadCloser, error)
}

// WorkResult holds the extraction output for a single source.
type WorkResult struct {
	Seq    int
	Name   string
	Source string
	Calls  *Calls
	Stats  Stats
	Err    error
}

// ParallelExtract extracts work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func ParallelExtract(items <-chan WorkItem, cat *catalog.Catalog, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				res := WorkResult{Seq: item.Seq, Name: item.Name, Source: item.Source}
				rc, err := item.Open()
				if err != nil {
					res.Err = err
					results <- res
					continue
				}
				res.Calls, res.Stats, res.Err = Extract(rc, cat)
				rc.Close()
				results <- res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// FileItems turns genotype file paths into work items.
func FileItems(paths []string) []WorkItem {
	items := make([]WorkItem, len(paths))
	for i, p := range paths {
		items[i] = WorkItem{Seq: i, Name: SampleIDFromName(p), Source: p, Open: func() (io.ReadCloser, error) {
			return Open(p)
		}}
	}
	return items
}

// BundleItems turns archive member names into work items.
func BundleItems(b *Bundle, names []string) []WorkItem {
	items := make([]WorkItem, len(names))
	for i, n := range names {
		items[i] = WorkItem{Seq: i, Name: SampleIDFromName(n), Source: n, Open: func() (io.ReadCloser, error) {
			return b.OpenMember(n)
		}}
	}
	return items
}

// ExtractSamples runs items through the worker pool and returns one Sample
// per readable source carrying at least one catalog variant, in item order.
// Sources that cannot be opened are logged and skipped. A read error part
// way through keeps the calls already extracted.
func ExtractSamples(items []WorkItem, cat *catalog.Catalog, workers int, logger *zap.Logger) []*Sample {
	if logger == nil {
		logger = zap.NewNop()
	}

	ch := make(chan WorkItem)
	go func() {
		defer close(ch)
		for _, it := range items {
			ch <- it
		}
	}()

	var samples []*Sample
	_ = OrderedCollect(ParallelExtract(ch, cat, workers), func(r WorkResult) error {
		if r.Err != nil {
			logger.Warn("genotype source failed",
				zap.String("source", r.Source),
				zap.Int("matched", r.Stats.Matched),
				zap.Error(r.Err))
		}
		if r.Calls.Len() == 0 {
			logger.Debug("no catalog variants in source", zap.String("source", r.Source))
			return nil
		}
		if r.Stats.Malformed > 0 {
			logger.Debug("skipped malformed lines",
				zap.String("source", r.Source),
				zap.Int("malformed", r.Stats.Malformed))
		}
		samples = append(samples, NewSample(r.Name, r.Source, r.Calls))
		return nil
	})
	return samples
}
