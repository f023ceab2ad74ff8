package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
	"github.com/manuelcorpas/pharmxd/internal/curate"
	"github.com/manuelcorpas/pharmxd/internal/genotype"
	"github.com/manuelcorpas/pharmxd/internal/output"
)

func newSamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Build the curated genotype sample corpus",
	}
	cmd.AddCommand(newSamplesCurateCmd())
	return cmd
}

func newSamplesCurateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Extract catalog variants from genotype files and write curated samples",
		Long: `Read genotype exports from a zip bundle (samples.bundle) or a directory
(samples.dir), extract the catalog variants from each, and write up to
samples.target curated sample files plus samples_index.json.

Up to samples.max_files files are drawn at random from the source.
Samples with at least 10 catalog variants are preferred.`,
		Example: `  pharmxd samples curate --bundle opensnp.zip
  pharmxd samples curate --dir ./genotypes --target 5 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSamplesCurate()
		},
	}
	cmd.Flags().String("bundle", "", "zip archive of genotype files")
	cmd.Flags().String("dir", "", "directory of genotype files (overrides --bundle)")
	cmd.Flags().StringP("output", "o", "", "output directory")
	cmd.Flags().Int("max-files", 0, "maximum number of genotype files to read")
	cmd.Flags().Int("target", 0, "number of samples to curate")
	cmd.Flags().Uint64("seed", 0, "random seed (0 = random)")
	cmd.Flags().IntP("workers", "w", 0, "parallel workers (0 = all CPUs)")
	viper.BindPFlag("samples.bundle", cmd.Flags().Lookup("bundle"))
	viper.BindPFlag("samples.dir", cmd.Flags().Lookup("dir"))
	viper.BindPFlag("samples.out_dir", cmd.Flags().Lookup("output"))
	viper.BindPFlag("samples.max_files", cmd.Flags().Lookup("max-files"))
	viper.BindPFlag("samples.target", cmd.Flags().Lookup("target"))
	viper.BindPFlag("samples.seed", cmd.Flags().Lookup("seed"))
	viper.BindPFlag("samples.workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func runSamplesCurate() error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cat, err := loadCatalog(logger)
	if err != nil {
		return err
	}

	rng := newRand(viper.GetUint64("samples.seed"))
	maxFiles := viper.GetInt("samples.max_files")
	workers := viper.GetInt("samples.workers")

	samples, err := readSamples(cat, rng, maxFiles, workers, logger)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		logger.Warn("no samples carried catalog variants")
	}

	res := curate.Curate(samples, viper.GetInt("samples.target"), cat,
		curate.WithRand(rng),
		curate.WithLogger(logger))

	outDir := viper.GetString("samples.out_dir")
	paths, err := output.WriteCorpus(outDir, res, res.Summary.Meta.Created)
	if err != nil {
		return err
	}

	for i, cs := range res.Samples {
		logger.Info("created sample",
			zap.String("path", paths[i]),
			zap.String("original", cs.OriginSampleID),
			zap.Int("variants", cs.VariantCount))
	}
	logger.Info("wrote sample index",
		zap.String("path", paths[len(paths)-1]),
		zap.Int("samples", res.Summary.Meta.NumSamples),
		zap.Float64("mean_variants", res.Summary.Meta.MeanVariantCount),
		zap.Int("warnings", len(res.Warnings)))
	return nil
}

// readSamples extracts samples from samples.dir when set, otherwise from the
// samples.bundle zip archive.
func readSamples(cat *catalog.Catalog, rng *rand.Rand, maxFiles, workers int, logger *zap.Logger) ([]*genotype.Sample, error) {
	var items []genotype.WorkItem

	if dir := viper.GetString("samples.dir"); dir != "" {
		paths, err := genotype.ListDir(dir)
		if err != nil {
			return nil, err
		}
		logger.Info("found genotype files", zap.String("dir", dir), zap.Int("files", len(paths)))
		items = genotype.FileItems(pick(rng, paths, maxFiles))
	} else {
		path := viper.GetString("samples.bundle")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("genotype bundle %s not found: set samples.bundle or samples.dir", path)
		}
		b, err := genotype.OpenBundle(path)
		if err != nil {
			return nil, err
		}
		defer b.Close()
		logger.Info("found genotype files", zap.String("bundle", path), zap.Int("files", len(b.Names())))
		items = genotype.BundleItems(b, b.Sample(rng, maxFiles))
	}

	start := time.Now()
	samples := genotype.ExtractSamples(items, cat, workers, logger)
	logger.Info("extracted samples",
		zap.Int("files", len(items)),
		zap.Int("samples", len(samples)),
		zap.Duration("elapsed", time.Since(start)))
	return samples, nil
}

// pick draws up to n paths at random without replacement. n <= 0 keeps all.
func pick(rng *rand.Rand, paths []string, n int) []string {
	if n <= 0 || n >= len(paths) {
		return paths
	}
	p := append([]string(nil), paths...)
	rng.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p[:n]
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
