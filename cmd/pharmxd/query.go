package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
	"github.com/manuelcorpas/pharmxd/internal/duckdb"
	"github.com/manuelcorpas/pharmxd/internal/genotype"
	"github.com/manuelcorpas/pharmxd/internal/label"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the label index and curated samples",
		Long: `Load drug_index.json and the curated sample files into an in-memory
DuckDB database and answer a question about them.`,
	}
	cmd.AddCommand(newQueryDrugsCmd())
	cmd.AddCommand(newQueryGenesCmd())
	cmd.AddCommand(newQueryCarriersCmd())
	cmd.AddCommand(newQueryCoverageCmd())
	return cmd
}

func newQueryDrugsCmd() *cobra.Command {
	var gene string
	cmd := &cobra.Command{
		Use:   "drugs",
		Short: "List drugs whose label mentions a gene (or all PGx-relevant drugs)",
		Example: `  pharmxd query drugs --gene CYP2C19
  pharmxd query drugs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLabelStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var drugs []string
			if gene != "" {
				drugs, err = store.DrugsForGene(gene)
			} else {
				drugs, err = store.PGxRelevantDrugs()
			}
			if err != nil {
				return err
			}
			for _, d := range drugs {
				fmt.Println(d)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&gene, "gene", "", "gene symbol, e.g. CYP2D6")
	return cmd
}

func newQueryGenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genes",
		Short: "Count labels mentioning each gene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLabelStore()
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.GeneDrugCounts()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GENE\tDRUGS")
			for _, c := range counts {
				fmt.Fprintf(tw, "%s\t%d\n", c.Gene, c.Drugs)
			}
			return tw.Flush()
		},
	}
}

func newQueryCarriersCmd() *cobra.Command {
	var variant, gt string
	cmd := &cobra.Command{
		Use:   "carriers",
		Short: "List curated samples by genotype at a catalog variant",
		Example: `  pharmxd query carriers --variant rs4244285
  pharmxd query carriers --variant rs4244285 --genotype AG`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cat, err := loadCatalog(logger)
			if err != nil {
				return err
			}
			if _, ok := cat.Lookup(variant); !ok {
				return fmt.Errorf("variant %q is not in the catalog", variant)
			}

			store, err := openSampleStore(cat, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if gt != "" {
				ids, err := store.SamplesWithGenotype(variant, gt)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Println(id)
				}
				return nil
			}

			counts, err := store.GenotypeCounts(variant)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GENOTYPE\tSAMPLES")
			for _, c := range counts {
				fmt.Fprintf(tw, "%s\t%d\n", c.Genotype, c.Samples)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "catalog variant ID, e.g. rs4244285")
	cmd.Flags().StringVar(&gt, "genotype", "", "genotype to match, e.g. AG")
	cmd.MarkFlagRequired("variant")
	return cmd
}

func newQueryCoverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage",
		Short: "Count curated samples with a call at each catalog variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cat, err := loadCatalog(logger)
			if err != nil {
				return err
			}
			store, err := openSampleStore(cat, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			cov, err := store.VariantCoverage(cat)
			if err != nil {
				return err
			}
			return writeCoverage(os.Stdout, cat, cov)
		},
	}
}

// writeCoverage prints one row per catalog variant in catalog order.
func writeCoverage(w io.Writer, cat *catalog.Catalog, cov map[string]int64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANT\tGENE\tSAMPLES")
	for _, id := range cat.IDs() {
		e, _ := cat.Lookup(id)
		fmt.Fprintf(tw, "%s\t%s\t%d\n", id, e.Gene, cov[id])
	}
	return tw.Flush()
}

func openLabelStore() (*duckdb.Store, error) {
	path, err := labelsIndexPath()
	if err != nil {
		return nil, err
	}
	idx, err := label.ReadIndex(path)
	if err != nil {
		return nil, err
	}

	store, err := duckdb.Open("")
	if err != nil {
		return nil, err
	}
	if err := store.WriteLabelIndex(idx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// openSampleStore loads the curated sample files in samples.out_dir.
func openSampleStore(cat *catalog.Catalog, logger *zap.Logger) (*duckdb.Store, error) {
	dir := viper.GetString("samples.out_dir")
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no sample files in %s (run 'pharmxd samples curate' first)", dir)
	}

	samples := genotype.ExtractSamples(genotype.FileItems(paths), cat, 0, logger)

	store, err := duckdb.Open("")
	if err != nil {
		return nil, err
	}
	if err := store.WriteSamples(samples, cat); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
