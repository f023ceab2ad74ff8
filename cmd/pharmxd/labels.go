package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/manuelcorpas/pharmxd/internal/label"
	"github.com/manuelcorpas/pharmxd/internal/output"
)

func newLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Build and inspect the drug label index",
	}
	cmd.AddCommand(newLabelsIndexCmd())
	cmd.AddCommand(newLabelsShowCmd())
	return cmd
}

func newLabelsIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Classify stored label bundles and write drug_index.json",
		Long: `Read one <drug>.json bundle per configured drug from labels.dir, classify
the label text for pharmacogenomic content and write the drug index.

Drugs without a stored bundle are skipped.`,
		Example: `  pharmxd labels index
  pharmxd labels index --dir data/labels --drugs clopidogrel,warfarin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabelsIndex()
		},
	}
	cmd.Flags().String("dir", "", "directory of <drug>.json label bundles")
	cmd.Flags().StringSlice("drugs", nil, "drugs to index (default: built-in list)")
	cmd.Flags().StringP("output", "o", "", "index output path")
	viper.BindPFlag("labels.dir", cmd.Flags().Lookup("dir"))
	viper.BindPFlag("labels.drugs", cmd.Flags().Lookup("drugs"))
	viper.BindPFlag("labels.index", cmd.Flags().Lookup("output"))
	return cmd
}

func runLabelsIndex() error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	dir := viper.GetString("labels.dir")
	drugs := splitList(viper.GetStringSlice("labels.drugs"))
	logger.Info("indexing drug labels", zap.String("dir", dir), zap.Int("drugs", len(drugs)))

	bundles := label.LoadBundles(dir, drugs, logger)
	idx := label.Build(bundles, label.WithLogger(logger))

	path := viper.GetString("labels.index")
	if err := output.WriteJSONFile(path, idx); err != nil {
		return err
	}

	var primary, secondary int
	for _, d := range idx.Drugs {
		if d.HasPrimarySource {
			primary++
		}
		if d.HasSecondarySource {
			secondary++
		}
	}
	logger.Info("wrote drug index",
		zap.String("path", path),
		zap.Int("requested", len(drugs)),
		zap.Int("indexed", idx.Meta.TotalDrugs),
		zap.Int("with_openfda", primary),
		zap.Int("with_dailymed", secondary),
		zap.Int("pgx_relevant", len(idx.PGxRelevant)),
		zap.String("run_id", idx.Meta.RunID))

	for _, gene := range idx.Genes() {
		drugs := idx.ByGene[gene]
		shown := drugs
		if len(shown) > 3 {
			shown = shown[:3]
		}
		logger.Info("gene mentions",
			zap.String("gene", gene),
			zap.Int("drugs", len(drugs)),
			zap.Strings("examples", shown))
	}
	return nil
}

func newLabelsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <drug>",
		Short:   "Classify one stored label bundle and print the result",
		Example: `  pharmxd labels show clopidogrel`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabelsShow(args[0])
		},
	}
}

func runLabelsShow(drug string) error {
	b, err := label.LoadBundle(viper.GetString("labels.dir"), drug)
	if err != nil {
		return err
	}
	idx := label.Build([]label.DrugBundle{{Drug: strings.ToLower(drug), Bundle: b}})
	entry := idx.Drugs[strings.ToLower(drug)]
	return output.WriteJSON(os.Stdout, entry)
}

// labelsIndexPath returns the configured index path, checking it exists.
func labelsIndexPath() (string, error) {
	path := viper.GetString("labels.index")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("label index: %w (run 'pharmxd labels index' first)", err)
	}
	return path, nil
}
