// Package main provides the pharmxd command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/manuelcorpas/pharmxd/internal/catalog"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfgFile string

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pharmxd",
		Short: "PharmXD reference corpus builder",
		Long: `pharmxd builds a pharmacogenomics reference corpus: a drug label index
of gene and metabolizer mentions, and a small set of curated genotype
samples carrying catalog variants.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.pharmxd.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "console", "log format: console, json")
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.AddCommand(newLabelsCmd())
	cmd.AddCommand(newSamplesCmd())
	cmd.AddCommand(newDemoCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig reads ~/.pharmxd.yaml (or --config) and PHARMXD_* environment
// variables. A missing config file is not an error.
func initConfig() error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".pharmxd")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PHARMXD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// configDefaults holds every known key with a default of the type viper
// should store for it.
var configDefaults = map[string]any{
	"labels.dir":        filepath.Join("data", "labels"),
	"labels.index":      filepath.Join("data", "labels", "drug_index.json"),
	"labels.drugs":      defaultDrugs,
	"samples.dir":       "",
	"samples.bundle":    filepath.Join("data", "opensnp", "opensnp.zip"),
	"samples.out_dir":   filepath.Join("data", "samples"),
	"samples.max_files": 50,
	"samples.target":    10,
	"samples.seed":      uint64(0),
	"samples.workers":   0,
	"catalog.path":      "",
	"log.level":         "info",
	"log.format":        "console",
}

func setDefaults() {
	for key, val := range configDefaults {
		viper.SetDefault(key, val)
	}
}

// newLogger builds a zap logger from log.level and log.format.
func newLogger() (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", viper.GetString("log.level"), err)
	}

	var cfg zap.Config
	switch viper.GetString("log.format") {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", viper.GetString("log.format"))
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// loadCatalog returns the catalog at catalog.path, or the built-in one.
func loadCatalog(logger *zap.Logger) (*catalog.Catalog, error) {
	path := viper.GetString("catalog.path")
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded variant catalog", zap.String("path", path), zap.Int("variants", cat.Len()))
	return cat, nil
}

// defaultDrugs are the drugs indexed when labels.drugs is not configured:
// substrates of the catalog pharmacogenes plus common non-PGx controls.
var defaultDrugs = []string{
	// CYP2C19
	"clopidogrel", "omeprazole", "pantoprazole", "citalopram", "escitalopram", "voriconazole",
	// CYP2D6
	"codeine", "tramadol", "tamoxifen", "ondansetron", "amitriptyline", "nortriptyline",
	"paroxetine", "fluoxetine", "metoprolol",
	// CYP2C9 / VKORC1
	"warfarin", "phenytoin", "celecoxib",
	// SLCO1B1
	"simvastatin", "atorvastatin", "rosuvastatin", "pravastatin",
	// DPYD
	"fluorouracil", "capecitabine",
	// TPMT
	"azathioprine", "mercaptopurine",
	// UGT1A1
	"irinotecan", "atazanavir",
	// controls
	"metformin", "lisinopril", "amlodipine", "losartan", "gabapentin", "sertraline",
}
