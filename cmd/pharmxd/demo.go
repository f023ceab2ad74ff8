package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/manuelcorpas/pharmxd/internal/curate"
	"github.com/manuelcorpas/pharmxd/internal/output"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Write the demo_sarah sample (CYP2C19 intermediate metabolizer)",
		Long: `Write demo_sarah.txt and demo_sarah.json to samples.out_dir. The demo
profile needs no genotype downloads.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cat, err := loadCatalog(logger)
	if err != nil {
		return err
	}

	demo := curate.DemoSample()
	paths, err := output.WriteDemo(viper.GetString("samples.out_dir"), demo, cat)
	if err != nil {
		return err
	}
	logger.Info("demo sample created",
		zap.Strings("paths", paths),
		zap.Int("variants", demo.Profile.Len()))
	return nil
}
