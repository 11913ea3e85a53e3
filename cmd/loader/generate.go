package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lamalux/pricing/internal/loader"
	"github.com/lamalux/pricing/internal/storage/filesystem"
)

var generateOut string

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "also write the sample sheet to this .xlsx or .csv path")

	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "load the demo pricing dataset and make it active",
	Args:  cobra.NoArgs,
	RunE:  doGenerate,
}

func doGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fs := filesystem.New()

	if generateOut != "" {
		data, err := loader.EncodeTable(generateOut, loader.Denormalize(loader.SamplePrices()))
		if err != nil {
			return err
		}
		if err := fs.Write(ctx, generateOut, data); err != nil {
			return fmt.Errorf("write %s: %w", generateOut, err)
		}
		logrus.WithField("path", generateOut).Info("wrote sample sheet")
	}

	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	ds, err := loader.New(repo, fs, nil).GenerateSample(ctx)
	if err != nil {
		return fmt.Errorf("generate sample: %w", err)
	}

	fmt.Printf("Loaded %q (%s) with %d rows\n", ds.Name, ds.ID, ds.RowCount)
	return nil
}
