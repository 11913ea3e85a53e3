package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lamalux/pricing/internal/loader"
	"github.com/lamalux/pricing/internal/storage/blob"
	"github.com/lamalux/pricing/internal/storage/filesystem"
)

var importName string

func init() {
	importCmd.Flags().StringVarP(&importName, "name", "n", "", `dataset name (default "Import YYYY-MM-DD HH:MM")`)

	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <path|s3://bucket/key>",
	Short: "load a .xlsx or .csv price sheet and make it the active dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  doImport,
}

func doImport(cmd *cobra.Command, args []string) error {
	var (
		ctx    = cmd.Context()
		source = args[0]
	)

	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	l := loader.New(repo, filesystem.New(), nil)
	if blob.IsURI(source) {
		s3, err := blob.New(ctx)
		if err != nil {
			return err
		}
		l = loader.New(repo, filesystem.New(), s3)
	}

	ds, err := l.Import(ctx, source, importName)
	if err != nil {
		return fmt.Errorf("import %s: %w", source, err)
	}

	fmt.Printf("Loaded %q (%s) with %d rows\n", ds.Name, ds.ID, ds.RowCount)
	return nil
}
