package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lamalux/pricing/internal/db"
)

func init() {
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(providersCmd)
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "list imported datasets, newest first",
	Args:  cobra.NoArgs,
	RunE:  doDatasets,
}

var activateCmd = &cobra.Command{
	Use:   "activate <dataset id>",
	Short: "make an earlier dataset the active one",
	Args:  cobra.ExactArgs(1),
	RunE:  doActivate,
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "list every provider seen in an import",
	Args:  cobra.NoArgs,
	RunE:  doProviders,
}

func doDatasets(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	datasets, err := repo.ListDatasets(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tUploaded\tRows\tActive")
	for _, ds := range datasets {
		active := ""
		if ds.IsActive {
			active = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", ds.ID, ds.Name, ds.UploadedAt.Format("2006-01-02 15:04"), ds.RowCount, active)
	}
	return w.Flush()
}

func doActivate(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.ActivateDataset(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, db.ErrDatasetNotFound) {
			return fmt.Errorf("no dataset with id %q", args[0])
		}
		return err
	}

	fmt.Printf("Activated %s\n", args[0])
	return nil
}

func doProviders(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	providers, err := repo.ListProviders(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Code\tName\tActive")
	for _, p := range providers {
		fmt.Fprintf(w, "%s\t%s\t%t\n", p.Code, p.Name, p.IsActive)
	}
	return w.Flush()
}
