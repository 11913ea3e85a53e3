package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lamalux/pricing/internal/db"
)

var (
	verbose     bool
	databaseURL string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&databaseURL, "database-url", "", "", "database url: sqlite://./pricing.db or postgres://... (default $DATABASE_URL)")
}

var rootCmd = &cobra.Command{
	Use:           "loader",
	Short:         "lamalux pricing data CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

// openRepo resolves the database url from the flag, then $DATABASE_URL, then
// the default sqlite file.
func openRepo() (*db.Repo, error) {
	url := databaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		url = db.DefaultURL
	}

	logrus.WithField("url", url).Debug("opening database")
	return db.Open(url)
}
