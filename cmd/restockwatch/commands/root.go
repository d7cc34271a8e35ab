package commands

import (
	"context"
	"fmt"
	"os"

	"restockwatch/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "restockwatch",
	Short: "restockwatch checks product pages and notifies when they come back in stock.",
	Long: `restockwatch fetches every URL listed in the products file, decides whether
each page is in stock, out of stock or unknown, and sends one message for the
products that just became available.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a .yaml or .json config file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log marker and evidence for every URL.")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Log the notification instead of sending it.")
}

// ExecuteContext runs the root command and exits non-zero on failure.
func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
