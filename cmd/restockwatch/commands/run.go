package commands

import (
	"fmt"

	"restockwatch/pkg/stock"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Checks every product once, saves state and sends the notification.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath, true)
		if err != nil {
			return err
		}
		if err := initLogger(cfg); err != nil {
			return err
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.runner.RunFile(cmd.Context(), cfg.Monitor.ProductsFile)
		if err != nil {
			return err
		}

		counts := res.Counts()
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d, notified %d\n", len(res.Items), len(res.Notifications))
		for _, sig := range []stock.Signal{stock.InStock, stock.OutOfStock, stock.Unknown} {
			if counts[sig] > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", sig, counts[sig])
			}
		}
		return nil
	},
}
