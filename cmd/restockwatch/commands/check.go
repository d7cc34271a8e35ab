package commands

import (
	"fmt"

	"restockwatch/pkg/monitor"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Fetches and classifies a single URL without touching state.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath, false)
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

		v, err := monitor.Check(cmd.Context(), a.fetcher, a.classifier, args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "signal:   %s\n", v.Signal)
		if v.Marker != "" {
			fmt.Fprintf(out, "scope:    %s\n", v.Scope)
			fmt.Fprintf(out, "marker:   %q\n", v.Marker)
			fmt.Fprintf(out, "evidence: %s\n", v.Evidence)
		}
		return nil
	},
}
