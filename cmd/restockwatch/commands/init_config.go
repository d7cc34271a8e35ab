package commands

import (
	"fmt"

	"restockwatch/pkg/config"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initConfigCmd)
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config <path/to/config.yaml>",
	Short: "Writes a config file with every option at its default.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		// never write secrets picked up from the environment
		cfg.Notify.Telegram.BotToken = ""
		cfg.Notify.Telegram.ChatID = ""
		cfg.Notify.WeChat.WebhookURL = ""

		if err := config.SaveConfig(cfg, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
		return nil
	},
}
