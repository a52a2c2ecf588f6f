package cmd

import (
	"os"

	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "sharesync",
	Short: "Scheduled 115 share transfer service",
	Long: `A self-hosted service that watches 115 share links on a per-task cron
schedule, detects content changes, replaces stale copies and keeps an
external file index in step with the drive.`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&conf.DataDir, "data", "data", "data folder")
	RootCmd.PersistentFlags().BoolVar(&conf.Debug, "debug", false, "start with debug mode")
}
