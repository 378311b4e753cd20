package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codebooklabs/codebook/pkg/config"
	"github.com/codebooklabs/codebook/pkg/presenter"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the codebook configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		root, cfg := loadForMutation(cmd)

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			presenter.Error(err, "Failed to render configuration")
			os.Exit(1)
		}

		presenter.Info(fmt.Sprintf("Config: %s", config.Path(root)))
		presenter.Info(fmt.Sprintf("Snapshot: %s", config.SnapshotPath(root)))
		fmt.Println(string(data))
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
