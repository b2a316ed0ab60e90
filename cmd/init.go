package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tactic-labs/tactic"
)

// initCmd: tactic init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new session configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Printf("Configuration file created/updated: %s\n", cfgFile)
	},
}

func initConfigurationFile(path string) error {
	if path == "" {
		path = ".tactic.yaml"
	}
	d, err := yaml.Marshal(tactic.DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
