package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/luthor/tokenize"
)

var forceInit bool

// initCmd: luthor init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default token configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := initConfigurationFile(cfgFile, forceInit)
		if err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			os.Exit(1)
		}
		fmt.Printf("Configuration file created: %s\n", path)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) (string, error) {
	if configurationPath == "" {
		configurationPath = tokenize.DefaultConfigPath
	}

	if _, err := os.Stat(configurationPath); err == nil && !force {
		return "", fmt.Errorf("%s already exists", configurationPath)
	}

	if err := tokenize.WriteConfigurationFile(configurationPath, tokenize.DefaultConfig()); err != nil {
		return "", err
	}
	return configurationPath, nil
}
