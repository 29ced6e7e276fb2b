package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/mxml/generator"
)

var initPackage string

// initCmd: mxml init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile, initPackage); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Printf("Configuration file created/updated: %s\n", cfgFile)
	},
}

func init() {
	initCmd.Flags().StringVar(&initPackage, "pkg", "", "Package name written into generated files")
}

func initConfigurationFile(configurationPath, pkg string) error {
	if configurationPath == "" {
		configurationPath = generator.DefaultConfigPath
	}

	config := generator.DefaultConfig()
	config.Package = pkg
	return generator.WriteConfig(configurationPath, config)
}
