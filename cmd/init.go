package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/docdeck/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docdeck configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure docdeck for your project and writes the config file (.docdeck.yml unless --config is given).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
