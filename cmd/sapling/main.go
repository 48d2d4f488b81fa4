package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	logLevel  string
	logFormat string
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "sapling",
		Short: "sapling is a tool to grow and evaluate decision trees",
		Long:  `A tool to grow ID3 decision trees from categorical data, evaluate them with two-fold cross validation and use them to make predictions`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(config.logLevel, config.logFormat)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&(config.logLevel), "log-level", "info", "logging level: error, info or debug")
	rootCmd.PersistentFlags().StringVar(&(config.logFormat), "log-format", "pretty", "logging format: pretty or json")
	rootCmd.AddCommand(versionCmd(), runCmd(), growCmd(), testCmd(), predictCmd(), splitCmd())
	return rootCmd
}
