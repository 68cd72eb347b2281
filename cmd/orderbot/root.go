package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped by the release build.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "orderbot",
	Short: "orderbot takes delivery orders over a text messaging channel",
	Long: `orderbot drives a per-conversation ordering flow: trigger phrase,
delivery zone, menu items with options and quantities, customer data,
payment method and PIX receipt capture.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of orderbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("orderbot version %s\n", Version)
	},
}
