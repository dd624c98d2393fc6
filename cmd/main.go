package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ticker-calendar",
	Short: "A CLI for managing the Ticker Calendar services",
	Long:  `Ticker Calendar tracks corporate event dates for stocks and serves them as subscribable ICS feeds...`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
