// Package cmd is for command line interactions with the fqtrim application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "fqtrim",
	Short: `Clean high-throughput sequencing reads in FASTQ format.
Validates records, converts quality score encodings, and trims
low-quality and ambiguous bases from read termini`,
	Version: "0.2.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
