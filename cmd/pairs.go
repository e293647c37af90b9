package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"fqtrim/internal/pipeline"
)

// pairsCmd processes two mate FASTQ files in lockstep.
var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Trim and filter paired-end reads",
	Long: `Pairs reads two mate FASTQ files in lockstep, validates that the
records form proper pairs (matching names and consistent /1 /2 numbering),
applies the same trimming and filters as the trim command, and drops a pair
as a unit when either mate fails a filter`,
	Run: runPairs,
}

func init() {
	f := pairsCmd.Flags()
	f.String("input1", "", "input FASTQ file with mate 1 reads (required)")
	f.String("input2", "", "input FASTQ file with mate 2 reads (required)")
	f.String("output1", "", "output FASTQ file for mate 1 reads (required)")
	f.String("output2", "", "output FASTQ file for mate 2 reads (required)")
	addProcessingFlags(pairsCmd)

	pairsCmd.MarkFlagRequired("input1")
	pairsCmd.MarkFlagRequired("input2")
	pairsCmd.MarkFlagRequired("output1")
	pairsCmd.MarkFlagRequired("output2")

	rootCmd.AddCommand(pairsCmd)
}

func runPairs(cmd *cobra.Command, args []string) {
	cfg, opts := loadOptions(cmd)

	start := time.Now()
	stats, err := pipeline.ProcessPairedReads(cfg.Input1, cfg.Input2, cfg.Output1, cfg.Output2, opts)
	if err != nil {
		log.Fatalf("Error processing read pairs: %v", err)
	}

	stats.Report(time.Since(start))
	fmt.Println("\nTrimming completed")
}
