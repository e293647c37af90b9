package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fqtrim/internal/fastq"
)

var encodingsCmd = &cobra.Command{
	Use:   "encodings",
	Short: "List the supported quality score formats",
	Run: func(cmd *cobra.Command, args []string) {
		for _, enc := range []*fastq.Encoding{
			fastq.Phred33(),
			fastq.Phred64(),
			fastq.SAM(),
			fastq.Solexa(),
		} {
			fmt.Printf("%-16s offset %d, max score %d\n", enc.Name(), enc.Offset(), enc.MaxScore())
		}
	},
}

func init() {
	rootCmd.AddCommand(encodingsCmd)
}
