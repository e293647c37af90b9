package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fqtrim/config"
	"fqtrim/internal/pipeline"
)

// trimCmd processes a single-end FASTQ file.
var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Trim and filter single-end reads",
	Long: `Trim reads a FASTQ file (plain or gzip compressed), validates every
record, trims low-quality and ambiguous bases from the read termini, and
writes the retained reads using the requested output quality format`,
	Run: runTrim,
}

func init() {
	f := trimCmd.Flags()
	f.StringP("input1", "i", "", "input FASTQ file, .gz supported (required)")
	f.StringP("output1", "o", "", "output FASTQ file (required)")
	addProcessingFlags(trimCmd)

	trimCmd.MarkFlagRequired("input1")
	trimCmd.MarkFlagRequired("output1")

	rootCmd.AddCommand(trimCmd)
}

// addProcessingFlags registers the flags shared by the trim and pairs
// commands; their names match the mapstructure tags on config.Config.
func addProcessingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("quality-input", "33", "quality format of input reads: 33, 64, sam or solexa")
	f.String("quality-output", "33", "quality format of output reads: 33, 64, sam or solexa")
	f.Int("quality-max", 41, "maximum accepted quality score for the 33 and 64 formats")
	f.Bool("trim-qualities", false, "trim low-quality bases from read termini")
	f.Int("min-quality", 2, "highest quality score considered low quality")
	f.Bool("trim-ns", false, "trim ambiguous bases (N) from read termini")
	f.Int("max-ns", -1, "maximum ambiguous bases in a retained read; -1 disables")
	f.Int("min-length", 15, "minimum length of retained reads")
	f.Int("max-length", 0, "maximum length of retained reads; 0 disables")
	f.Float64("max-error", 0, "maximum mean error rate of retained reads; 0 disables")
	f.String("prefix", "", "text prepended to every output read header")
	f.Int("threads", 0, "maximum concurrent worker batches; 0 uses all CPUs")
	f.Bool("gzip", false, "gzip output regardless of file extension")
}

// loadOptions binds the command's flags into viper and resolves the
// processing options, exiting on invalid settings.
func loadOptions(cmd *cobra.Command) (config.Config, pipeline.Options) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		log.Fatalf("%v", err)
	}
	cfg := config.New()

	inEnc, err := cfg.InputEncoding()
	if err != nil {
		log.Fatalf("%v", err)
	}
	outEnc, err := cfg.OutputEncoding()
	if err != nil {
		log.Fatalf("%v", err)
	}

	return cfg, pipeline.Options{
		InputEncoding:  inEnc,
		OutputEncoding: outEnc,
		TrimQualities:  cfg.TrimQualities,
		LowQuality:     cfg.MinQuality,
		TrimNs:         cfg.TrimNs,
		MaxNs:          cfg.MaxNs,
		MinLength:      cfg.MinLength,
		MaxLength:      cfg.MaxLength,
		MaxError:       cfg.MaxError,
		HeaderPrefix:   cfg.Prefix,
		Threads:        cfg.Threads,
		Compress:       cfg.Gzip,
	}
}

func runTrim(cmd *cobra.Command, args []string) {
	cfg, opts := loadOptions(cmd)

	start := time.Now()
	stats, err := pipeline.ProcessReads(cfg.Input1, cfg.Output1, opts)
	if err != nil {
		log.Fatalf("Error processing reads: %v", err)
	}

	stats.Report(time.Since(start))
	fmt.Println("\nTrimming completed")
}
