// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"

	"fqtrim/internal/fastq"
)

// Config is the root-level settings struct, populated from command line
// flags through viper.
type Config struct {
	// paths to the input files; Input2 is only set in paired-end mode
	Input1 string `mapstructure:"input1"`
	Input2 string `mapstructure:"input2"`

	// paths to the output files; Output2 is only set in paired-end mode
	Output1 string `mapstructure:"output1"`
	Output2 string `mapstructure:"output2"`

	// quality score format of input reads (33, 64, sam or solexa)
	QualityInput string `mapstructure:"quality-input"`

	// quality score format used when writing reads
	QualityOutput string `mapstructure:"quality-output"`

	// the maximum quality score accepted on input for the 33 and 64 formats
	QualityMax int `mapstructure:"quality-max"`

	// whether to trim low-quality bases from read termini
	TrimQualities bool `mapstructure:"trim-qualities"`

	// the highest quality score which is considered low quality
	MinQuality int `mapstructure:"min-quality"`

	// whether to trim ambiguous bases (N) from read termini
	TrimNs bool `mapstructure:"trim-ns"`

	// the maximum number of ambiguous bases in a retained read; -1 disables
	MaxNs int `mapstructure:"max-ns"`

	// the minimum length of retained reads after trimming
	MinLength int `mapstructure:"min-length"`

	// the maximum length of retained reads after trimming; 0 disables
	MaxLength int `mapstructure:"max-length"`

	// the maximum mean error rate of retained reads; 0 disables
	MaxError float64 `mapstructure:"max-error"`

	// text prepended to the header of every output read
	Prefix string `mapstructure:"prefix"`

	// the maximum number of worker batches processed concurrently; 0 uses
	// one worker per CPU
	Threads int `mapstructure:"threads"`

	// whether to gzip output files regardless of their extension
	Gzip bool `mapstructure:"gzip"`
}

// New returns a new Config struct populated by Viper settings bound from
// command line arguments.
func New() Config {
	var c Config

	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings into struct, %v", err)
	}

	return c
}

// Encoding resolves a quality format name to a configured encoding. The
// maxScore ceiling applies to the linear 33 and 64 formats; the sam and
// solexa formats carry fixed ceilings.
func Encoding(name string, maxScore int) (*fastq.Encoding, error) {
	switch strings.ToLower(name) {
	case "33", "phred+33":
		return fastq.NewEncoding(fastq.PhredOffset33, maxScore)
	case "64", "phred+64":
		return fastq.NewEncoding(fastq.PhredOffset64, maxScore)
	case "sam":
		return fastq.NewEncoding(fastq.PhredOffset33, fastq.MaxPhredScore)
	case "solexa":
		return fastq.NewSolexaEncoding(), nil
	default:
		return nil, fmt.Errorf("unknown quality format %q; expected 33, 64, sam or solexa", name)
	}
}

// InputEncoding returns the encoding used to decode input qualities.
func (c Config) InputEncoding() (*fastq.Encoding, error) {
	return Encoding(c.QualityInput, c.QualityMax)
}

// OutputEncoding returns the encoding used to write output qualities.
func (c Config) OutputEncoding() (*fastq.Encoding, error) {
	return Encoding(c.QualityOutput, c.QualityMax)
}
