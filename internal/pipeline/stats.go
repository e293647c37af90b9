package pipeline

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
)

// Stats aggregates the outcome of a processing run. Workers update the
// counters atomically; reading them is only meaningful once the run has
// completed.
type Stats struct {
	TotalReads   int64
	WrittenReads int64
	Pairs        int64
	LowQuality   int64
	TooShort     int64
	TooLong      int64
	TooManyNs    int64
	BasesTrimmed int64
}

// Comma formats an integer with thousands separators.
func Comma(value int64) string {
	str := strconv.FormatInt(value, 10)
	result := ""
	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		if count > 0 && count%3 == 0 {
			result = "," + result
		}
		result = string(str[i]) + result
		count++
	}
	return result
}

// Report prints a run summary to stdout.
func (s *Stats) Report(duration time.Duration) {
	fmt.Printf("\nTotal reads: %s\n", Comma(s.TotalReads))
	if s.Pairs > 0 {
		fmt.Printf("Read pairs: %s\n", Comma(s.Pairs))
	}
	fmt.Printf("Retained reads: %s\n", Comma(s.WrittenReads))

	if s.TotalReads > 0 {
		retainedPercentage := (float64(s.WrittenReads) / float64(s.TotalReads)) * 100
		color.HiGreen("Percentage of retained reads: %.2f%%\n", retainedPercentage)
	}

	color.HiMagenta("\nLow quality count: %s\n", Comma(s.LowQuality))
	color.HiMagenta("Too short count: %s\n", Comma(s.TooShort))
	color.HiMagenta("Too long count: %s\n", Comma(s.TooLong))
	color.HiMagenta("Too many Ns count: %s\n", Comma(s.TooManyNs))
	fmt.Printf("\nBases trimmed: %s\n", Comma(s.BasesTrimmed))

	fmt.Printf("\nApplication execution time: %s\n", duration)
}
