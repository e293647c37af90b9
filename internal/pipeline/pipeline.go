// Package pipeline streams FASTQ records through cleaning, quality trimming
// and filtering, between plain or gzip compressed files.
package pipeline

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"fqtrim/internal/fastq"
)

// Options carries the per-run processing parameters supplied by the
// configuration layer.
type Options struct {
	InputEncoding  *fastq.Encoding
	OutputEncoding *fastq.Encoding

	// TrimQualities enables trimming of terminal bases with a quality of
	// LowQuality or less.
	TrimQualities bool
	LowQuality    int

	// TrimNs enables trimming of terminal ambiguous bases; reads with more
	// than MaxNs ambiguous bases after trimming are discarded. A negative
	// MaxNs disables the filter.
	TrimNs bool
	MaxNs  int

	// Reads shorter than MinLength or, when MaxLength is positive, longer
	// than MaxLength after trimming are discarded.
	MinLength int
	MaxLength int

	// MaxError discards reads whose mean base-call error probability is at
	// or above the given value; zero or negative disables the filter.
	MaxError float64

	// HeaderPrefix is prepended to the header of every output read.
	HeaderPrefix string

	// Threads bounds the number of worker batches processed concurrently;
	// zero or negative uses one worker per CPU.
	Threads int

	// Compress forces gzip compression of output files regardless of their
	// file extension.
	Compress bool
}

func phred33ToError(qual byte) float64 {
	return math.Pow(10, -(float64(qual)-33)/10.0)
}

func meanError(quality []byte) float64 {
	total := 0.0
	for _, q := range quality {
		total += phred33ToError(q)
	}
	return total / float64(len(quality))
}

type dropReason int

const (
	keepRead dropReason = iota
	dropLowQuality
	dropTooShort
	dropTooLong
	dropTooManyNs
)

// processRead applies the configured edits and filters to a single read,
// returning the verdict and the number of bases trimmed.
func processRead(rec *fastq.Record, opts Options) (dropReason, int) {
	if opts.HeaderPrefix != "" {
		rec.AddPrefixToHeader(opts.HeaderPrefix)
	}

	trimmed := 0
	if opts.TrimQualities || opts.TrimNs {
		threshold := -1
		if opts.TrimQualities {
			threshold = opts.LowQuality
		}
		start, end := rec.TrimLowQualityBases(opts.TrimNs, threshold)
		trimmed = start + end
	}

	if rec.Length() < opts.MinLength {
		return dropTooShort, trimmed
	}
	if opts.MaxLength > 0 && rec.Length() > opts.MaxLength {
		return dropTooLong, trimmed
	}
	if opts.MaxNs >= 0 && rec.CountNs() > opts.MaxNs {
		return dropTooManyNs, trimmed
	}
	if opts.MaxError > 0 && meanError([]byte(rec.Qualities())) >= opts.MaxError {
		return dropLowQuality, trimmed
	}
	return keepRead, trimmed
}

func processBatch(batch []*fastq.Record, opts Options, results chan<- *fastq.Record, wg *sync.WaitGroup, stats *Stats) {
	defer wg.Done()

	for _, rec := range batch {
		reason, trimmed := processRead(rec, opts)
		if trimmed > 0 {
			atomic.AddInt64(&stats.BasesTrimmed, int64(trimmed))
		}

		switch reason {
		case keepRead:
			results <- rec
		case dropLowQuality:
			atomic.AddInt64(&stats.LowQuality, 1)
		case dropTooShort:
			atomic.AddInt64(&stats.TooShort, 1)
		case dropTooLong:
			atomic.AddInt64(&stats.TooLong, 1)
		case dropTooManyNs:
			atomic.AddInt64(&stats.TooManyNs, 1)
		}
	}
}

// ProcessReads runs the single-end flow: records are parsed from inputFile,
// trimmed and filtered in worker batches, and surviving reads are written to
// outputFile. Output order is not guaranteed to match input order.
func ProcessReads(inputFile, outputFile string, opts Options) (*Stats, error) {
	src, err := OpenRecordSource(inputFile, opts.InputEncoding)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	out, err := OpenRecordWriter(outputFile, opts.Compress, opts.OutputEncoding)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	results := make(chan *fastq.Record, 1000)
	done := make(chan struct{})
	var wg sync.WaitGroup
	var writeErr error

	go func() {
		for rec := range results {
			if err := out.Write(rec); err != nil && writeErr == nil {
				writeErr = err
			}
			atomic.AddInt64(&stats.WrittenReads, 1)
		}
		close(done)
	}()

	workers := opts.Threads
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)
	dispatch := func(batch []*fastq.Record) {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			processBatch(batch, opts, results, &wg, stats)
		}()
	}

	const batchSize = 10000
	batch := make([]*fastq.Record, 0, batchSize)

	var readErr error
	for {
		rec := &fastq.Record{}
		ok, err := src.Read(rec)
		if err != nil {
			readErr = err
			break
		}
		if !ok {
			break
		}

		stats.TotalReads++
		batch = append(batch, rec)
		if len(batch) == batchSize {
			dispatch(batch)
			batch = make([]*fastq.Record, 0, batchSize)
		}
	}

	if readErr == nil && len(batch) > 0 {
		dispatch(batch)
	}

	wg.Wait()
	close(results)
	<-done

	if readErr != nil {
		out.Close()
		return stats, readErr
	}
	if writeErr != nil {
		out.Close()
		return stats, writeErr
	}
	if err := out.Close(); err != nil {
		return stats, err
	}
	return stats, nil
}

// ProcessPairedReads runs the paired-end flow: mate files are read in
// lockstep, each pair is validated before processing, and a pair is dropped
// as a unit if either mate fails a filter. Output order matches input order.
func ProcessPairedReads(input1, input2, output1, output2 string, opts Options) (*Stats, error) {
	src1, err := OpenRecordSource(input1, opts.InputEncoding)
	if err != nil {
		return nil, err
	}
	defer src1.Close()

	src2, err := OpenRecordSource(input2, opts.InputEncoding)
	if err != nil {
		return nil, err
	}
	defer src2.Close()

	out1, err := OpenRecordWriter(output1, opts.Compress, opts.OutputEncoding)
	if err != nil {
		return nil, err
	}
	out2, err := OpenRecordWriter(output2, opts.Compress, opts.OutputEncoding)
	if err != nil {
		out1.Close()
		return nil, err
	}

	stats := &Stats{}

	// Flushes and closes both writers on every failure path, so output
	// produced before the offending pair is not lost.
	fail := func(err error) (*Stats, error) {
		out1.Close()
		out2.Close()
		return stats, err
	}
	for {
		rec1, rec2 := &fastq.Record{}, &fastq.Record{}

		ok1, err := src1.Read(rec1)
		if err != nil {
			return fail(err)
		}
		ok2, err := src2.Read(rec2)
		if err != nil {
			return fail(err)
		}
		if ok1 != ok2 {
			return fail(fmt.Errorf("paired input files contain unequal numbers of records"))
		}
		if !ok1 {
			break
		}

		stats.TotalReads += 2
		stats.Pairs++

		if err := fastq.ValidatePairedReads(rec1, rec2); err != nil {
			return fail(err)
		}

		reason1, trimmed1 := processRead(rec1, opts)
		reason2, trimmed2 := processRead(rec2, opts)
		stats.BasesTrimmed += int64(trimmed1 + trimmed2)

		if reason1 != keepRead || reason2 != keepRead {
			countDrop(stats, reason1)
			countDrop(stats, reason2)
			continue
		}

		if err := out1.Write(rec1); err != nil {
			return fail(err)
		}
		if err := out2.Write(rec2); err != nil {
			return fail(err)
		}
		stats.WrittenReads += 2
	}

	if err := out1.Close(); err != nil {
		return stats, err
	}
	if err := out2.Close(); err != nil {
		return stats, err
	}
	return stats, nil
}

func countDrop(stats *Stats, reason dropReason) {
	switch reason {
	case dropLowQuality:
		stats.LowQuality++
	case dropTooShort:
		stats.TooShort++
	case dropTooLong:
		stats.TooLong++
	case dropTooManyNs:
		stats.TooManyNs++
	}
}
