package pipeline

import (
	"bufio"
	"os"
	"strings"

	"github.com/klauspost/pgzip"

	"fqtrim/internal/fastq"
)

// RecordSource reads FASTQ records from a plain or gzip compressed file. It
// implements fastq.LineSource so the record parser stays decoupled from the
// buffering and decompression happening here.
type RecordSource struct {
	file    *os.File
	gz      *pgzip.Reader
	scanner *bufio.Scanner
	enc     *fastq.Encoding
}

// OpenRecordSource opens the given file for reading, transparently
// decompressing it when the path ends in ".gz". Qualities are decoded with
// enc.
func OpenRecordSource(path string, enc *fastq.Encoding) (*RecordSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src := &RecordSource{file: file, enc: enc}
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		src.gz = gz
		src.scanner = bufio.NewScanner(gz)
	} else {
		src.scanner = bufio.NewScanner(file)
	}
	// Long-read platforms produce lines well beyond the default token limit
	src.scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return src, nil
}

// Next returns the next input line, or false at end of input.
func (s *RecordSource) Next() (string, bool) {
	if s.scanner.Scan() {
		return s.scanner.Text(), true
	}
	return "", false
}

// Read parses the next record from the source into rec. It returns false
// with a nil error at a clean end of input. An I/O error from the underlying
// scanner takes precedence over the parse error it caused, since the parser
// cannot tell a failed read from a truncated record.
func (s *RecordSource) Read(rec *fastq.Record) (bool, error) {
	ok, err := rec.Read(s, s.enc)
	if err != nil {
		if serr := s.scanner.Err(); serr != nil {
			return false, serr
		}
		return false, err
	}
	if !ok {
		if err := s.scanner.Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// Close releases the underlying file and decompressor.
func (s *RecordSource) Close() error {
	if s.gz != nil {
		s.gz.Close()
	}
	return s.file.Close()
}
