package pipeline

import (
	"bufio"
	"os"
	"strings"

	"github.com/klauspost/pgzip"

	"fqtrim/internal/fastq"
)

// RecordWriter serializes FASTQ records to a plain or gzip compressed file,
// re-encoding qualities with the configured output encoding.
type RecordWriter struct {
	file *os.File
	gz   *pgzip.Writer
	buf  *bufio.Writer
	enc  *fastq.Encoding
}

// OpenRecordWriter creates the given output file. Output is gzip compressed
// when compress is set or the path ends in ".gz".
func OpenRecordWriter(path string, compress bool, enc *fastq.Encoding) (*RecordWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &RecordWriter{file: file, enc: enc}
	if compress || strings.HasSuffix(path, ".gz") {
		w.gz = pgzip.NewWriter(file)
		w.buf = bufio.NewWriter(w.gz)
	} else {
		w.buf = bufio.NewWriter(file)
	}
	return w, nil
}

// Write serializes one record.
func (w *RecordWriter) Write(rec *fastq.Record) error {
	_, err := w.buf.WriteString(rec.Format(w.enc))
	return err
}

// Close flushes buffered output and closes the file.
func (w *RecordWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			return err
		}
	}
	return w.file.Close()
}
