// Package fastq implements the FASTQ record model: parsing and serialization
// of four-line records, conversion between quality score encodings,
// sequence cleaning, quality-based end trimming, reverse complementation,
// and mate-pair validation. Quality scores are held internally in the
// canonical Phred+33 alphabet regardless of the input or output format.
package fastq

import (
	"fmt"
	"strings"
)

// LineSource yields successive input lines, stripped of their trailing
// newline. Next returns false once no more lines are available. The
// abstraction keeps record parsing independent of whatever buffering or
// decompression the surrounding pipeline performs.
type LineSource interface {
	Next() (string, bool)
}

// Record is a single FASTQ read. The sequence contains only the characters
// A, C, G, T and N, and the qualities are stored in the canonical Phred+33
// alphabet independent of the encoding the record was parsed with. Sequence
// and qualities always have the same length.
//
// A Record is a plain value; it is not safe to mutate one record from
// multiple goroutines.
type Record struct {
	header    string
	sequence  string
	qualities string
}

// NewRecord builds a validated record from its raw parts: the sequence is
// cleaned and the qualities are decoded using the given encoding.
func NewRecord(header, sequence, qualities string, enc *Encoding) (*Record, error) {
	r := &Record{header: header, sequence: sequence, qualities: qualities}
	if err := r.process(enc); err != nil {
		return nil, err
	}
	return r, nil
}

// Header returns the record header without the leading '@'.
func (r *Record) Header() string {
	return r.header
}

// Sequence returns the cleaned nucleotide sequence.
func (r *Record) Sequence() string {
	return r.sequence
}

// Qualities returns the quality scores in the canonical Phred+33 alphabet.
func (r *Record) Qualities() string {
	return r.qualities
}

// Length returns the number of bases in the record.
func (r *Record) Length() int {
	return len(r.sequence)
}

// CountNs returns the number of ambiguous bases in the sequence.
func (r *Record) CountNs() int {
	return strings.Count(r.sequence, "N")
}

// AddPrefixToHeader prepends the given text to the record header.
func (r *Record) AddPrefixToHeader(prefix string) {
	r.header = prefix + r.header
}

// Read consumes the next four lines from src and replaces the contents of
// the record. It returns (false, nil) if no more lines were available before
// the header line, which is the normal end of input; running out of lines
// anywhere later means a truncated record and is always an error. Qualities
// are decoded using enc.
func (r *Record) Read(src LineSource, enc *Encoding) (bool, error) {
	line, ok := src.Next()
	if !ok {
		return false, nil
	}
	if len(line) == 0 || line[0] != '@' {
		return false, newFormatError("FASTQ header did not start with '@'")
	}
	r.header = line[1:]
	if r.header == "" {
		return false, newFormatError("FASTQ header is empty")
	}

	if line, ok = src.Next(); !ok {
		return false, newFormatError("partial FASTQ record; cut off after header")
	}
	r.sequence = line
	if r.sequence == "" {
		return false, newFormatError("sequence is empty")
	}

	if line, ok = src.Next(); !ok {
		return false, newFormatError("partial FASTQ record; cut off after sequence")
	}
	if len(line) == 0 || line[0] != '+' {
		return false, newFormatError("FASTQ record lacks separator character (+)")
	}

	if line, ok = src.Next(); !ok {
		return false, newFormatError("partial FASTQ record; cut off after separator")
	}
	r.qualities = line

	if err := r.process(enc); err != nil {
		return false, err
	}
	return true, nil
}

// Format returns the four-line textual form of the record, with the quality
// scores re-encoded using enc. The block is built in a single pre-sized
// buffer; the quality segment is transformed in place after being appended.
func (r *Record) Format(enc *Encoding) string {
	// header, sequence, qualities, 4 newlines, '@' and '+'
	buf := make([]byte, 0, len(r.header)+2*len(r.sequence)+6)

	buf = append(buf, '@')
	buf = append(buf, r.header...)
	buf = append(buf, '\n')
	buf = append(buf, r.sequence...)
	buf = append(buf, "\n+\n"...)

	start := len(buf)
	buf = append(buf, r.qualities...)
	enc.EncodeString(buf[start:])

	buf = append(buf, '\n')
	return string(buf)
}

// TrimLowQualityBases removes bases from both ends of the read whose quality
// score is lowQuality or less, or which are ambiguous if trimNs is set. A
// negative lowQuality disables the quality criterion. It returns the number
// of bases removed from the start and from the end; a read on which every
// base fails the criteria is emptied, reporting its full length as trimmed
// from the start.
func (r *Record) TrimLowQualityBases(trimNs bool, lowQuality int) (int, int) {
	low := lowQuality + PhredOffset33
	n := len(r.sequence)
	if n == 0 {
		return 0, 0
	}

	retained := func(i int) bool {
		return (!trimNs || r.sequence[i] != 'N') && int(r.qualities[i]) > low
	}

	lower := n
	for i := 0; i < n; i++ {
		if retained(i) {
			lower = i
			break
		}
	}
	if lower == n {
		r.sequence = ""
		r.qualities = ""
		return n, 0
	}

	upper := lower
	for i := n - 1; i > lower; i-- {
		if retained(i) {
			upper = i
			break
		}
	}

	fromStart := lower
	fromEnd := n - upper - 1
	if fromStart > 0 || fromEnd > 0 {
		r.sequence = r.sequence[lower : upper+1]
		r.qualities = r.qualities[lower : upper+1]
	}
	return fromStart, fromEnd
}

// Truncate replaces the sequence and qualities with the substring starting
// at pos and containing at most length bases. Requesting the full read is a
// no-op.
func (r *Record) Truncate(pos, length int) {
	if pos == 0 && length >= len(r.sequence) {
		return
	}
	end := pos + length
	if end > len(r.sequence) {
		end = len(r.sequence)
	}
	r.sequence = r.sequence[pos:end]
	r.qualities = r.qualities[pos:end]
}

// Lookup table for complementary bases based only on the last 4 bits of the
// ASCII code; A/C/G/T/N all map to distinct slots under this mask. The
// cleaner guarantees no other byte can reach this table.
var complements = [16]byte{
	'-', 'T', '-', 'G', 'A', '-', '-', 'C',
	'-', '-', '-', '-', '-', '-', 'N', '-',
}

// ReverseComplement reverses the read in place, complementing each base.
// The quality string is reversed alongside the sequence since both describe
// the same physical bases.
func (r *Record) ReverseComplement() {
	n := len(r.sequence)
	seq := make([]byte, n)
	qual := make([]byte, n)
	for i := 0; i < n; i++ {
		seq[i] = complements[r.sequence[n-1-i]&0xf]
		qual[i] = r.qualities[n-1-i]
	}
	r.sequence = string(seq)
	r.qualities = string(qual)
}

// CleanSequence validates and normalizes a raw nucleotide sequence: upper
// case bases pass through, lower case bases are uppercased and '.' becomes
// 'N'. Any other character results in a FormatError. The input string is
// returned unchanged, without copying, when no normalization was needed.
func CleanSequence(sequence string) (string, error) {
	var buf []byte
	for i := 0; i < len(sequence); i++ {
		c := sequence[i]
		switch c {
		case 'A', 'C', 'G', 'T', 'N':
			continue
		case 'a', 'c', 'g', 't', 'n':
			c -= 'a' - 'A'
		case '.':
			c = 'N'
		default:
			return "", newFormatError(fmt.Sprintf(
				"invalid character %q in FASTQ sequence; only A, C, G, T and N are expected", c))
		}
		if buf == nil {
			buf = []byte(sequence)
		}
		buf[i] = c
	}
	if buf == nil {
		return sequence, nil
	}
	return string(buf), nil
}

// process establishes the record invariants following construction or
// parsing: equal sequence/quality lengths, a cleaned sequence, and qualities
// decoded to the canonical Phred+33 alphabet. The sequence is cleaned before
// the qualities are decoded so that a malformed sequence is reported before
// any ambiguity about the quality format.
func (r *Record) process(enc *Encoding) error {
	if len(r.qualities) != len(r.sequence) {
		return newFormatError("invalid FASTQ record; sequence/quality lengths do not match")
	}

	seq, err := CleanSequence(r.sequence)
	if err != nil {
		return err
	}
	r.sequence = seq

	quals := []byte(r.qualities)
	if err := enc.DecodeString(quals); err != nil {
		return err
	}
	r.qualities = string(quals)
	return nil
}
