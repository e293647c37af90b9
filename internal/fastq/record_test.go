package fastq

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// sliceSource yields lines from a fixed slice, the simplest LineSource.
type sliceSource struct {
	lines []string
	pos   int
}

func (s *sliceSource) Next() (string, bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true
}

func mustRecord(t *testing.T, header, sequence, qualities string) *Record {
	t.Helper()
	rec, err := NewRecord(header, sequence, qualities, Phred33())
	if err != nil {
		t.Fatalf("NewRecord(%q, %q, %q) = %v", header, sequence, qualities, err)
	}
	return rec
}

func TestReadRecord(t *testing.T) {
	src := &sliceSource{lines: []string{"@read1/1", "ACGTN", "+", "IIIII"}}

	rec := &Record{}
	ok, err := rec.Read(src, Phred33())
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "read1/1", rec.Header())
	assert.Equal(t, "ACGTN", rec.Sequence())
	assert.Equal(t, "IIIII", rec.Qualities())

	info := ExtractMateInfo(rec)
	assert.Equal(t, "read1", info.Name)
	assert.Equal(t, Mate1, info.Mate)

	// The first end-of-input at a record boundary is a clean termination
	ok, err = rec.Read(src, Phred33())
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestReadRecordSeparatorContentIsDiscarded(t *testing.T) {
	src := &sliceSource{lines: []string{"@read1", "ACGT", "+read1 extra text", "IIII"}}

	rec := &Record{}
	ok, err := rec.Read(src, Phred33())
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestReadRecordErrors(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantErr string
	}{
		{
			name:    "HeaderWithoutSigil",
			lines:   []string{"read1", "ACGT", "+", "IIII"},
			wantErr: "FASTQ header did not start with '@'",
		},
		{
			name:    "EmptyHeader",
			lines:   []string{"@", "ACGT", "+", "IIII"},
			wantErr: "FASTQ header is empty",
		},
		{
			name:    "CutOffAfterHeader",
			lines:   []string{"@read1"},
			wantErr: "cut off after header",
		},
		{
			name:    "EmptySequence",
			lines:   []string{"@read1", "", "+", ""},
			wantErr: "sequence is empty",
		},
		{
			name:    "CutOffAfterSequence",
			lines:   []string{"@read1", "ACGT"},
			wantErr: "cut off after sequence",
		},
		{
			name:    "MissingSeparator",
			lines:   []string{"@read1", "ACGT", "IIII"},
			wantErr: "lacks separator character",
		},
		{
			name:    "CutOffAfterSeparator",
			lines:   []string{"@read1", "ACGT", "+"},
			wantErr: "cut off after separator",
		},
		{
			name:    "LengthMismatch",
			lines:   []string{"@read1", "ACGT", "+", "III"},
			wantErr: "sequence/quality lengths do not match",
		},
		{
			name:    "InvalidBase",
			lines:   []string{"@read1", "AXGT", "+", "IIII"},
			wantErr: "invalid character",
		},
		{
			name:    "QualityOutOfRange",
			lines:   []string{"@read1", "ACGT", "+", "II I"},
			wantErr: "invalid quality character",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &Record{}
			ok, err := rec.Read(&sliceSource{lines: tc.lines}, Phred33())
			if ok {
				t.Fatalf("Read(%v) succeeded, want error", tc.lines)
			}
			if err == nil {
				t.Fatalf("Read(%v) = nil error, want %q", tc.lines, tc.wantErr)
			}

			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("Read(%v) returned %T, want *FormatError", tc.lines, err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Read(%v) = %q, want message containing %q", tc.lines, err, tc.wantErr)
			}
		})
	}
}

func TestCleanSequence(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		expected string
		wantErr  bool
	}{
		{name: "UpperCasePassesThrough", sequence: "ACGTN", expected: "ACGTN"},
		{name: "LowerCaseAndDots", sequence: "acgtn.", expected: "ACGTNN"},
		{name: "Empty", sequence: "", expected: ""},
		{name: "InvalidBase", sequence: "ACXGT", wantErr: true},
		{name: "Whitespace", sequence: "ACG T", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cleaned, err := CleanSequence(tc.sequence)
			if tc.wantErr {
				var formatErr *FormatError
				assert.Error(t, err)
				assert.True(t, errors.As(err, &formatErr))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, cleaned)
		})
	}
}

// TestFormatRoundTrip verifies that parsing followed by serialization with
// the same encoding reproduces the original record exactly.
func TestFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		enc   *Encoding
		lines []string
	}{
		{name: "Phred33", enc: Phred33(), lines: []string{"@read1/1", "ACGTN", "+", "!#IJ;"}},
		{name: "Phred64", enc: Phred64(), lines: []string{"@read2", "GATTACA", "+", "@ABChhh"}},
		{name: "SAM", enc: SAM(), lines: []string{"@read3", "ACGT", "+", "!I~a"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &Record{}
			ok, err := rec.Read(&sliceSource{lines: tc.lines}, tc.enc)
			assert.NoError(t, err)
			assert.True(t, ok)

			expected := strings.Join(tc.lines, "\n") + "\n"
			assert.Equal(t, expected, rec.Format(tc.enc))
		})
	}
}

func TestFormatWithDifferentOutputEncoding(t *testing.T) {
	rec := mustRecord(t, "read1", "ACGTN", "IIIII")
	assert.Equal(t, "@read1\nACGTN\n+\nhhhhh\n", rec.Format(Phred64()))
}

func TestTrimLowQualityBases(t *testing.T) {
	tests := []struct {
		name         string
		sequence     string
		qualities    string
		trimNs       bool
		lowQuality   int
		expectedSeq  string
		expectedTrim [2]int
	}{
		{
			name:         "NothingToTrim",
			sequence:     "ACGT",
			qualities:    "IIII",
			trimNs:       true,
			lowQuality:   2,
			expectedSeq:  "ACGT",
			expectedTrim: [2]int{0, 0},
		},
		{
			name:         "TerminalNsAndLowQuality",
			sequence:     "NACGTN",
			qualities:    "!IIII!",
			trimNs:       true,
			lowQuality:   2,
			expectedSeq:  "ACGT",
			expectedTrim: [2]int{1, 1},
		},
		{
			name:         "NsKeptWithoutTrimNs",
			sequence:     "NACGTN",
			qualities:    "IIIIII",
			trimNs:       false,
			lowQuality:   2,
			expectedSeq:  "NACGTN",
			expectedTrim: [2]int{0, 0},
		},
		{
			name:         "InteriorBasesRetained",
			sequence:     "ACNGT",
			qualities:    "II!II",
			trimNs:       true,
			lowQuality:   2,
			expectedSeq:  "ACNGT",
			expectedTrim: [2]int{0, 0},
		},
		{
			name:         "EverythingLowQuality",
			sequence:     "ACGT",
			qualities:    "!!!!",
			trimNs:       false,
			lowQuality:   2,
			expectedSeq:  "",
			expectedTrim: [2]int{4, 0},
		},
		{
			name:         "QualityCheckDisabled",
			sequence:     "NACGTN",
			qualities:    "!!!!!!",
			trimNs:       true,
			lowQuality:   -1,
			expectedSeq:  "ACGT",
			expectedTrim: [2]int{1, 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := mustRecord(t, "read1", tc.sequence, tc.qualities)
			start, end := rec.TrimLowQualityBases(tc.trimNs, tc.lowQuality)

			if start != tc.expectedTrim[0] || end != tc.expectedTrim[1] {
				t.Errorf("TrimLowQualityBases() = (%d, %d), want (%d, %d)",
					start, end, tc.expectedTrim[0], tc.expectedTrim[1])
			}
			assert.Equal(t, tc.expectedSeq, rec.Sequence())
			assert.Equal(t, rec.Length(), len(rec.Qualities()))

			// Trimming is idempotent: a second pass removes nothing
			start, end = rec.TrimLowQualityBases(tc.trimNs, tc.lowQuality)
			if start != 0 || end != 0 {
				t.Errorf("second TrimLowQualityBases() = (%d, %d), want (0, 0)", start, end)
			}
			assert.Equal(t, tc.expectedSeq, rec.Sequence())
		})
	}
}

func TestTruncate(t *testing.T) {
	rec := mustRecord(t, "read1", "ACGTN", "!#$%I")
	rec.Truncate(0, 5)
	assert.Equal(t, "ACGTN", rec.Sequence())

	rec.Truncate(1, 3)
	assert.Equal(t, "CGT", rec.Sequence())
	assert.Equal(t, "#$%", rec.Qualities())

	rec.Truncate(2, 10)
	assert.Equal(t, "T", rec.Sequence())
	assert.Equal(t, "%", rec.Qualities())
}

func TestReverseComplement(t *testing.T) {
	rec := mustRecord(t, "read1", "AACGTN", "!#$%&I")

	rec.ReverseComplement()
	assert.Equal(t, "NACGTT", rec.Sequence())
	assert.Equal(t, "I&%$#!", rec.Qualities())

	// Applying the operation twice restores the original read
	rec.ReverseComplement()
	assert.Equal(t, "AACGTN", rec.Sequence())
	assert.Equal(t, "!#$%&I", rec.Qualities())
}

func TestCountNs(t *testing.T) {
	assert.Equal(t, 0, mustRecord(t, "r", "ACGT", "IIII").CountNs())
	assert.Equal(t, 3, mustRecord(t, "r", "NANGN", "IIIII").CountNs())
}

func TestAddPrefixToHeader(t *testing.T) {
	rec := mustRecord(t, "read1", "ACGT", "IIII")
	rec.AddPrefixToHeader("run7.")
	assert.Equal(t, "run7.read1", rec.Header())
}

func TestNewRecordCleansSequence(t *testing.T) {
	rec, err := NewRecord("read1", "acgtn.", "IIIIII", Phred33())
	assert.NoError(t, err)
	assert.Equal(t, "ACGTNN", rec.Sequence())
}

func TestNewRecordLengthMismatch(t *testing.T) {
	_, err := NewRecord("read1", "ACGT", "III", Phred33())
	var formatErr *FormatError
	assert.Error(t, err)
	assert.True(t, errors.As(err, &formatErr))
}
