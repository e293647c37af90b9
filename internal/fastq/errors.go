package fastq

// FormatError reports a malformed FASTQ record: bad structure, an invalid
// sequence character, a sequence/quality length mismatch, or a quality score
// outside the range allowed by the configured encoding.
type FormatError struct {
	msg string
}

func newFormatError(msg string) *FormatError {
	return &FormatError{msg: msg}
}

func (e *FormatError) Error() string {
	return e.msg
}

// PairError reports paired reads that cannot belong together: an empty mate,
// mismatching read names, or inconsistent /1 and /2 mate numbering.
type PairError struct {
	msg string
}

func newPairError(msg string) *PairError {
	return &PairError{msg: msg}
}

func (e *PairError) Error() string {
	return e.msg
}
