package fastq

import (
	"fmt"
	"math"
)

const (
	// PhredOffset33 is the ASCII offset used by Phred+33 and SAM encodings.
	PhredOffset33 = 33
	// PhredOffset64 is the ASCII offset used by Phred+64 and Solexa encodings.
	PhredOffset64 = 64

	// MinPhredScore encodes to '!' with an offset of 33.
	MinPhredScore = 0
	// MaxPhredScoreDefault bounds scores accepted by the common Phred
	// encodings unless a higher ceiling is configured.
	MaxPhredScoreDefault = 41
	// MaxPhredScore encodes to the last printable character '~' with an
	// offset of 33.
	MaxPhredScore = 93

	// MinSolexaScore encodes to ';' with an offset of 64.
	MinSolexaScore = -5
	// MaxSolexaScore encodes to 'h' with an offset of 64.
	MaxSolexaScore = 40
)

type scheme int

const (
	schemeStandard scheme = iota
	schemeSolexa
)

// Solexa scores are defined as Q = -10 * log10(p / (1 - p)) and differ from
// Phred scores below 13, so conversion between the two is lossy. The mapping
// is precomputed once for the full score range.
var (
	solexaToPhred33 [MaxSolexaScore - MinSolexaScore + 1]byte
	phredToSolexa   [MaxPhredScore + 1]int
)

func init() {
	for s := MinSolexaScore; s <= MaxSolexaScore; s++ {
		p := int(math.Round(10 * math.Log10(1+math.Pow(10, float64(s)/10))))
		solexaToPhred33[s-MinSolexaScore] = byte(p + PhredOffset33)
	}

	// Phred 0 maps to negative infinity in the Solexa domain; clamp to the
	// lowest representable Solexa score.
	phredToSolexa[0] = MinSolexaScore
	for p := 1; p <= MaxPhredScore; p++ {
		s := int(math.Round(10 * math.Log10(math.Pow(10, float64(p)/10)-1)))
		if s < MinSolexaScore {
			s = MinSolexaScore
		}
		phredToSolexa[p] = s
	}
}

// Encoding describes how raw ASCII quality characters map to quality scores.
// Decoded scores are always stored in the canonical Phred+33 alphabet, so
// every consumer downstream of parsing sees a single convention regardless
// of the input format. An Encoding is immutable after construction and safe
// to share between goroutines.
type Encoding struct {
	scheme   scheme
	offset   int
	maxScore int
}

// NewEncoding returns a linear encoding with the given ASCII offset (33 or
// 64) accepting scores from 0 to maxScore. Input above maxScore is rejected
// while output is silently truncated to it.
func NewEncoding(offset, maxScore int) (*Encoding, error) {
	if offset != PhredOffset33 && offset != PhredOffset64 {
		return nil, fmt.Errorf("invalid quality score offset %d; expected 33 or 64", offset)
	}
	if maxScore < MinPhredScore || maxScore > MaxPhredScore {
		return nil, fmt.Errorf("invalid maximum quality score %d; expected 0 to %d", maxScore, MaxPhredScore)
	}
	if offset+maxScore > '~' {
		return nil, fmt.Errorf("maximum quality score %d is not printable with offset %d", maxScore, offset)
	}

	return &Encoding{scheme: schemeStandard, offset: offset, maxScore: maxScore}, nil
}

// NewSolexaEncoding returns the Solexa encoding: offset 64 with raw
// characters between ';' and 'h'. Decoding converts the logarithmic Solexa
// scores to Phred, which is lossy for scores below 13.
func NewSolexaEncoding() *Encoding {
	return &Encoding{scheme: schemeSolexa, offset: PhredOffset64, maxScore: MaxSolexaScore}
}

// Phred33 returns the default Illumina 1.8+ encoding.
func Phred33() *Encoding {
	return &Encoding{scheme: schemeStandard, offset: PhredOffset33, maxScore: MaxPhredScoreDefault}
}

// Phred64 returns the Illumina 1.3+ encoding.
func Phred64() *Encoding {
	return &Encoding{scheme: schemeStandard, offset: PhredOffset64, maxScore: MaxPhredScoreDefault}
}

// SAM returns the Phred+33 encoding covering the full printable range.
func SAM() *Encoding {
	return &Encoding{scheme: schemeStandard, offset: PhredOffset33, maxScore: MaxPhredScore}
}

// Solexa returns the Solexa encoding.
func Solexa() *Encoding {
	return NewSolexaEncoding()
}

// Name returns the canonical name of the encoding for logging and reporting.
func (e *Encoding) Name() string {
	switch {
	case e.scheme == schemeSolexa:
		return "Solexa"
	case e.offset == PhredOffset64:
		return "Phred+64"
	case e.maxScore == MaxPhredScore:
		return "Phred+33 (SAM)"
	default:
		return "Phred+33"
	}
}

// Offset returns the ASCII offset of the encoding.
func (e *Encoding) Offset() int {
	return e.offset
}

// MaxScore returns the highest score accepted on input; output scores are
// truncated to the same value.
func (e *Encoding) MaxScore() int {
	return e.maxScore
}

// DecodeString converts a string of raw ASCII quality characters to the
// canonical Phred+33 alphabet in place. A character encoding a score outside
// the range allowed by the encoding results in a FormatError, since it
// typically means the input uses a different quality format than configured.
func (e *Encoding) DecodeString(quals []byte) error {
	if e.scheme == schemeSolexa {
		return e.decodeSolexa(quals)
	}

	for i, raw := range quals {
		score := int(raw) - e.offset
		if score < MinPhredScore || score > e.maxScore {
			return newFormatError(fmt.Sprintf(
				"invalid quality character %q; %s scores must be in the range %q to %q. "+
					"Please verify the quality format of the input",
				raw, e.Name(), byte(e.offset), byte(e.offset+e.maxScore)))
		}
		quals[i] = byte(score + PhredOffset33)
	}
	return nil
}

func (e *Encoding) decodeSolexa(quals []byte) error {
	const minRaw = MinSolexaScore + PhredOffset64
	const maxRaw = MaxSolexaScore + PhredOffset64

	for i, raw := range quals {
		if raw < minRaw || raw > maxRaw {
			return newFormatError(fmt.Sprintf(
				"invalid quality character %q; Solexa scores must be in the range %q to %q. "+
					"Please verify the quality format of the input",
				raw, byte(minRaw), byte(maxRaw)))
		}
		quals[i] = solexaToPhred33[int(raw)-PhredOffset64-MinSolexaScore]
	}
	return nil
}

// EncodeString converts a string of canonical Phred+33 quality characters to
// the external representation of the encoding in place. Scores above the
// configured maximum are silently truncated to it, matching the permissive
// output behavior expected of legacy formats; no error is possible.
func (e *Encoding) EncodeString(quals []byte) {
	for i, q := range quals {
		score := int(q) - PhredOffset33
		if score > e.maxScore {
			score = e.maxScore
		}
		if e.scheme == schemeSolexa {
			score = phredToSolexa[score]
		}
		quals[i] = byte(score + e.offset)
	}
}
