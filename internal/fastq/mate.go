package fastq

import (
	"fmt"
	"strings"
)

// MateTag identifies which member of a read pair a record claims to be,
// based on the /1 or /2 suffix convention in read names.
type MateTag int

const (
	MateUnknown MateTag = iota
	Mate1
	Mate2
)

// MateInfo is the pairing identity derived from a record header: the read
// name up to the first space with any /1 or /2 suffix stripped, and the tag
// the suffix encoded.
type MateInfo struct {
	Name string
	Mate MateTag
}

// ExtractMateInfo derives the pairing identity from the header of a record.
func ExtractMateInfo(r *Record) MateInfo {
	header := r.Header()
	pos := strings.IndexByte(header, ' ')
	if pos == -1 {
		pos = len(header)
	}

	info := MateInfo{Mate: MateUnknown}
	if pos >= 2 {
		switch header[pos-2 : pos] {
		case "/1":
			info.Mate = Mate1
			pos -= 2
		case "/2":
			info.Mate = Mate2
			pos -= 2
		}
	}

	info.Name = header[:pos]
	return info
}

// ValidatePairedReads checks that two records form a plausible read pair:
// neither read may be empty, the read names must match, and if either read
// carries a mate tag then mate1 must be tagged /1 and mate2 tagged /2. Two
// untagged reads with matching names are accepted, since not all pipelines
// use the suffix convention. Violations are reported as a PairError.
func ValidatePairedReads(mate1, mate2 *Record) error {
	if mate1.Length() == 0 || mate2.Length() == 0 {
		return newPairError("pair contains empty reads")
	}

	info1 := ExtractMateInfo(mate1)
	info2 := ExtractMateInfo(mate2)

	if info1.Name != info2.Name {
		return newPairError(fmt.Sprintf(
			"pair contains reads with mismatching names: %q and %q", info1.Name, info2.Name))
	}

	if info1.Mate != MateUnknown || info2.Mate != MateUnknown {
		if info1.Mate != Mate1 || info2.Mate != Mate2 {
			return newPairError("inconsistent mate numbering of paired reads")
		}
	}

	return nil
}
