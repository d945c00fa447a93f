package binnie

import "github.com/biogo/hts/sam"

// Bin is the output partition a read is assigned to (spec §3).
type Bin int

const (
	Unchanged Bin = iota
	Bridged
	Remap
)

func (b Bin) String() string {
	switch b {
	case Unchanged:
		return "unchanged"
	case Bridged:
		return "bridged"
	case Remap:
		return "remap"
	default:
		return "invalid"
	}
}

// handle indexes a BinnedRead inside a TemplateBuffer's arena. noHandle
// is reserved to mean "no link", replacing the source's NULL mate-chain
// pointers (spec §9's memory-safety note).
type handle int

const noHandle handle = -1

// binnedRead is one buffered, binned alignment plus the mate-chain
// bookkeeping the source kept inline in its record struct (br_t /
// mate_count / expected_mate_count).
type binnedRead struct {
	rec *sam.Record
	bin Bin

	// originalRefID/originalPos record this read's coordinate in the
	// original stream (even when the emitted record is the bridge
	// alignment), used by FlushController to judge sort order.
	originalRefID int32
	originalPos   int

	ident TemplateIdentity

	expectedMates int
	observedMates int

	prev, next handle
}
