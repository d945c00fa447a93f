package binnie

import (
	"github.com/biogo/hts/sam"
)

var (
	tagRG = sam.NewTag("RG")
	tagFI = sam.NewTag("FI")
	tagTC = sam.NewTag("TC")
)

// MQ is the normalised mapping-quality state the Binner decides on
// (spec §3). A reported mapq of 255 ("unavailable") is coerced to
// Unmapped, matching br_get_mapq in the original implementation.
type MQ int

const (
	MQUnmapped MQ = iota
	MQZero
	MQPositive
)

// classifyMQ derives the MQ abstraction for a record, or for "no record"
// when r is nil (used for the absent-bridge-read case).
func classifyMQ(r *sam.Record) MQ {
	if r == nil {
		return MQUnmapped
	}
	if r.Flags&sam.Unmapped != 0 {
		return MQUnmapped
	}
	q := r.MapQ
	if q == 255 {
		return MQUnmapped
	}
	if q == 0 {
		return MQZero
	}
	return MQPositive
}

// refID returns the 0-based reference id for r, or -1 if r is unmapped or
// nil. This mirrors br_get_refid: an unmapped read always reports -1
// regardless of any stale core.tid left over from a prior alignment.
func refID(r *sam.Record) int32 {
	if r == nil || r.Flags&sam.Unmapped != 0 || r.Ref == nil {
		return -1
	}
	return int32(r.Ref.ID())
}

// pos returns the 0-based position for r, or -1 if r is unmapped or nil.
func pos(r *sam.Record) int {
	if r == nil || r.Flags&sam.Unmapped != 0 {
		return -1
	}
	return r.Pos
}

// TemplateIdentity is the (read_group, qname) pair that groups reads into
// a template (spec §3). When a pipeline's Config.IgnoreRG is set,
// ReadGroup is always the empty string so that matching (and buffering)
// is done on QName alone.
type TemplateIdentity struct {
	ReadGroup string
	QName     string
}

func readGroup(r *sam.Record) string {
	aux := r.AuxFields.Get(tagRG)
	if aux == nil {
		return ""
	}
	if s, ok := aux.Value().(string); ok {
		return s
	}
	return ""
}

func templateIdentity(r *sam.Record, ignoreRG bool) TemplateIdentity {
	if ignoreRG {
		return TemplateIdentity{QName: r.Name}
	}
	return TemplateIdentity{ReadGroup: readGroup(r), QName: r.Name}
}

// auxInt extracts an integer value from an Aux field of any of the
// signed/unsigned integer kinds the sam package may have chosen when the
// tag was encoded (NewAux picks the narrowest representation that fits).
func auxInt(a sam.Aux) (int, bool) {
	switch v := a.Value().(type) {
	case int8:
		return int(v), true
	case uint8:
		return int(v), true
	case int16:
		return int(v), true
	case uint16:
		return int(v), true
	case int32:
		return int(v), true
	case uint32:
		return int(v), true
	default:
		return 0, false
	}
}

// segmentCount returns the template's total segment count (the TC tag,
// or a value derived from flags), or -1 when it cannot be determined
// (br_get_num_segments). When the count is -1, a warning message is
// returned for the caller to log; a fatal *Error is returned for the
// genuinely inconsistent case (both READ1 and READ2 set with neither FI
// nor TC present).
func segmentCount(r *sam.Record) (int, *Error, string) {
	if aux := r.AuxFields.Get(tagTC); aux != nil {
		if tc, ok := auxInt(aux); ok {
			return tc, nil, ""
		}
	}
	if r.Flags&sam.Paired == 0 {
		return 1, nil, ""
	}
	read1 := r.Flags&sam.Read1 != 0
	read2 := r.Flags&sam.Read2 != 0
	switch {
	case read1 && read2:
		if r.AuxFields.Get(tagFI) != nil {
			// FI disambiguates the index even though TC is absent; the
			// count itself is still unknown from flags alone.
			return -1, nil, "non-linear template segment index present via FI but TC tag absent"
		}
		return 0, newReadError(ErrSegmentIndex, readGroup(r), r.Name, nil,
			"FREAD1 and FREAD2 both set but no FI/TC tag present"), ""
	case read1 || read2:
		return 2, nil, ""
	default:
		return -1, nil, "unknown number of segments (no TC tag, no READ1/READ2 flag)"
	}
}

// fixupBridgeFromOriginal applies the §4.2 fix-ups to the bridge record
// before it is promoted into a Bridged BinnedRead: PAIRED/READ1/READ2
// flags and the FI tag are always copied from the original; RG is only
// copied when ignoreRG is true (otherwise the two records are already
// known to share a read group, since that's how they were matched).
func fixupBridgeFromOriginal(bridge, original *sam.Record, ignoreRG bool) {
	if original.Flags&sam.Paired != 0 {
		bridge.Flags |= sam.Paired
	}
	if original.Flags&sam.Read1 != 0 {
		bridge.Flags |= sam.Read1
	}
	if original.Flags&sam.Read2 != 0 {
		bridge.Flags |= sam.Read2
	}

	if origFI := original.AuxFields.Get(tagFI); origFI != nil {
		bridge.AuxFields = replaceAux(bridge.AuxFields, tagFI, origFI)
	}

	if ignoreRG {
		if origRG := original.AuxFields.Get(tagRG); origRG != nil {
			bridge.AuxFields = replaceAux(bridge.AuxFields, tagRG, origRG)
		}
	}
}

// replaceAux returns fields with any existing entry for tag removed and
// value appended in its place, mirroring bam_aux_del+bam_aux_append.
func replaceAux(fields sam.AuxFields, tag sam.Tag, value sam.Aux) sam.AuxFields {
	out := fields[:0:0]
	for _, f := range fields {
		if f.Tag() != tag {
			out = append(out, f)
		}
	}
	return append(out, value)
}
