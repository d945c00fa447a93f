package binnie

import "github.com/biogo/hts/sam"

// Binner applies the §4.2 decision table to a matched (original, bridge?)
// pair. It holds no state of its own beyond the Config collaborators
// needed for the coord-deletion hook; everything else is a pure function
// of its two arguments, so two runs over the same inputs always agree
// (conservation/determinism properties).
type Binner struct {
	cfg Config
}

func NewBinner(cfg Config) *Binner {
	return &Binner{cfg: cfg}
}

// Bin decides the outcome for one matched pair, returning nil when the
// read is discarded outright (the secondary-alignment row). err is
// non-nil only for the fatal SegmentIndex case.
func (b *Binner) Bin(original, bridge *sam.Record) (*binnedRead, *Error) {
	if original.Flags&sam.Unmapped == 0 && original.Flags&sam.Secondary != 0 {
		return nil, nil
	}

	if b.cfg.IsCoordDeleted != nil && b.cfg.IsCoordDeleted(refID(original), pos(original)) {
		return b.wrap(original, Remap)
	}

	omq := classifyMQ(original)
	bmq := classifyMQ(bridge)
	bPresent := bridge != nil

	var bin Bin
	switch omq {
	case MQUnmapped:
		switch {
		case !bPresent, bmq == MQUnmapped:
			bin = Unchanged
		default: // Zero or Positive
			return b.bridged(original, bridge)
		}
	case MQZero:
		switch {
		case !bPresent, bmq == MQUnmapped, bmq == MQZero:
			bin = Unchanged
		default: // Positive
			bin = Remap
		}
	case MQPositive:
		switch {
		case !bPresent, bmq == MQUnmapped:
			bin = Unchanged
		default: // Zero or Positive
			bin = Remap
		}
	}
	return b.wrap(original, bin)
}

// wrap builds a binnedRead carrying the original alignment, recording
// original_refid/original_pos from the original regardless of which
// alignment is ultimately emitted (only Bridged differs in that regard).
func (b *Binner) wrap(rec *sam.Record, bin Bin) (*binnedRead, *Error) {
	return b.build(rec, rec, bin)
}

// bridged promotes the bridge alignment, applying the original's fix-ups
// first.
func (b *Binner) bridged(original, bridge *sam.Record) (*binnedRead, *Error) {
	fixupBridgeFromOriginal(bridge, original, b.cfg.IgnoreRG)
	return b.build(bridge, original, Bridged)
}

func (b *Binner) build(emit, original *sam.Record, bin Bin) (*binnedRead, *Error) {
	tc, segErr, warning := segmentCount(emit)
	if segErr != nil {
		return nil, segErr
	}
	if warning != "" {
		logWarning(original, warning)
	}

	expected := -1
	if tc >= 0 {
		expected = tc - 1
	}

	if !b.cfg.IgnoreRG && original.AuxFields.Get(tagRG) == nil {
		logWarning(original, "missing RG tag")
	}

	return &binnedRead{
		rec:           emit,
		bin:           bin,
		originalRefID: refID(original),
		originalPos:   pos(original),
		ident:         templateIdentity(original, b.cfg.IgnoreRG),
		expectedMates: expected,
		prev:          noHandle,
		next:          noHandle,
	}, nil
}
