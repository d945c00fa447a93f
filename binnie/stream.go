package binnie

import "github.com/biogo/hts/sam"

// Source is the minimal alignment stream a StreamPairReader consumes
// (the external-collaborator boundary, §6). bamio.Pair's two sides each
// satisfy this.
type Source interface {
	// Next returns the next record, or ok==false at end of stream.
	Next() (rec *sam.Record, ok bool, err error)
}

// StreamPairReader advances the original and bridge streams in lock
// step, matching each original to at most one bridge record by template
// identity (§4.1). It keeps a single record of look-ahead on the bridge
// side.
type StreamPairReader struct {
	original, bridge Source
	ignoreRG         bool

	currentBridge   *sam.Record
	bridgeExhausted bool
}

func NewStreamPairReader(original, bridge Source, ignoreRG bool) *StreamPairReader {
	return &StreamPairReader{original: original, bridge: bridge, ignoreRG: ignoreRG}
}

// Next yields the next (original, bridge?) tuple, or ok==false once the
// original stream is exhausted. err is ErrOrigTruncated if the bridge
// stream still has unmatched records once original is drained, or
// ErrReadOriginal/ErrReadBridge on an I/O failure from either side.
func (s *StreamPairReader) Next() (original, bridge *sam.Record, ok bool, err *Error) {
	if s.currentBridge == nil && !s.bridgeExhausted {
		rec, present, readErr := s.bridge.Next()
		if readErr != nil {
			return nil, nil, false, newReadError(ErrReadBridge, "", "", readErr, "reading bridge stream")
		}
		if present {
			s.currentBridge = rec
		} else {
			s.bridgeExhausted = true
		}
	}

	o, present, readErr := s.original.Next()
	if readErr != nil {
		return nil, nil, false, newReadError(ErrReadOriginal, "", "", readErr, "reading original stream")
	}
	if !present {
		if !s.bridgeExhausted || s.currentBridge != nil {
			return nil, nil, false, newError(ErrOrigTruncated,
				"bridge stream has unmatched records after original stream was exhausted")
		}
		return nil, nil, false, nil
	}

	if s.currentBridge != nil && templateIdentity(o, s.ignoreRG) == templateIdentity(s.currentBridge, s.ignoreRG) {
		b := s.currentBridge
		s.currentBridge = nil
		return o, b, true, nil
	}
	return o, nil, true, nil
}

// Drained reports whether the bridge side has nothing left unconsumed;
// FlushController's final post-condition check uses this.
func (s *StreamPairReader) Drained() bool {
	return s.bridgeExhausted && s.currentBridge == nil
}
