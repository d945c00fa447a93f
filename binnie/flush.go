package binnie

import "github.com/biogo/hts/sam"

// Sink receives one binned-and-finalised alignment record for a given
// bin. bamio.Sinks implements this against the three real output files.
type Sink interface {
	Write(bin Bin, rec *sam.Record) error
}

// FlushController enforces the §4.4 sort-order invariants and drains
// TemplateBuffer under the bounded-memory policy, writing each popped
// read to its sink.
type FlushController struct {
	cfg  Config
	buf  *TemplateBuffer
	sink Sink

	lastRefID int32
	lastPos   int
	haveLast  bool

	bufferFirstPos int
	bufferLastPos  int
}

func NewFlushController(cfg Config, buf *TemplateBuffer, sink Sink) *FlushController {
	return &FlushController{cfg: cfg, buf: buf, sink: sink, lastRefID: -1}
}

// Enqueue checks r's original coordinate against the running sort-order
// trackers, appends it to the buffer, and runs the flush loop with the
// refid-change, size and span triggers. The end-of-input drain
// (trigger 1) is done by Flush.
func (f *FlushController) Enqueue(r *binnedRead) *Error {
	newRefid, err := f.checkSortOrder(r.originalRefID, r.originalPos)
	if err != nil {
		return err
	}

	if f.buf.Size() == 0 {
		f.bufferFirstPos = r.originalPos
	}
	f.bufferLastPos = r.originalPos

	if err := f.buf.Enqueue(r); err != nil {
		return err
	}

	return f.drain(newRefid, false)
}

// Flush runs the flush loop in end-of-stream mode, and then checks the
// final post-conditions (buffer empty, bridge stream drained).
func (f *FlushController) Flush(streamDrained func() bool) *Error {
	if err := f.drain(false, true); err != nil {
		return err
	}
	if f.buf.Size() != 0 {
		return newError(ErrBufferNotEmpty, "template buffer non-empty after input exhausted (%d reads)", f.buf.Size())
	}
	if streamDrained != nil && !streamDrained() {
		return newError(ErrOrigTruncated, "bridge stream not drained after original stream exhausted")
	}
	return nil
}

func (f *FlushController) checkSortOrder(refid int32, pos int) (newRefid bool, err *Error) {
	if !f.haveLast {
		f.haveLast = true
		f.lastRefID, f.lastPos = refid, pos
		// The stream's first read is never itself a refid change: there is
		// no prior refid to differ from, and flushing it immediately would
		// deny it any chance to be reconciled with a same-template mate
		// arriving later (mirrors binnie_process.c's read_count > 1 guard
		// on new_refid).
		return false, nil
	}

	newRefid = refid != f.lastRefID
	unmappedOK := f.cfg.AllowSortedUnmapped

	switch {
	case refid != -1 && f.lastRefID != -1 && refid < f.lastRefID:
		return false, newError(ErrBamUnsorted, "refid decreased: %d -> %d", f.lastRefID, refid)
	case f.lastRefID == -1 && refid != -1 && !unmappedOK:
		return false, newError(ErrBamUnsorted, "mapped read follows unmapped read (refid %d after -1)", refid)
	case refid == f.lastRefID && refid != -1 && pos < f.lastPos:
		return false, newError(ErrBamUnsorted, "pos decreased on refid %d: %d -> %d", refid, f.lastPos, pos)
	case refid == -1 && f.lastRefID == -1 && pos < f.lastPos && !unmappedOK:
		return false, newError(ErrBamUnsorted, "pos decreased among unmapped reads: %d -> %d", f.lastPos, pos)
	}

	f.lastRefID, f.lastPos = refid, pos
	return newRefid, nil
}

func (f *FlushController) shouldFlush(newRefid, atEOF bool) bool {
	n := f.buf.Size()
	if n == 0 {
		return false
	}
	if atEOF {
		return true
	}
	if newRefid {
		return true
	}
	if f.cfg.BufferSizeLimit > 0 && n >= f.cfg.BufferSizeLimit {
		return true
	}
	if f.cfg.BufferBasesLimit > 0 && (f.bufferLastPos-f.bufferFirstPos) >= f.cfg.BufferBasesLimit {
		return true
	}
	return false
}

func (f *FlushController) drain(newRefid, atEOF bool) *Error {
	for f.shouldFlush(newRefid, atEOF) {
		r, err := f.buf.PopFront()
		if err != nil {
			return err
		}
		if r.bin != Unchanged && r.bin != Bridged && r.bin != Remap {
			return newReadError(ErrInvalidBin, r.ident.ReadGroup, r.ident.QName, nil,
				"binned read reached FlushController with invalid bin %v", r.bin)
		}
		if werr := f.sink.Write(r.bin, r.rec); werr != nil {
			return newReadError(ErrWrite, r.ident.ReadGroup, r.ident.QName, werr, "writing to sink")
		}
		if f.buf.Size() == 0 {
			f.bufferFirstPos, f.bufferLastPos = 0, 0
		} else if next, ok := f.buf.PeekFront(); ok {
			f.bufferFirstPos = next.originalPos
		}
	}
	return nil
}
