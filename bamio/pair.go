// Package bamio is the thin alignment-I/O collaborator binnie is built
// against (spec §6): opening the two input streams, opening the three
// output sinks, and writing each sink's header once before any record.
// It holds no binning logic of its own.
package bamio

import (
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/errors"
	"github.com/wtsi-hgi/bridgebuilder/binnie"
)

// workers controls concurrency passed to bam.NewReader/NewWriter; binnie
// is single-threaded end to end (§5), so a single decompression/
// compression worker is all either side needs.
const workers = 1

// Stream is the minimal interface binnie.Source requires, implemented
// here over a *bam.Reader.
type Stream struct {
	f *os.File
	r *bam.Reader
}

func openStream(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, "bamio: opening", path)
	}
	r, err := bam.NewReader(f, workers)
	if err != nil {
		f.Close()
		return nil, errors.E(err, "bamio: reading BAM header from", path)
	}
	return &Stream{f: f, r: r}, nil
}

// Next implements binnie.Source.
func (s *Stream) Next() (rec *sam.Record, ok bool, err error) {
	rec, err = s.r.Read()
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Header returns the stream's SAM header, for propagation to whichever
// sink inherits it.
func (s *Stream) Header() *sam.Header { return s.r.Header() }

func (s *Stream) Close() error { return s.f.Close() }

// Pair opens both sides of a binnie run: the original and the bridge
// alignment streams (C1's *O* and *B*).
type Pair struct {
	Original, Bridge *Stream
}

// OpenPair opens both input BAMs. If bridge fails to open after original
// already succeeded, original is closed before returning the error, so a
// partial failure never leaks an open file descriptor.
func OpenPair(originalPath, bridgePath string) (*Pair, error) {
	original, err := openStream(originalPath)
	if err != nil {
		return nil, err
	}
	bridge, err := openStream(bridgePath)
	if err != nil {
		original.Close()
		return nil, err
	}
	return &Pair{Original: original, Bridge: bridge}, nil
}

func (p *Pair) Close() error {
	err1 := p.Original.Close()
	err2 := p.Bridge.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// sinkFile is one output destination: an open file plus the bam.Writer
// wrapping it.
type sinkFile struct {
	f *os.File
	w *bam.Writer
}

func openSink(path string, header *sam.Header) (*sinkFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.E(err, "bamio: creating", path)
	}
	w, err := bam.NewWriter(f, header, workers)
	if err != nil {
		f.Close()
		return nil, errors.E(err, "bamio: writing BAM header to", path)
	}
	return &sinkFile{f: f, w: w}, nil
}

func (s *sinkFile) Close() error {
	err1 := s.w.Close()
	err2 := s.f.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Sinks is the three-way output fan: unchanged and remap inherit the
// original's header, bridged inherits the bridge's header (§6).
type Sinks struct {
	unchanged, bridged, remap *sinkFile
}

// OpenSinks opens all three output files up front, writing each header
// immediately. If any of the three fails to open, the ones that already
// opened are closed before the error is returned (§5 resource
// acquisition: opening is all-or-nothing).
func OpenSinks(unchangedPath, bridgedPath, remapPath string, originalHeader, bridgeHeader *sam.Header) (*Sinks, error) {
	opened := make([]*sinkFile, 0, 3)
	closeOpened := func() {
		for _, s := range opened {
			s.Close()
		}
	}

	unchanged, err := openSink(unchangedPath, originalHeader)
	if err != nil {
		return nil, err
	}
	opened = append(opened, unchanged)

	bridged, err := openSink(bridgedPath, bridgeHeader)
	if err != nil {
		closeOpened()
		return nil, err
	}
	opened = append(opened, bridged)

	remap, err := openSink(remapPath, originalHeader)
	if err != nil {
		closeOpened()
		return nil, err
	}

	return &Sinks{unchanged: unchanged, bridged: bridged, remap: remap}, nil
}

// Write sends r to the sink selected by which, implementing
// binnie.Sink.
func (s *Sinks) Write(which binnie.Bin, r *sam.Record) error {
	var w *bam.Writer
	switch which {
	case binnie.Unchanged:
		w = s.unchanged.w
	case binnie.Bridged:
		w = s.bridged.w
	case binnie.Remap:
		w = s.remap.w
	default:
		return errors.E("bamio: invalid sink selector", int(which))
	}
	return w.Write(r)
}

func (s *Sinks) Close() error {
	var first error
	for _, sf := range []*sinkFile{s.unchanged, s.bridged, s.remap} {
		if err := sf.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
