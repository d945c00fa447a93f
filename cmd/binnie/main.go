// Command binnie partitions aligned reads from a pair of co-ordered BAM
// streams, an original reference and a derived bridge reference, into
// three output bins based on a per-read mapping-quality comparison. See
// github.com/wtsi-hgi/bridgebuilder/binnie for the algorithm.
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/wtsi-hgi/bridgebuilder/bamio"
	"github.com/wtsi-hgi/bridgebuilder/binnie"
)

var (
	unchangedOutSuffix  = flag.String("unchanged_out", "", "unchanged output path (default: <original>_unchanged.bam)")
	bridgedOutSuffix    = flag.String("bridged_out", "", "bridged output path (default: <original>_bridged.bam)")
	remapOutSuffix      = flag.String("remap_out", "", "remap output path (default: <original>_remap.bam)")
	bufferSize          = flag.Int("buffer_size", 0, "maximum buffered reads before a forced flush, 0 for unbounded")
	maxBufferBases      = flag.Int("max_buffer_bases", 0, "maximum buffered reference span in bases before a forced flush, 0 for unbounded")
	ignoreRG            = flag.Bool("ignore_rg", false, "match and buffer templates by qname alone, ignoring the RG tag")
	allowSortedUnmapped = flag.Bool("allow_sorted_unmapped", false, "accept mapped reads following unmapped ones, and decreasing positions among unmapped reads, without failing the sort-order check")
)

func defaultPath(original, suffix, override string) string {
	if override != "" {
		return override
	}
	return strings.TrimSuffix(original, ".bam") + suffix
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 2 {
		log.Fatalf("usage: binnie [flags] <original.bam> <bridge.bam>")
	}
	originalPath := flag.Arg(0)
	bridgePath := flag.Arg(1)

	pair, err := bamio.OpenPair(originalPath, bridgePath)
	if err != nil {
		log.Error.Printf("%v", err)
		os.Exit(binnie.ExitCode(&binnie.Error{Kind: binnie.ErrInFiles, Underlying: err}))
	}
	defer pair.Close()

	sinks, err := bamio.OpenSinks(
		defaultPath(originalPath, "_unchanged.bam", *unchangedOutSuffix),
		defaultPath(originalPath, "_bridged.bam", *bridgedOutSuffix),
		defaultPath(originalPath, "_remap.bam", *remapOutSuffix),
		pair.Original.Header(), pair.Bridge.Header(),
	)
	if err != nil {
		log.Error.Printf("%v", err)
		pair.Close()
		os.Exit(binnie.ExitCode(&binnie.Error{Kind: binnie.ErrOutFiles, Underlying: err}))
	}
	defer sinks.Close()

	cfg := binnie.Config{
		IgnoreRG:            *ignoreRG,
		AllowSortedUnmapped: *allowSortedUnmapped,
		BufferSizeLimit:     *bufferSize,
		BufferBasesLimit:    *maxBufferBases,
	}

	stream := binnie.NewStreamPairReader(pair.Original, pair.Bridge, cfg.IgnoreRG)
	binner := binnie.NewBinner(cfg)
	buf := binnie.NewTemplateBuffer()
	flusher := binnie.NewFlushController(cfg, buf, sinks)

	if err := binnie.Process(stream, binner, buf, flusher); err != nil {
		log.Error.Printf("%v", err)
		sinks.Close()
		pair.Close()
		os.Exit(binnie.ExitCode(err))
	}
	log.Debug.Printf("exiting")
}
