// Command brunel is a thin k-way merge over a set of coordinate-sorted
// BAM files, built directly on bam.Merger. It carries none of binnie's
// binning invariants; it exists only to round out the BridgeBuilder
// toolset alongside binnie and brindley.
package main

import (
	"flag"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
)

var output = flag.String("out", "", "output BAM path, required")

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if *output == "" || flag.NArg() == 0 {
		log.Fatalf("usage: brunel --out=<merged.bam> <in1.bam> <in2.bam> ...")
	}

	readers := make([]*bam.Reader, 0, flag.NArg())
	for _, path := range flag.Args() {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("opening %s: %v", path, err)
		}
		defer f.Close()
		r, err := bam.NewReader(f, 1)
		if err != nil {
			log.Fatalf("reading BAM header from %s: %v", path, err)
		}
		readers = append(readers, r)
	}

	merger, err := bam.NewMerger((*sam.Record).LessByCoordinate, readers...)
	if err != nil {
		log.Fatalf("building merger: %v", err)
	}

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("creating %s: %v", *output, err)
	}
	defer out.Close()

	w, err := bam.NewWriter(out, merger.Header(), 1)
	if err != nil {
		log.Fatalf("writing BAM header to %s: %v", *output, err)
	}
	defer w.Close()

	for {
		rec, err := merger.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("merging: %v", err)
		}
		if err := w.Write(rec); err != nil {
			log.Fatalf("writing to %s: %v", *output, err)
		}
	}
	log.Debug.Printf("exiting")
}
