// Command brindley looks up each (chrom, pos) pair on the input file's
// lines against a coordinate-map file and writes the translated point,
// one "chrom\tpos" line per input line with a mapping. See
// github.com/wtsi-hgi/bridgebuilder/coordmap for the lookup structure.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/wtsi-hgi/bridgebuilder/coordmap"
)

var output = flag.String("out", "", "output path, default stdout")

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 2 {
		log.Fatalf("usage: brindley [flags] <input> <coordinate-map>")
	}
	inputPath := flag.Arg(0)
	mapPath := flag.Arg(1)

	mapFile, err := os.Open(mapPath)
	if err != nil {
		log.Fatalf("opening coordinate map %s: %v", mapPath, err)
	}
	cm, err := coordmap.Load(mapFile)
	mapFile.Close()
	if err != nil {
		log.Fatalf("loading coordinate map %s: %v", mapPath, err)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		log.Fatalf("opening input %s: %v", inputPath, err)
	}
	defer in.Close()

	out := os.Stdout
	if *output != "" {
		out, err = os.Create(*output)
		if err != nil {
			log.Fatalf("opening output %s: %v", *output, err)
		}
		defer out.Close()
	}

	w := bufio.NewWriter(out)
	defer w.Flush()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		chrom, pos, err := parseQuery(sc.Text())
		if err != nil {
			log.Error.Printf("skipping malformed input line: %v", err)
			continue
		}
		toChrom, toPos, ok := cm.Map(chrom, pos)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\n", toChrom, toPos+1)
	}
	if err := sc.Err(); err != nil {
		log.Fatalf("reading input: %v", err)
	}
}

// parseQuery parses one "chrom\tpos" input line (1-based position, as
// the original liftover tool's input format) into the 0-based point
// query coordmap.Map expects.
func parseQuery(line string) (chrom string, pos int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("expected 2 fields, got %d: %q", len(fields), line)
	}
	onePos, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid position %q: %v", fields[1], err)
	}
	return fields[0], onePos - 1, nil
}
