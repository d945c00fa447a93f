package coordmap

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// CoordMap maps a point query (chrom, pos) to a translated point
// (chrom', pos') or "no mapping" (§4.5). It is built once from a
// tab-separated coordinate file and is read-only thereafter.
type CoordMap struct {
	trees map[string]*tree
}

// New returns an empty CoordMap; intervals are added with Insert.
func New() *CoordMap {
	return &CoordMap{trees: make(map[string]*tree)}
}

// Load reads a tab-separated coordinate file of the form
// "chrom from_start from_end chrom' to_start to_end" (one header line,
// skipped) and inserts each record in file order.
func Load(r io.Reader) (*CoordMap, error) {
	cm := New()
	sc := bufio.NewScanner(r)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo == 1 {
			continue // header
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 6 {
			return nil, errors.E("coordmap: malformed line", lineNo, ":", line)
		}

		fromStart, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.E(err, "coordmap: line", lineNo, "from_start")
		}
		fromEnd, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errors.E(err, "coordmap: line", lineNo, "from_end")
		}
		toStart, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, errors.E(err, "coordmap: line", lineNo, "to_start")
		}
		toEnd, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, errors.E(err, "coordmap: line", lineNo, "to_end")
		}

		cm.Insert(fields[0], fromStart, fromEnd, fields[3], toStart, toEnd)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.E(err, "coordmap: reading coordinate file")
	}
	return cm, nil
}

// Insert adds one mapping to the tree for fromChrom. toChrom is the
// chromosome Map returns for points in this interval; it may differ from
// fromChrom.
func (cm *CoordMap) Insert(fromChrom string, fromStart, fromEnd int, toChrom string, toStart, toEnd int) {
	t, ok := cm.trees[fromChrom]
	if !ok {
		t = &tree{}
		cm.trees[fromChrom] = t
	}
	t.insert(interval{
		fromStart: fromStart, fromEnd: fromEnd,
		toChrom: toChrom, toStart: toStart, toEnd: toEnd,
	})
}

// Map translates (chrom, pos), returning the mapped chromosome and
// position, and true, or ("", 0, false) if no interval on chrom
// contains pos.
//
// Orientation handling: if to_start > to_end the pair is swapped before
// the offset is applied — the transformation is a translation, not an
// inversion, so the mapped offset is always measured from the smaller
// of the two target bounds.
func (cm *CoordMap) Map(chrom string, pos int) (string, int, bool) {
	t, ok := cm.trees[chrom]
	if !ok {
		return "", 0, false
	}
	iv, found := t.lookup(pos)
	if !found {
		return "", 0, false
	}

	toStart, toEnd := iv.toStart, iv.toEnd
	if toStart > toEnd {
		toStart, toEnd = toEnd, toStart
	}
	return iv.toChrom, toStart + (pos - iv.fromStart), true
}
