package binnie

import (
	"testing"

	"github.com/biogo/hts/sam"
)

func testHeader(t *testing.T) *sam.Header {
	t.Helper()
	ref, err := sam.NewReference("chr1", "", "", 1000000, nil, nil)
	if err != nil {
		t.Fatalf("NewReference: %v", err)
	}
	h, err := sam.NewHeader(nil, []*sam.Reference{ref})
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	return h
}

func testRecord(t *testing.T, h *sam.Header, name string, pos int, flags sam.Flags, mapQ byte) *sam.Record {
	t.Helper()
	var ref *sam.Reference
	if flags&sam.Unmapped == 0 {
		ref = h.Refs()[0]
	} else {
		pos = -1
	}
	r, err := sam.NewRecord(name, ref, nil, pos, -1, 0, mapQ, nil, []byte("N"), nil, nil)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	r.Flags = flags
	return r
}

func withAux(t *testing.T, r *sam.Record, tag string, value interface{}) *sam.Record {
	t.Helper()
	aux, err := sam.NewAux(sam.NewTag(tag), value)
	if err != nil {
		t.Fatalf("NewAux(%s): %v", tag, err)
	}
	r.AuxFields = append(r.AuxFields, aux)
	return r
}
