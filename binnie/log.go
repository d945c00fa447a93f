package binnie

import (
	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/log"
)

// logWarning records one of the §7 non-fatal warnings (unknown segment
// count, non-linear template index, missing RG), tagged with enough
// template identity to find the offending read in the input.
func logWarning(r *sam.Record, msg string) {
	log.Printf("binnie: warning: %s (rg=%q qname=%q)", msg, readGroup(r), r.Name)
}
