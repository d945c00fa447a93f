package binnie

// Config collects the knobs the original implementation kept as
// process-wide globals (ignore_rg, allow_sorted_unmapped, the two flush
// thresholds) into a single value threaded through the pipeline.
type Config struct {
	// IgnoreRG, when true, matches and buffers templates by QName alone,
	// and causes fixupBridgeFromOriginal to also copy the RG tag.
	IgnoreRG bool

	// AllowSortedUnmapped relaxes the sort-order invariant for unmapped
	// reads (refid == -1): a mapped read may follow an unmapped one, and
	// positions may decrease between consecutive unmapped reads, without
	// raising ErrBamUnsorted. Unmapped reads following mapped reads are
	// accepted whether or not this is set.
	AllowSortedUnmapped bool

	// BufferSizeLimit is the number of buffered reads at which the
	// pipeline is forced to flush, popping the oldest reads one at a time
	// until the buffer is below the limit. Zero means unbounded.
	BufferSizeLimit int

	// BufferBasesLimit is the maximum reference-span, in bases, between
	// the buffer's oldest and newest positions before a forced flush.
	// Zero means unbounded.
	BufferBasesLimit int

	// IsCoordDeleted, when non-nil, reports whether the original
	// coordinate (refid, pos) has been deleted from the bridge
	// reference. binner.go's corresponding branch is unreachable when
	// this is nil, matching the source's permanently-false guard.
	IsCoordDeleted func(refid int32, pos int) bool
}
