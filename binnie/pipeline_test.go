package binnie

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures every write, in order, for assertions against
// the §8 end-to-end scenarios and properties.
type recordingSink struct {
	writes []sinkWrite
}

type sinkWrite struct {
	bin   Bin
	qname string
}

func (s *recordingSink) Write(bin Bin, rec *sam.Record) error {
	s.writes = append(s.writes, sinkWrite{bin: bin, qname: rec.Name})
	return nil
}

// sliceSource adapts a fixed slice of records to the Source interface.
type sliceSource struct {
	recs []*sam.Record
	i    int
}

func (s *sliceSource) Next() (*sam.Record, bool, error) {
	if s.i >= len(s.recs) {
		return nil, false, nil
	}
	r := s.recs[s.i]
	s.i++
	return r, true, nil
}

func runPipeline(t *testing.T, cfg Config, originals, bridges []*sam.Record) ([]sinkWrite, error) {
	t.Helper()
	stream := NewStreamPairReader(&sliceSource{recs: originals}, &sliceSource{recs: bridges}, cfg.IgnoreRG)
	binner := NewBinner(cfg)
	buf := NewTemplateBuffer()
	sink := &recordingSink{}
	flusher := NewFlushController(cfg, buf, sink)

	err := Process(stream, binner, buf, flusher)
	return sink.writes, err
}

// S1: an unmapped original matched to a mapped bridge record is Bridged.
func TestScenarioS1UnmappedOriginalBridgedMate(t *testing.T) {
	h := testHeader(t)
	original := testRecord(t, h, "r1", -1, sam.Paired|sam.Read1|sam.Unmapped, 0)
	bridge := testRecord(t, h, "r1", 100, sam.Paired|sam.Read1, 30)

	writes, err := runPipeline(t, Config{}, []*sam.Record{original}, []*sam.Record{bridge})
	require.Nil(t, err)
	require.Len(t, writes, 1)
	assert.Equal(t, Bridged, writes[0].bin)
}

// S2: a zero-mapq original whose bridge mate maps positively is Remap.
func TestScenarioS2ZeroMapQPositiveBridgeRemap(t *testing.T) {
	h := testHeader(t)
	original := testRecord(t, h, "r2", 200, sam.Paired|sam.Read1, 0)
	bridge := testRecord(t, h, "r2", 50, sam.Paired|sam.Read1, 20)

	writes, err := runPipeline(t, Config{}, []*sam.Record{original}, []*sam.Record{bridge})
	require.Nil(t, err)
	require.Len(t, writes, 1)
	assert.Equal(t, Remap, writes[0].bin)
}

// S3: a well-mapped original with no matching bridge record is Unchanged.
func TestScenarioS3NoBridgeMatchUnchanged(t *testing.T) {
	h := testHeader(t)
	original := testRecord(t, h, "r3", 300, sam.Paired|sam.Read1, 30)

	writes, err := runPipeline(t, Config{}, []*sam.Record{original}, nil)
	require.Nil(t, err)
	require.Len(t, writes, 1)
	assert.Equal(t, Unchanged, writes[0].bin)
}

// S4: a secondary alignment is discarded outright, producing no output.
func TestScenarioS4SecondaryDiscarded(t *testing.T) {
	h := testHeader(t)
	original := testRecord(t, h, "r4", 400, sam.Paired|sam.Read1|sam.Secondary, 30)

	writes, err := runPipeline(t, Config{}, []*sam.Record{original}, nil)
	require.Nil(t, err)
	assert.Len(t, writes, 0)
}

// S5: two mates of the same template land in different tentative bins
// (Unchanged vs Bridged); the disagreement promotes both to Remap.
func TestScenarioS5MateDisagreementPromotesBothToRemap(t *testing.T) {
	h := testHeader(t)
	r1 := testRecord(t, h, "r5", 100, sam.Paired|sam.Read1, 30)  // -> Unchanged alone
	r2 := testRecord(t, h, "r5", 100, sam.Paired|sam.Read2|sam.Unmapped, 0) // -> bridged below

	bridgeForR1 := testRecord(t, h, "r5", -1, sam.Paired|sam.Read1|sam.Unmapped, 0) // keeps r1 Unchanged
	bridgeForR2 := testRecord(t, h, "r5", 60, sam.Paired|sam.Read2, 25)             // makes r2 Bridged

	writes, err := runPipeline(t, Config{}, []*sam.Record{r1, r2}, []*sam.Record{bridgeForR1, bridgeForR2})
	require.Nil(t, err)
	require.Len(t, writes, 2)
	assert.Equal(t, Remap, writes[0].bin)
	assert.Equal(t, Remap, writes[1].bin)
}

// S6: a decreasing position within a fixed refid is a fatal BamUnsorted.
func TestScenarioS6UnsortedPositionIsFatal(t *testing.T) {
	h := testHeader(t)
	r1 := testRecord(t, h, "r6", 100, sam.Paired|sam.Read1, 30)
	r2 := testRecord(t, h, "r6", 90, sam.Paired|sam.Read1, 30)

	_, err := runPipeline(t, Config{}, []*sam.Record{r1, r2}, nil)
	require.NotNil(t, err)
	berr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrBamUnsorted, berr.Kind)
	assert.Equal(t, 13, ExitCode(err))
}

// P1 (conservation): total records written equals |O| minus the count of
// secondary originals, across a short mixed run.
func TestPropertyP1Conservation(t *testing.T) {
	h := testHeader(t)
	originals := []*sam.Record{
		testRecord(t, h, "a", 10, sam.Paired|sam.Read1, 30),
		testRecord(t, h, "b", 20, sam.Paired|sam.Read1|sam.Secondary, 30),
		testRecord(t, h, "c", 30, sam.Paired|sam.Read1, 0),
	}

	writes, err := runPipeline(t, Config{}, originals, nil)
	require.Nil(t, err)
	assert.Equal(t, len(originals)-1, len(writes))
}

// P3 (template agreement): every output record sharing a template
// identity carries the same bin.
func TestPropertyP3TemplateAgreement(t *testing.T) {
	h := testHeader(t)
	r1 := testRecord(t, h, "pair1", 100, sam.Paired|sam.Read1, 0)
	r2 := testRecord(t, h, "pair1", 100, sam.Paired|sam.Read2, 40)

	writes, err := runPipeline(t, Config{}, []*sam.Record{r1, r2}, nil)
	require.Nil(t, err)
	require.Len(t, writes, 2)
	assert.Equal(t, writes[0].bin, writes[1].bin)
}

// P4 (sort preservation): Unchanged records appear in the same
// (refid, pos) order as in the original stream.
func TestPropertyP4SortPreservationUnchanged(t *testing.T) {
	h := testHeader(t)
	originals := []*sam.Record{
		testRecord(t, h, "x", 10, sam.Paired|sam.Read1, 30),
		testRecord(t, h, "y", 20, sam.Paired|sam.Read1, 30),
		testRecord(t, h, "z", 30, sam.Paired|sam.Read1, 30),
	}

	writes, err := runPipeline(t, Config{}, originals, nil)
	require.Nil(t, err)
	require.Len(t, writes, 3)
	assert.Equal(t, []string{"x", "y", "z"}, []string{writes[0].qname, writes[1].qname, writes[2].qname})
}

// P5 (buffer boundedness): with a buffer size limit of 1 every read is
// still written exactly once. That the limit forces a flush as soon as it
// is reached is checked by TestFlushControllerBufferSizeLimit.
func TestPropertyP5BufferSizeLimitForcesFlush(t *testing.T) {
	h := testHeader(t)
	originals := []*sam.Record{
		testRecord(t, h, "m", 10, sam.Paired|sam.Read1, 30),
		testRecord(t, h, "n", 11, sam.Paired|sam.Read1, 30),
		testRecord(t, h, "o", 12, sam.Paired|sam.Read1, 30),
	}

	cfg := Config{BufferSizeLimit: 1}
	writes, err := runPipeline(t, cfg, originals, nil)
	require.Nil(t, err)
	assert.Equal(t, 3, len(writes))
}
