package binnie

import (
	"github.com/grailbio/base/log"
)

// Process runs the full binnie pipeline: it pulls matched pairs from
// stream, bins each with binner, enqueues into buf, and lets flusher
// drain to sink, until the original stream is exhausted. It mirrors
// binnie_process()'s top-level loop in structure: read, bin, buffer,
// flush, repeat; then a final drain and post-condition check.
func Process(stream *StreamPairReader, binner *Binner, buf *TemplateBuffer, flusher *FlushController) error {
	count := 0
	for {
		original, bridge, ok, err := stream.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		binned, berr := binner.Bin(original, bridge)
		if berr != nil {
			return berr
		}
		if binned == nil {
			// Secondary alignment: discarded, not buffered, not counted
			// against sort-order trackers.
			continue
		}

		if err := flusher.Enqueue(binned); err != nil {
			return err
		}

		count++
		if count%100000 == 0 {
			log.Debug.Printf("binnie: processed %d reads, %d buffered", count, buf.Size())
		}
	}

	if err := flusher.Flush(stream.Drained); err != nil {
		return err
	}
	log.Printf("binnie: finished, %d reads processed", count)
	return nil
}
