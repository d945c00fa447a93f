package binnie

import "fmt"

// ErrorKind identifies one of the closed set of fatal conditions the
// pipeline can raise (spec §7). Warnings are logged in place and do not
// use this type.
type ErrorKind int

const (
	// ErrSegmentIndex: FREAD1 and FREAD2 both set without an FI/TC tag
	// to disambiguate the segment index (§4.2).
	ErrSegmentIndex ErrorKind = iota
	// ErrOrigTruncated: the bridge stream has records left over (or a
	// pending look-ahead) after the original stream is exhausted
	// (§4.1, §4.4). Original records left after the bridge stream ends
	// are not an error.
	ErrOrigTruncated
	// ErrUnexpectedMates: enqueue() saw a mate for a template whose
	// buffered expected_mate_count was already 0 (§4.3).
	ErrUnexpectedMates
	// ErrBamUnsorted: refid/pos decreased, or transitioned back from
	// unmapped to mapped (§4.4).
	ErrBamUnsorted
	// ErrBridgeSort: the bridge stream's records did not appear in the
	// same relative order as their matching originals.
	ErrBridgeSort
	// ErrNull: an invariant assertion expected a non-nil value and
	// found nil.
	ErrNull
	// ErrNotNull: an invariant assertion expected a nil value (e.g. the
	// head/tail of a mate chain) and found one.
	ErrNotNull
	// ErrBufferNotEmpty: the template buffer was non-empty after the
	// input stream was fully drained (§4.4).
	ErrBufferNotEmpty
	// ErrInvalidBin: a BinnedRead reached FlushController with a bin
	// value outside {Unchanged, Bridged, Remap}.
	ErrInvalidBin
	// ErrBufferRemove: popping the buffer's head failed.
	ErrBufferRemove
	// ErrReadOriginal: the original stream returned a read error.
	ErrReadOriginal
	// ErrReadBridge: the bridge stream returned a read error.
	ErrReadBridge
	// ErrWrite: a sink write failed.
	ErrWrite
	// ErrOutFiles: an output sink failed to open.
	ErrOutFiles
	// ErrInFiles: an input stream failed to open.
	ErrInFiles
)

// exitCodes maps each ErrorKind to the stable exit code promised in §6.
var exitCodes = map[ErrorKind]int{
	ErrInFiles:         2,
	ErrOutFiles:        3,
	ErrReadOriginal:    5,
	ErrReadBridge:      6,
	ErrSegmentIndex:    7,
	ErrOrigTruncated:   8,
	ErrUnexpectedMates: 9,
	ErrNull:            10,
	ErrNotNull:         11,
	ErrBufferNotEmpty:  12,
	ErrBamUnsorted:     13,
	ErrInvalidBin:      14,
	ErrWrite:           15,
	ErrBufferRemove:    16,
	ErrBridgeSort:      17,
}

// Error is the single error type raised by this package. The pipeline
// never recovers from one internally (§7 propagation policy) — it always
// bubbles to the caller, which is expected to map it to a process exit
// code via ExitCode.
type Error struct {
	Kind       ErrorKind
	ReadGroup  string
	QName      string
	Underlying error
	msg        string
}

func (e *Error) Error() string {
	s := e.msg
	if e.ReadGroup != "" || e.QName != "" {
		s = fmt.Sprintf("%s (rg=%q qname=%q)", s, e.ReadGroup, e.QName)
	}
	if e.Underlying != nil {
		s = fmt.Sprintf("%s: %v", s, e.Underlying)
	}
	return s
}

func (e *Error) Unwrap() error { return e.Underlying }

// ExitCode returns the stable exit code for err, or 1 if err is not a
// *Error (treated as a generic argument/usage error).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if be, ok := err.(*Error); ok {
		if code, found := exitCodes[be.Kind]; found {
			return code
		}
	}
	return 1
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func newReadError(kind ErrorKind, rg, qname string, underlying error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:       kind,
		ReadGroup:  rg,
		QName:      qname,
		Underlying: underlying,
		msg:        fmt.Sprintf(format, args...),
	}
}
