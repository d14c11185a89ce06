// Package tape implements the ordered input tape consumed by a guest circuit.
//
// A tape is a sequence of little-endian 32-bit words. Counts occupy one word;
// byte segments are written as-is and zero padded to the next word boundary.
// The tape has no framing of its own: a reader must consume it in exactly the
// order it was written.
package tape

import (
	"encoding/binary"
	"math"

	"github.com/iden3/go-zkvm-bls12381/constants"
	"github.com/pkg/errors"
)

var (
	// ErrTapeUnderrun is returned when a read needs more data than remains.
	ErrTapeUnderrun = errors.New("tape underrun")
	// ErrLengthMismatch is returned when a byte segment is shorter than its
	// length prefix announced or its padding is not zero.
	ErrLengthMismatch = errors.New("tape length mismatch")
	// ErrTapeConsumed is returned when a tape that was already handed to a
	// prover is written to or run again.
	ErrTapeConsumed = errors.New("tape already consumed")
)

// Writer appends values to a tape.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty tape writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteCount appends a single word.
func (w *Writer) WriteCount(n uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, n)
}

// WriteBytes appends buf padded to a word boundary.
func (w *Writer) WriteBytes(buf []byte) {
	w.buf = append(w.buf, buf...)
	if pad := padding(len(buf)); pad > 0 {
		w.buf = append(w.buf, make([]byte, pad)...)
	}
}

// WriteSegment appends a length prefix followed by buf.
func (w *Writer) WriteSegment(buf []byte) error {
	if uint64(len(buf)) > math.MaxUint32 {
		return errors.Errorf("segment of %d bytes does not fit a tape word", len(buf))
	}
	w.WriteCount(uint32(len(buf)))
	w.WriteBytes(buf)
	return nil
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns a copy of the tape contents.
func (w *Writer) Bytes() []byte {
	return append([]byte(nil), w.buf...)
}

// Reader consumes a tape in write order.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a reader over the tape bytes.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// ReadCount reads the next word.
func (r *Reader) ReadCount() (uint32, error) {
	if r.Remaining() < constants.WordSize {
		return 0, errors.Wrapf(ErrTapeUnderrun, "need a word at offset %d, %d bytes remain", r.off, r.Remaining())
	}
	n := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += constants.WordSize
	return n, nil
}

// ReadBytes reads exactly n bytes and skips the padding that follows them.
// The returned slice aliases the tape.
func (r *Reader) ReadBytes(n uint32) ([]byte, error) {
	size := uint64(n) + uint64(padding(int(n)))
	if uint64(r.Remaining()) < size {
		return nil, errors.Wrapf(ErrLengthMismatch, "segment of %d bytes at offset %d: %v", n, r.off, ErrTapeUnderrun)
	}
	out := r.buf[r.off : r.off+int(n)]
	for _, b := range r.buf[r.off+int(n) : r.off+int(size)] {
		if b != 0 {
			return nil, errors.Wrapf(ErrLengthMismatch, "non-zero padding after segment at offset %d", r.off)
		}
	}
	r.off += int(size)
	return out, nil
}

// ReadSegment reads a length prefix and the segment it announces.
func (r *Reader) ReadSegment() ([]byte, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(n)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Done reports whether the whole tape has been consumed.
func (r *Reader) Done() bool {
	return r.Remaining() == 0
}

func padding(n int) int {
	return (constants.WordSize - n%constants.WordSize) % constants.WordSize
}
