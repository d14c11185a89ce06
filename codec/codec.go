// Package codec converts BLS12-381 group and target field elements to and
// from their canonical fixed-width byte encodings. Host and guest share the
// same Codec so both sides of the proof boundary agree byte for byte.
package codec

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/iden3/go-zkvm-bls12381/constants"
	"github.com/pkg/errors"
)

// ErrMalformedEncoding is returned when a buffer has the wrong width, does not
// describe a valid element or carries inconsistent flag bits.
var ErrMalformedEncoding = errors.New("malformed encoding")

const (
	flagMask       byte = 0b111 << 5
	flagCompressed byte = 0b100 << 5
	flagInfinity   byte = 0b010 << 5
)

// Format selects the G1 encoding of a deployment.
type Format uint8

const (
	// Compressed encodes G1 as the x coordinate plus flag bits (48 bytes).
	Compressed Format = iota
	// Uncompressed encodes G1 as x || y (96 bytes).
	Uncompressed
)

// String returns the manifest name of the format.
func (f Format) String() string {
	switch f {
	case Compressed:
		return "compressed"
	case Uncompressed:
		return "uncompressed"
	default:
		return "unknown"
	}
}

// ParseFormat parses the manifest name of a format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "compressed", "":
		return Compressed, nil
	case "uncompressed":
		return Uncompressed, nil
	default:
		return 0, errors.Errorf("unknown g1 format %q", s)
	}
}

// G1Size returns the encoded G1 width for the format.
func (f Format) G1Size() int {
	if f == Uncompressed {
		return constants.G1UncompressedSize
	}
	return constants.G1CompressedSize
}

// Codec encodes and decodes elements using a fixed G1 format.
type Codec struct {
	format Format
}

// New returns a codec bound to format.
func New(format Format) Codec {
	return Codec{format: format}
}

// Format returns the G1 format the codec is bound to.
func (c Codec) Format() Format {
	return c.format
}

// EncodeG1 serializes an affine G1 point. The point must be on the curve.
func (c Codec) EncodeG1(p *bls12381.G1Affine) []byte {
	if c.format == Uncompressed {
		b := p.RawBytes()
		return b[:]
	}
	b := p.Bytes()
	return b[:]
}

// DecodeG1 is the inverse of EncodeG1.
func (c Codec) DecodeG1(buf []byte) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	if len(buf) != c.format.G1Size() {
		return p, errors.Wrapf(ErrMalformedEncoding, "g1: expected %d bytes, got %d", c.format.G1Size(), len(buf))
	}
	if err := checkFlags(buf, c.format == Compressed); err != nil {
		return p, errors.Wrap(err, "g1")
	}
	n, err := p.SetBytes(buf)
	if err != nil {
		return p, errors.Wrapf(ErrMalformedEncoding, "g1: %v", err)
	}
	if n != len(buf) || !p.IsOnCurve() {
		return p, errors.Wrap(ErrMalformedEncoding, "g1: point is not on curve")
	}
	return p, nil
}

// EncodeG2 serializes an affine G2 point in compressed form.
func EncodeG2(q *bls12381.G2Affine) []byte {
	b := q.Bytes()
	return b[:]
}

// DecodeG2 is the inverse of EncodeG2.
func DecodeG2(buf []byte) (bls12381.G2Affine, error) {
	var q bls12381.G2Affine
	if len(buf) != constants.G2CompressedSize {
		return q, errors.Wrapf(ErrMalformedEncoding, "g2: expected %d bytes, got %d", constants.G2CompressedSize, len(buf))
	}
	if err := checkFlags(buf, true); err != nil {
		return q, errors.Wrap(err, "g2")
	}
	n, err := q.SetBytes(buf)
	if err != nil {
		return q, errors.Wrapf(ErrMalformedEncoding, "g2: %v", err)
	}
	if n != len(buf) || !q.IsOnCurve() {
		return q, errors.Wrap(ErrMalformedEncoding, "g2: point is not on curve")
	}
	return q, nil
}

// EncodeGT serializes a pairing target element as twelve big-endian base
// field coordinates.
func EncodeGT(e *bls12381.GT) []byte {
	b := e.Bytes()
	return b[:]
}

// DecodeGT is the inverse of EncodeGT. Elements outside the order-r subgroup
// of the target field are rejected.
func DecodeGT(buf []byte) (bls12381.GT, error) {
	var e bls12381.GT
	if len(buf) != constants.GTSize {
		return e, errors.Wrapf(ErrMalformedEncoding, "gt: expected %d bytes, got %d", constants.GTSize, len(buf))
	}
	if err := e.SetBytes(buf); err != nil {
		return e, errors.Wrapf(ErrMalformedEncoding, "gt: %v", err)
	}
	if !e.IsInSubGroup() {
		return e, errors.Wrap(ErrMalformedEncoding, "gt: element is not in the target group")
	}
	return e, nil
}

// checkFlags validates the three leading metadata bits against the expected
// compression state. An infinity encoding must carry no other set bits.
func checkFlags(buf []byte, compressed bool) error {
	flags := buf[0] & flagMask
	if (flags&flagCompressed != 0) != compressed {
		return errors.Wrapf(ErrMalformedEncoding, "unexpected compression flag %#02x", flags)
	}
	if flags&flagInfinity == 0 {
		return nil
	}
	if buf[0] != flags {
		return errors.Wrap(ErrMalformedEncoding, "infinity encoding has non-zero payload")
	}
	for _, b := range buf[1:] {
		if b != 0 {
			return errors.Wrap(ErrMalformedEncoding, "infinity encoding has non-zero payload")
		}
	}
	return nil
}
