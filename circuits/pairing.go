package circuits

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/iden3/go-zkvm-bls12381/codec"
	"github.com/iden3/go-zkvm-bls12381/journal"
	"github.com/iden3/go-zkvm-bls12381/tape"
	"github.com/pkg/errors"
)

// Pairing returns e(p, q).
func Pairing(p *bls12381.G1Affine, q *bls12381.G2Affine) (bls12381.GT, error) {
	return bls12381.Pair([]bls12381.G1Affine{*p}, []bls12381.G2Affine{*q})
}

// WritePairingInputs writes p, q and the expected pairing result.
func WritePairingInputs(w TapeWriter, c codec.Codec, p *bls12381.G1Affine, q *bls12381.G2Affine, expected *bls12381.GT) error {
	if err := writeSegment(w, c.EncodeG1(p)); err != nil {
		return errors.Wrap(err, "p")
	}
	if err := writeSegment(w, codec.EncodeG2(q)); err != nil {
		return errors.Wrap(err, "q")
	}
	return errors.Wrap(writeSegment(w, codec.EncodeGT(expected)), "expected pairing")
}

func pairingGuest(c codec.Codec, in *tape.Reader, out *journal.Journal) error {
	p, err := readG1(c, in)
	if err != nil {
		return errors.Wrap(err, "p")
	}

	buf, err := in.ReadSegment()
	if err != nil {
		return errors.Wrap(err, "q")
	}
	q, err := codec.DecodeG2(buf)
	if err != nil {
		return errors.Wrap(err, "q")
	}

	buf, err = in.ReadSegment()
	if err != nil {
		return errors.Wrap(err, "expected pairing")
	}
	expected, err := codec.DecodeGT(buf)
	if err != nil {
		return errors.Wrap(err, "expected pairing")
	}

	e, err := Pairing(&p, &q)
	if err != nil {
		return err
	}
	return out.Commit(e.Equal(&expected))
}
