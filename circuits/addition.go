package circuits

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/iden3/go-zkvm-bls12381/codec"
	"github.com/iden3/go-zkvm-bls12381/journal"
	"github.com/iden3/go-zkvm-bls12381/tape"
	"github.com/pkg/errors"
)

// Aggregate returns the sum of points. The sum of no points is the identity.
func Aggregate(points []bls12381.G1Affine) bls12381.G1Affine {
	var acc bls12381.G1Jac
	for i := range points {
		acc.AddMixed(&points[i])
	}
	var res bls12381.G1Affine
	res.FromJacobian(&acc)
	return res
}

// WriteAdditionInputs writes the operand count, every operand and the
// expected aggregate.
func WriteAdditionInputs(w TapeWriter, c codec.Codec, points []bls12381.G1Affine, expected *bls12381.G1Affine) error {
	if err := w.WriteCount(len(points)); err != nil {
		return err
	}
	for i := range points {
		if err := writeSegment(w, c.EncodeG1(&points[i])); err != nil {
			return errors.Wrapf(err, "operand %d", i)
		}
	}
	return errors.Wrap(writeSegment(w, c.EncodeG1(expected)), "expected aggregate")
}

func additionGuest(c codec.Codec, in *tape.Reader, out *journal.Journal) error {
	n, err := in.ReadCount()
	if err != nil {
		return errors.Wrap(err, "operand count")
	}

	var acc bls12381.G1Jac
	for i := uint32(0); i < n; i++ {
		p, err := readG1(c, in)
		if err != nil {
			return errors.Wrapf(err, "operand %d", i)
		}
		acc.AddMixed(&p)
	}

	expected, err := readG1(c, in)
	if err != nil {
		return errors.Wrap(err, "expected aggregate")
	}

	var aggregate bls12381.G1Affine
	aggregate.FromJacobian(&acc)
	return out.Commit(aggregate.Equal(&expected))
}

func readG1(c codec.Codec, in *tape.Reader) (bls12381.G1Affine, error) {
	buf, err := in.ReadSegment()
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	return c.DecodeG1(buf)
}
