package circuits

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/iden3/go-zkvm-bls12381/codec"
	"github.com/iden3/go-zkvm-bls12381/journal"
	"github.com/iden3/go-zkvm-bls12381/tape"
	"github.com/pkg/errors"
)

// WriteAdditionPairInputs writes a, b and the claimed sum c. Unlike the
// n-ary addition circuit there is no operand count.
func WriteAdditionPairInputs(w TapeWriter, cd codec.Codec, a, b, c *bls12381.G1Affine) error {
	for i, p := range []*bls12381.G1Affine{a, b, c} {
		if err := writeSegment(w, cd.EncodeG1(p)); err != nil {
			return errors.Wrapf(err, "operand %d", i)
		}
	}
	return nil
}

func additionPairGuest(cd codec.Codec, in *tape.Reader, out *journal.Journal) error {
	var ops [3]bls12381.G1Affine
	for i := range ops {
		p, err := readG1(cd, in)
		if err != nil {
			return errors.Wrapf(err, "operand %d", i)
		}
		ops[i] = p
	}

	sum := Aggregate(ops[:2])
	return out.Commit(sum.Equal(&ops[2]))
}
