package circuits

import (
	"math/big"
	"math/rand"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/iden3/go-zkvm-bls12381/codec"
	"github.com/iden3/go-zkvm-bls12381/journal"
	"github.com/iden3/go-zkvm-bls12381/tape"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTape struct {
	w *tape.Writer
}

func newMemTape() memTape {
	return memTape{w: tape.NewWriter()}
}

func (m memTape) WriteCount(n int) error {
	m.w.WriteCount(uint32(n))
	return nil
}

func (m memTape) WriteBytes(buf []byte) error {
	m.w.WriteBytes(buf)
	return nil
}

func randomG1(rng *rand.Rand) bls12381.G1Affine {
	_, _, g1, _ := bls12381.Generators()
	var p bls12381.G1Affine
	p.ScalarMultiplication(&g1, new(big.Int).Rand(rng, fr.Modulus()))
	return p
}

func randomG2(rng *rand.Rand) bls12381.G2Affine {
	_, _, _, g2 := bls12381.Generators()
	var q bls12381.G2Affine
	q.ScalarMultiplication(&g2, new(big.Int).Rand(rng, fr.Modulus()))
	return q
}

func verdict(t *testing.T, id CircuitID, c codec.Codec, input []byte) bool {
	t.Helper()
	out, err := Execute(id, c, input)
	require.NoError(t, err)
	v, err := journal.Decode(out)
	require.NoError(t, err)
	return v
}

func TestAdditionCircuit(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := codec.New(codec.Compressed)

	a := randomG1(rng)
	b := randomG1(rng)
	require.False(t, a.Equal(&b))

	t.Run("two operands", func(t *testing.T) {
		m := newMemTape()
		sum := Aggregate([]bls12381.G1Affine{a, b})
		require.NoError(t, WriteAdditionInputs(m, c, []bls12381.G1Affine{a, b}, &sum))
		assert.True(t, verdict(t, AdditionCircuitID, c, m.w.Bytes()))
	})

	t.Run("wrong expected aggregate", func(t *testing.T) {
		m := newMemTape()
		doubled := Aggregate([]bls12381.G1Affine{a, a})
		require.NoError(t, WriteAdditionInputs(m, c, []bls12381.G1Affine{a, b}, &doubled))
		assert.False(t, verdict(t, AdditionCircuitID, c, m.w.Bytes()))
	})

	t.Run("no operands", func(t *testing.T) {
		m := newMemTape()
		var identity bls12381.G1Affine
		require.NoError(t, WriteAdditionInputs(m, c, nil, &identity))
		assert.True(t, verdict(t, AdditionCircuitID, c, m.w.Bytes()))
	})

	t.Run("many operands uncompressed", func(t *testing.T) {
		raw := codec.New(codec.Uncompressed)
		points := make([]bls12381.G1Affine, 6)
		for i := range points {
			points[i] = randomG1(rng)
		}
		points = append(points, points[0])
		sum := Aggregate(points)

		m := newMemTape()
		require.NoError(t, WriteAdditionInputs(m, raw, points, &sum))
		assert.True(t, verdict(t, AdditionCircuitID, raw, m.w.Bytes()))
	})

	t.Run("point and its negation", func(t *testing.T) {
		var neg bls12381.G1Affine
		neg.Neg(&a)
		var identity bls12381.G1Affine

		m := newMemTape()
		require.NoError(t, WriteAdditionInputs(m, c, []bls12381.G1Affine{a, neg}, &identity))
		assert.True(t, verdict(t, AdditionCircuitID, c, m.w.Bytes()))
	})
}

func TestAdditionCircuitAborts(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	c := codec.New(codec.Compressed)
	a := randomG1(rng)
	sum := Aggregate([]bls12381.G1Affine{a})

	m := newMemTape()
	require.NoError(t, WriteAdditionInputs(m, c, []bls12381.G1Affine{a}, &sum))
	full := m.w.Bytes()

	t.Run("truncated tape", func(t *testing.T) {
		_, err := Execute(AdditionCircuitID, c, full[:len(full)-8])
		assert.True(t, errors.Is(err, tape.ErrLengthMismatch))
	})

	t.Run("missing expected aggregate", func(t *testing.T) {
		_, err := Execute(AdditionCircuitID, c, full[:4+4+48])
		assert.True(t, errors.Is(err, tape.ErrTapeUnderrun))
	})

	t.Run("decoded with another format", func(t *testing.T) {
		_, err := Execute(AdditionCircuitID, codec.New(codec.Uncompressed), full)
		assert.True(t, errors.Is(err, codec.ErrMalformedEncoding))
	})

	t.Run("count larger than operands", func(t *testing.T) {
		tampered := append([]byte(nil), full...)
		tampered[0] = 2
		_, err := Execute(AdditionCircuitID, c, tampered)
		assert.Error(t, err)
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := Execute(AdditionCircuitID, c, append(append([]byte(nil), full...), 0, 0, 0, 0))
		assert.True(t, errors.Is(err, tape.ErrLengthMismatch))
	})
}

func TestPairingCircuit(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	c := codec.New(codec.Compressed)

	p := randomG1(rng)
	q := randomG2(rng)
	e, err := Pairing(&p, &q)
	require.NoError(t, err)

	t.Run("matching pairing", func(t *testing.T) {
		m := newMemTape()
		require.NoError(t, WritePairingInputs(m, c, &p, &q, &e))
		assert.True(t, verdict(t, PairingCircuitID, c, m.w.Bytes()))
	})

	t.Run("bilinearity", func(t *testing.T) {
		var p2 bls12381.G1Affine
		p2.ScalarMultiplication(&p, big.NewInt(2))
		var e2 bls12381.GT
		e2.Square(&e)

		m := newMemTape()
		require.NoError(t, WritePairingInputs(m, c, &p2, &q, &e2))
		assert.True(t, verdict(t, PairingCircuitID, c, m.w.Bytes()))
	})

	t.Run("wrong expected pairing", func(t *testing.T) {
		other := randomG1(rng)
		wrong, err := Pairing(&other, &q)
		require.NoError(t, err)

		m := newMemTape()
		require.NoError(t, WritePairingInputs(m, c, &p, &q, &wrong))
		assert.False(t, verdict(t, PairingCircuitID, c, m.w.Bytes()))
	})

	t.Run("identity operand", func(t *testing.T) {
		var inf bls12381.G1Affine
		var one bls12381.GT
		one.SetOne()

		m := newMemTape()
		require.NoError(t, WritePairingInputs(m, c, &inf, &q, &one))
		assert.True(t, verdict(t, PairingCircuitID, c, m.w.Bytes()))
	})

	t.Run("operands swapped", func(t *testing.T) {
		m := newMemTape()
		require.NoError(t, writeSegment(m, codec.EncodeG2(&q)))
		require.NoError(t, writeSegment(m, c.EncodeG1(&p)))
		require.NoError(t, writeSegment(m, codec.EncodeGT(&e)))
		_, err := Execute(PairingCircuitID, c, m.w.Bytes())
		assert.True(t, errors.Is(err, codec.ErrMalformedEncoding))
	})
}

func TestAdditionPairCircuit(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	c := codec.New(codec.Uncompressed)

	a := randomG1(rng)
	b := randomG1(rng)
	sum := Aggregate([]bls12381.G1Affine{a, b})

	m := newMemTape()
	require.NoError(t, WriteAdditionPairInputs(m, c, &a, &b, &sum))
	assert.True(t, verdict(t, AdditionPairCircuitID, c, m.w.Bytes()))

	m = newMemTape()
	require.NoError(t, WriteAdditionPairInputs(m, c, &a, &b, &a))
	assert.False(t, verdict(t, AdditionPairCircuitID, c, m.w.Bytes()))
}

func TestGuestRegistry(t *testing.T) {
	_, err := GetGuest("unknown")
	assert.True(t, errors.Is(err, ErrUnsupportedCircuit))

	_, err = Execute("unknown", codec.New(codec.Compressed), nil)
	assert.True(t, errors.Is(err, ErrUnsupportedCircuit))

	RegisterGuest("silent", func(codec.Codec, *tape.Reader, *journal.Journal) error {
		return nil
	})
	_, err = Execute("silent", codec.New(codec.Compressed), nil)
	assert.True(t, errors.Is(err, journal.ErrNothingCommitted))

	RegisterGuest("chatty", func(_ codec.Codec, _ *tape.Reader, out *journal.Journal) error {
		if err := out.Commit(true); err != nil {
			return err
		}
		return out.Commit(false)
	})
	_, err = Execute("chatty", codec.New(codec.Compressed), nil)
	assert.True(t, errors.Is(err, journal.ErrAlreadyCommitted))
}
