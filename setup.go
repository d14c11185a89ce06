package zkvm

import (
	"context"
	"math/big"
	"math/rand"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/iden3/go-zkvm-bls12381/circuits"
	"github.com/iden3/go-zkvm-bls12381/proofs"
	"github.com/iden3/go-zkvm-bls12381/types"
	"github.com/pkg/errors"
)

// RandomScalar returns a uniformly random scalar drawn from rng. rng must not
// be shared between goroutines.
func RandomScalar(rng *rand.Rand) *big.Int {
	return new(big.Int).Rand(rng, fr.Modulus())
}

// RandomG1 returns a random point of the G1 subgroup.
func RandomG1(rng *rand.Rand) bls12381.G1Affine {
	_, _, g1, _ := bls12381.Generators()
	var p bls12381.G1Affine
	p.ScalarMultiplication(&g1, RandomScalar(rng))
	return p
}

// RandomG2 returns a random point of the G2 subgroup.
func RandomG2(rng *rand.Rand) bls12381.G2Affine {
	_, _, _, g2 := bls12381.Generators()
	var q bls12381.G2Affine
	q.ScalarMultiplication(&g2, RandomScalar(rng))
	return q
}

// AdditionInputs are the operands of the addition circuit.
type AdditionInputs struct {
	Operands []bls12381.G1Affine
	Expected bls12381.G1Affine
}

// SetupG1Addition draws n random operands and computes their aggregate.
func SetupG1Addition(rng *rand.Rand, n int) AdditionInputs {
	in := AdditionInputs{Operands: make([]bls12381.G1Affine, n)}
	for i := range in.Operands {
		in.Operands[i] = RandomG1(rng)
	}
	in.Expected = circuits.Aggregate(in.Operands)
	return in
}

// PairingInputs are the operands of the pairing circuit.
type PairingInputs struct {
	P        bls12381.G1Affine
	Q        bls12381.G2Affine
	Expected bls12381.GT
}

// SetupPairing draws random p and q and computes e(p, q).
func SetupPairing(rng *rand.Rand) (PairingInputs, error) {
	in := PairingInputs{P: RandomG1(rng), Q: RandomG2(rng)}
	e, err := circuits.Pairing(&in.P, &in.Q)
	if err != nil {
		return in, err
	}
	in.Expected = e
	return in, nil
}

// NewAdditionSession opens a session on the addition image and writes in.
func (h *Host) NewAdditionSession(in AdditionInputs) (*Session, error) {
	s, err := h.beginCircuit(circuits.AdditionCircuitID)
	if err != nil {
		return nil, err
	}
	if err = circuits.WriteAdditionInputs(s, s.Codec(), in.Operands, &in.Expected); err != nil {
		return nil, err
	}
	return s, nil
}

// NewPairingSession opens a session on the pairing image and writes in.
func (h *Host) NewPairingSession(in PairingInputs) (*Session, error) {
	s, err := h.beginCircuit(circuits.PairingCircuitID)
	if err != nil {
		return nil, err
	}
	if err = circuits.WritePairingInputs(s, s.Codec(), &in.P, &in.Q, &in.Expected); err != nil {
		return nil, err
	}
	return s, nil
}

// NewAdditionPairSession opens a session on the three-operand addition image
// claiming a + b == c.
func (h *Host) NewAdditionPairSession(a, b, c bls12381.G1Affine) (*Session, error) {
	s, err := h.beginCircuit(circuits.AdditionPairCircuitID)
	if err != nil {
		return nil, err
	}
	if err = circuits.WriteAdditionPairInputs(s, s.Codec(), &a, &b, &c); err != nil {
		return nil, err
	}
	return s, nil
}

// ProveAddition proves that the operands of in sum to in.Expected.
func (h *Host) ProveAddition(ctx context.Context, in AdditionInputs) (*types.Receipt, error) {
	s, err := h.NewAdditionSession(in)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// ProvePairing proves that e(in.P, in.Q) equals in.Expected.
func (h *Host) ProvePairing(ctx context.Context, in PairingInputs) (*types.Receipt, error) {
	s, err := h.NewPairingSession(in)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// ProveAdditionPair proves the three-operand claim a + b == c.
func (h *Host) ProveAdditionPair(ctx context.Context, a, b, c bls12381.G1Affine) (*types.Receipt, error) {
	s, err := h.NewAdditionPairSession(a, b, c)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

func (h *Host) beginCircuit(circuit circuits.CircuitID) (*Session, error) {
	id, err := h.ImageID(circuit)
	if err != nil {
		return nil, err
	}
	s, err := h.Begin(id)
	if err != nil {
		return nil, err
	}
	if s.image.Manifest.Circuit != circuit {
		return nil, errors.Wrapf(proofs.ErrUnknownProgram, "image %s runs circuit %s, not %s", s.image.Manifest.Name, s.image.Manifest.Circuit, circuit)
	}
	return s, nil
}
