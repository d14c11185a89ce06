// Package proofs defines the boundary with the proving capability: run a
// guest image over an input tape under proof, and verify the resulting
// receipt against an expected image id.
package proofs

import (
	"context"

	"github.com/iden3/go-zkvm-bls12381/types"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownProgram is returned when an image id does not match a loaded image.
	ErrUnknownProgram = errors.New("unknown program")
	// ErrProofGenerationFailed is returned when the guest aborts or the prover fails.
	ErrProofGenerationFailed = errors.New("proof generation failed")
	// ErrVerificationFailed is returned when a receipt does not verify against
	// the expected image id. Its journal must not be read.
	ErrVerificationFailed = errors.New("receipt verification failed")
)

// Prover executes guest images under proof.
//
//go:generate mockgen -destination=mock/ProverMock.go . Prover
type Prover interface {
	// Prove runs image over input and blocks until a receipt is produced.
	Prove(ctx context.Context, image *types.Image, id types.ImageID, input []byte) (*types.Receipt, error)
	// Verify checks that receipt was produced by the image with id expected.
	Verify(receipt *types.Receipt, expected types.ImageID) error
}

// CheckBinding rejects receipts that are not bound to expected before any
// proof material is inspected.
func CheckBinding(receipt *types.Receipt, expected types.ImageID) error {
	if receipt == nil {
		return errors.Wrap(ErrVerificationFailed, "nil receipt")
	}
	if receipt.ImageID != expected {
		return errors.Wrapf(ErrVerificationFailed, "receipt is bound to image %v, expected %v", receipt.ImageID, expected)
	}
	return nil
}
