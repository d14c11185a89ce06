// Package local implements proofs.Prover by executing guest circuits in
// process. Receipts carry a SHA3 digest seal over the receipt id, image id and
// journal instead of a zero-knowledge proof, so they only attest to honest
// execution by a prover sharing the same seal key. It is meant for tests and
// development runs.
package local

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/iden3/go-zkvm-bls12381/circuits"
	"github.com/iden3/go-zkvm-bls12381/proofs"
	"github.com/iden3/go-zkvm-bls12381/types"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

var sealDomain = []byte("zkvm-bls12381/local-seal/v1")

// Prover is an in-process proofs.Prover.
type Prover struct {
	key []byte
	log log.Logger
}

// Option configures a Prover.
type Option func(*Prover)

// WithSealKey mixes key into every seal. Receipts only verify with a prover
// holding the same key.
func WithSealKey(key []byte) Option {
	return func(p *Prover) {
		p.key = append([]byte(nil), key...)
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(p *Prover) {
		p.log = l
	}
}

// NewProver creates a local prover.
func NewProver(opts ...Option) *Prover {
	p := &Prover{log: log.New("module", "local-prover")}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prove executes the guest of image over input and seals the journal.
func (p *Prover) Prove(ctx context.Context, image *types.Image, id types.ImageID, input []byte) (*types.Receipt, error) {
	if image == nil {
		return nil, errors.Wrap(proofs.ErrUnknownProgram, "nil image")
	}
	if got := image.ID(); got != id {
		return nil, errors.Wrapf(proofs.ErrUnknownProgram, "image %s hashes to %v, not %v", image.Manifest.Name, got, id)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(proofs.ErrProofGenerationFailed, "%v", err)
	}

	journal, err := execute(image, input)
	if err != nil {
		p.log.Debug("Guest aborted", "image", image.Manifest.Name, "err", err)
		return nil, errors.Wrapf(proofs.ErrProofGenerationFailed, "%v", err)
	}

	receipt := &types.Receipt{
		ID:      uuid.New(),
		ImageID: id,
		Journal: journal,
	}
	receipt.Seal = p.seal(receipt)
	p.log.Debug("Receipt sealed", "image", image.Manifest.Name, "receipt", receipt.ID, "tape", len(input))
	return receipt, nil
}

// Verify checks the binding of receipt to expected and its seal.
func (p *Prover) Verify(receipt *types.Receipt, expected types.ImageID) error {
	if err := proofs.CheckBinding(receipt, expected); err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(p.seal(receipt), receipt.Seal) != 1 {
		return errors.Wrapf(proofs.ErrVerificationFailed, "seal of receipt %s does not match", receipt.ID)
	}
	return nil
}

func (p *Prover) seal(r *types.Receipt) []byte {
	h := sha3.New256()
	h.Write(sealDomain)
	h.Write(p.key)
	h.Write(r.ID[:])
	h.Write(r.ImageID[:])
	h.Write(r.Journal)
	return h.Sum(nil)
}

// execute runs the guest and turns a guest panic into an abort.
func execute(image *types.Image, input []byte) (journal []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			journal = nil
			err = fmt.Errorf("guest panicked: %v", r)
		}
	}()
	return circuits.Execute(image.Manifest.Circuit, image.Codec(), input)
}
