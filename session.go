package zkvm

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/iden3/go-zkvm-bls12381/codec"
	"github.com/iden3/go-zkvm-bls12381/proofs"
	"github.com/iden3/go-zkvm-bls12381/tape"
	"github.com/iden3/go-zkvm-bls12381/types"
	"github.com/pkg/errors"
)

const noPending = -1

// Session assembles the input tape of one guest execution. A session is
// single use: it is built once, run once and then discarded. It must not be
// shared between goroutines.
type Session struct {
	id      uuid.UUID
	host    *Host
	image   *types.Image
	imageID types.ImageID
	w       *tape.Writer
	pending int
	ran     bool
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// ImageID returns the image the session is bound to.
func (s *Session) ImageID() types.ImageID {
	return s.imageID
}

// Image returns the image the session is bound to.
func (s *Session) Image() *types.Image {
	return s.image
}

// Codec returns the codec the bound guest decodes operands with.
func (s *Session) Codec() codec.Codec {
	return s.image.Codec()
}

// WriteCount appends an element count or a length prefix.
func (s *Session) WriteCount(n int) error {
	if s.ran {
		return tape.ErrTapeConsumed
	}
	if n < 0 || uint64(n) > math.MaxUint32 {
		return errors.Errorf("count %d does not fit a tape word", n)
	}
	s.w.WriteCount(uint32(n))
	s.pending = n
	return nil
}

// WriteBytes appends buf. It must immediately follow WriteCount(len(buf)).
func (s *Session) WriteBytes(buf []byte) error {
	if s.ran {
		return tape.ErrTapeConsumed
	}
	if s.pending != len(buf) {
		return errors.Wrapf(tape.ErrLengthMismatch, "%d bytes written without a matching length prefix", len(buf))
	}
	s.w.WriteBytes(buf)
	s.pending = noPending
	return nil
}

// TapeLen returns the size of the tape assembled so far.
func (s *Session) TapeLen() int {
	return s.w.Len()
}

// Run proves the guest over the assembled tape and blocks until the prover
// returns. Every proving failure, including a prover that does not recognise the
// image, is reported as proofs.ErrProofGenerationFailed and no receipt is
// returned.
func (s *Session) Run(ctx context.Context) (*types.Receipt, error) {
	if s.ran {
		return nil, tape.ErrTapeConsumed
	}
	s.ran = true

	log := s.host.log.New("session", s.id, "image", s.image.Manifest.Name)
	log.Debug("Proving", "tape", s.w.Len())

	receipt, err := s.host.prover.Prove(ctx, s.image, s.imageID, s.w.Bytes())
	if err != nil {
		if !errors.Is(err, proofs.ErrProofGenerationFailed) {
			err = errors.Wrapf(proofs.ErrProofGenerationFailed, "%v", err)
		}
		log.Warn("Proving failed", "err", err)
		return nil, err
	}
	if receipt == nil {
		return nil, errors.Wrap(proofs.ErrProofGenerationFailed, "prover returned no receipt")
	}
	log.Debug("Proved", "receipt", receipt.ID)
	return receipt, nil
}
