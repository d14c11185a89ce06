// Package zkvm is the host side of BLS12-381 identity proofs. A Host opens a
// Session bound to a guest image, the session assembles the input tape in the
// order the guest reads it, and Run hands the tape to the prover. Verify
// checks the receipt against the expected image before its verdict is read.
package zkvm

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/iden3/go-zkvm-bls12381/cache"
	"github.com/iden3/go-zkvm-bls12381/circuits"
	"github.com/iden3/go-zkvm-bls12381/constants"
	"github.com/iden3/go-zkvm-bls12381/journal"
	"github.com/iden3/go-zkvm-bls12381/loaders"
	"github.com/iden3/go-zkvm-bls12381/proofs"
	"github.com/iden3/go-zkvm-bls12381/tape"
	"github.com/iden3/go-zkvm-bls12381/types"
	"github.com/pkg/errors"
)

// Host opens proving sessions and verifies their receipts.
type Host struct {
	prover   proofs.Prover
	loader   loaders.ImageLoader
	verified cache.Cache[bool]
	images   map[circuits.CircuitID]types.ImageID
	log      log.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithImageLoader replaces the embedded image loader.
func WithImageLoader(l loaders.ImageLoader) Option {
	return func(h *Host) {
		h.loader = l
	}
}

// WithVerificationCache replaces the cache of verified receipts.
func WithVerificationCache(c cache.Cache[bool]) Option {
	return func(h *Host) {
		h.verified = c
	}
}

// WithCircuitImage makes the convenience helpers of circuit use image id.
func WithCircuitImage(circuit circuits.CircuitID, id types.ImageID) Option {
	return func(h *Host) {
		h.images[circuit] = id
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(h *Host) {
		h.log = l
	}
}

// NewHost creates a host that proves with prover. By default images come
// from the embedded loader and the built-in images serve the convenience
// helpers.
func NewHost(prover proofs.Prover, opts ...Option) (*Host, error) {
	h := &Host{
		prover: prover,
		images: make(map[circuits.CircuitID]types.ImageID),
		log:    log.New("module", "zkvm-host"),
	}
	builtins := map[circuits.CircuitID]string{
		circuits.AdditionCircuitID:     loaders.AdditionImage,
		circuits.PairingCircuitID:      loaders.PairingImage,
		circuits.AdditionPairCircuitID: loaders.AdditionPairImage,
	}
	for circuit, name := range builtins {
		id, err := loaders.BuiltinImageID(name)
		if err != nil {
			return nil, err
		}
		h.images[circuit] = id
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.prover == nil {
		return nil, errors.New("prover is required")
	}
	if h.loader == nil {
		h.loader = loaders.NewEmbeddedImageLoader()
	}
	if h.verified == nil {
		h.verified = cache.NewInMemoryCache[bool](constants.VerificationCacheOptions)
	}
	return h, nil
}

// ImageID returns the image id the host uses for circuit.
func (h *Host) ImageID(circuit circuits.CircuitID) (types.ImageID, error) {
	id, ok := h.images[circuit]
	if !ok {
		return types.ImageID{}, errors.Wrapf(proofs.ErrUnknownProgram, "no image configured for circuit %s", circuit)
	}
	return id, nil
}

// Begin opens a session bound to image id. It fails with
// proofs.ErrUnknownProgram when the image cannot be loaded, does not hash to
// id or names a circuit without a guest.
func (h *Host) Begin(id types.ImageID) (*Session, error) {
	img, err := loaders.LoadImage(h.loader, id)
	if err != nil {
		return nil, errors.Wrapf(proofs.ErrUnknownProgram, "image %v: %v", id, err)
	}
	if _, err = circuits.GetGuest(img.Manifest.Circuit); err != nil {
		return nil, errors.Wrapf(proofs.ErrUnknownProgram, "image %s: %v", img.Manifest.Name, err)
	}

	s := &Session{
		id:      uuid.New(),
		host:    h,
		image:   img,
		imageID: id,
		w:       tape.NewWriter(),
		pending: noPending,
	}
	h.log.Debug("Session opened", "session", s.id, "image", img.Manifest.Name, "id", id)
	return s, nil
}

// Verify checks receipt against expected and decodes its verdict. A false
// verdict with a nil error is a valid proof that the compared values differ.
func (h *Host) Verify(receipt *types.Receipt, expected types.ImageID) (bool, error) {
	if err := proofs.CheckBinding(receipt, expected); err != nil {
		h.log.Warn("Receipt rejected", "err", err)
		return false, err
	}

	key := verifiedKey(receipt, expected)
	if verdict, ok := h.verified.Get(key); ok {
		return verdict, nil
	}

	if err := h.prover.Verify(receipt, expected); err != nil {
		if !errors.Is(err, proofs.ErrVerificationFailed) {
			err = errors.Wrapf(proofs.ErrVerificationFailed, "%v", err)
		}
		h.log.Warn("Receipt rejected", "receipt", receipt.ID, "err", err)
		return false, err
	}

	verdict, err := journal.Decode(receipt.Journal)
	if err != nil {
		return false, err
	}
	h.verified.Set(key, verdict)
	h.log.Debug("Receipt verified", "receipt", receipt.ID, "verdict", verdict)
	return verdict, nil
}

func verifiedKey(r *types.Receipt, expected types.ImageID) string {
	d := r.Digest()
	return r.ID.String() + "/" + expected.String() + "/" + hex.EncodeToString(d[:])
}
