// Package circuits defines the guest circuits executed under proof. Each
// circuit reads its operands from a tape in the exact order the matching
// host-side writer put them there, recomputes a BLS12-381 identity and
// commits one verdict to the journal.
package circuits

import (
	"sync"

	"github.com/iden3/go-zkvm-bls12381/codec"
	"github.com/iden3/go-zkvm-bls12381/journal"
	"github.com/iden3/go-zkvm-bls12381/tape"
	"github.com/pkg/errors"
)

// CircuitID is a type that must be used for circuit id definition
type CircuitID string

const (
	// AdditionCircuitID sums n G1 points and compares with an expected aggregate
	AdditionCircuitID CircuitID = "bls12381Addition"
	// PairingCircuitID computes e(p, q) and compares with an expected target element
	PairingCircuitID CircuitID = "bls12381Pairing"
	// AdditionPairCircuitID checks a + b == c over three G1 points
	AdditionPairCircuitID CircuitID = "bls12381AdditionPair"
)

// ErrUnsupportedCircuit is returned when no guest is registered for a circuit id
var ErrUnsupportedCircuit = errors.New("circuit is not supported")

// Guest is the entry point of a guest circuit. It may only read from in and
// commit to out.
type Guest func(c codec.Codec, in *tape.Reader, out *journal.Journal) error

var (
	guestsMu sync.RWMutex
	guests   = map[CircuitID]Guest{
		AdditionCircuitID:     additionGuest,
		PairingCircuitID:      pairingGuest,
		AdditionPairCircuitID: additionPairGuest,
	}
)

// RegisterGuest adds or replaces the guest of a circuit.
func RegisterGuest(id CircuitID, g Guest) {
	guestsMu.Lock()
	defer guestsMu.Unlock()
	guests[id] = g
}

// GetGuest returns the guest registered for id.
func GetGuest(id CircuitID) (Guest, error) {
	guestsMu.RLock()
	defer guestsMu.RUnlock()
	g, ok := guests[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedCircuit, "circuit %s", id)
	}
	return g, nil
}

// Execute runs the guest of circuit id over input and returns the encoded
// journal. Any read, decode or commit failure aborts the execution and no
// journal is returned.
func Execute(id CircuitID, c codec.Codec, input []byte) ([]byte, error) {
	guest, err := GetGuest(id)
	if err != nil {
		return nil, err
	}

	in := tape.NewReader(input)
	var out journal.Journal
	if err = guest(c, in, &out); err != nil {
		return nil, errors.Wrapf(err, "circuit %s aborted", id)
	}
	if !in.Done() {
		return nil, errors.Wrapf(tape.ErrLengthMismatch, "circuit %s left %d unread tape bytes", id, in.Remaining())
	}
	return out.Bytes()
}

// TapeWriter is the host side of the tape.
type TapeWriter interface {
	WriteCount(n int) error
	WriteBytes(buf []byte) error
}

func writeSegment(w TapeWriter, buf []byte) error {
	if err := w.WriteCount(len(buf)); err != nil {
		return err
	}
	return w.WriteBytes(buf)
}
