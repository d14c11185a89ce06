// Package journal holds the public output log of a guest execution. A guest
// commits exactly one verdict; the host decodes it after the receipt has been
// verified.
package journal

import (
	"encoding/binary"

	"github.com/iden3/go-zkvm-bls12381/constants"
	"github.com/pkg/errors"
)

var (
	// ErrJournalDecode is returned when journal bytes are not a verdict.
	ErrJournalDecode = errors.New("journal does not hold a verdict")
	// ErrAlreadyCommitted is returned on a second commit.
	ErrAlreadyCommitted = errors.New("verdict already committed")
	// ErrNothingCommitted is returned when a guest finished without a commit.
	ErrNothingCommitted = errors.New("no verdict committed")
)

// Journal collects the single verdict of one guest execution.
type Journal struct {
	committed bool
	verdict   bool
}

// Commit records the verdict.
func (j *Journal) Commit(verdict bool) error {
	if j.committed {
		return ErrAlreadyCommitted
	}
	j.committed = true
	j.verdict = verdict
	return nil
}

// Committed reports whether a verdict was recorded.
func (j *Journal) Committed() bool {
	return j.committed
}

// Bytes returns the encoded journal.
func (j *Journal) Bytes() ([]byte, error) {
	if !j.committed {
		return nil, ErrNothingCommitted
	}
	return Encode(j.verdict), nil
}

// Encode encodes a verdict as a single word holding 0 or 1.
func Encode(verdict bool) []byte {
	var v uint32
	if verdict {
		v = 1
	}
	return binary.LittleEndian.AppendUint32(nil, v)
}

// Decode decodes a journal produced by Encode.
func Decode(b []byte) (bool, error) {
	if len(b) != constants.WordSize {
		return false, errors.Wrapf(ErrJournalDecode, "expected %d bytes, got %d", constants.WordSize, len(b))
	}
	switch v := binary.LittleEndian.Uint32(b); v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(ErrJournalDecode, "invalid boolean word %d", v)
	}
}
