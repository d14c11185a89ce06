package types

import (
	"encoding/binary"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// Receipt binds the journal of one guest execution to the image that
// produced it. The journal must not be trusted before the receipt has been
// verified against the expected image id.
type Receipt struct {
	ID      uuid.UUID `json:"id"`
	ImageID ImageID   `json:"image_id"`
	Journal []byte    `json:"journal"`
	Seal    []byte    `json:"seal"`
}

// Digest returns a hash over every field that the seal commits to plus the
// seal itself.
func (r *Receipt) Digest() [32]byte {
	h := sha3.New256()
	h.Write(r.ImageID[:])
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(r.Journal)))
	h.Write(n[:])
	h.Write(r.Journal)
	h.Write(r.Seal)
	var d [32]byte
	copy(d[:], h.Sum(nil))
	return d
}
