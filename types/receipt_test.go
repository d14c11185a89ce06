package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReceiptDigest(t *testing.T) {
	r := Receipt{ID: uuid.New(), ImageID: ImageID{1}, Journal: []byte{1, 0, 0, 0}, Seal: []byte{9, 9}}
	d := r.Digest()

	other := r
	other.Journal = []byte{0, 0, 0, 0}
	assert.NotEqual(t, d, other.Digest())

	other = r
	other.ImageID = ImageID{2}
	assert.NotEqual(t, d, other.Digest())

	other = r
	other.Seal = []byte{9, 8}
	assert.NotEqual(t, d, other.Digest())

	// journal and seal boundaries are unambiguous
	other = r
	other.Journal = []byte{1, 0, 0, 0, 9}
	other.Seal = []byte{9}
	assert.NotEqual(t, d, other.Digest())

	other = r
	other.ID = uuid.New()
	assert.Equal(t, d, other.Digest())
}
