package types

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/iden3/go-zkvm-bls12381/circuits"
	"github.com/iden3/go-zkvm-bls12381/codec"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// ImageIDSize is the width of an ImageID.
const ImageIDSize = 32

var imageDomain = []byte("zkvm-bls12381/image/v1")

// ImageID identifies a guest program image.
type ImageID [ImageIDSize]byte

// String returns the 0x-prefixed hex form of the id
func (id ImageID) String() string {
	return hexutil.Encode(id[:])
}

// IsZero reports whether the id is unset
func (id ImageID) IsZero() bool {
	return id == ImageID{}
}

// MarshalText implements encoding.TextMarshaler
func (id ImageID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *ImageID) UnmarshalText(text []byte) error {
	parsed, err := ParseImageID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseImageID parses the 0x-prefixed hex form of an image id
func ParseImageID(s string) (ImageID, error) {
	var id ImageID
	b, err := hexutil.Decode(s)
	if err != nil {
		return id, errors.Wrapf(err, "image id %q", s)
	}
	if len(b) != ImageIDSize {
		return id, errors.Errorf("image id must be %d bytes, got %d", ImageIDSize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Manifest describes the guest program contained in an image
type Manifest struct {
	Name     string             `json:"name"`
	Circuit  circuits.CircuitID `json:"circuit"`
	G1Format string             `json:"g1_format"`
	Version  int                `json:"version"`
}

// Image is a loaded guest program image
type Image struct {
	Manifest Manifest
	Format   codec.Format
	Raw      []byte
}

// ParseImage parses raw image bytes
func ParseImage(raw []byte) (*Image, error) {
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse image manifest")
	}
	if m.Name == "" || m.Circuit == "" {
		return nil, errors.New("image manifest must name the program and its circuit")
	}
	f, err := codec.ParseFormat(m.G1Format)
	if err != nil {
		return nil, errors.Wrapf(err, "image %s", m.Name)
	}
	return &Image{Manifest: m, Format: f, Raw: append([]byte(nil), raw...)}, nil
}

// ComputeImageID derives the identity of raw image bytes
func ComputeImageID(raw []byte) ImageID {
	h := sha3.New256()
	h.Write(imageDomain)
	h.Write(raw)
	var id ImageID
	copy(id[:], h.Sum(nil))
	return id
}

// ID returns the identity of the image
func (img *Image) ID() ImageID {
	return ComputeImageID(img.Raw)
}

// Codec returns the codec the image's guest decodes its tape with
func (img *Image) Codec() codec.Codec {
	return codec.New(img.Format)
}
