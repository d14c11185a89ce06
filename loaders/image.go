package loaders

import (
	"fmt"
	"os"

	"github.com/iden3/go-zkvm-bls12381/types"
	"github.com/pkg/errors"
)

// ErrImageNotFound is returned when no image exists for an id
var ErrImageNotFound = errors.New("image not found")

// ImageLoader loads raw program image bytes for specific image id
type ImageLoader interface {
	Load(id types.ImageID) ([]byte, error)
}

// FSImageLoader reads images from filesystem. Files are named after the hex
// form of their image id.
type FSImageLoader struct {
	Dir string
}

// Load image from filesystem
func (m FSImageLoader) Load(id types.ImageID) ([]byte, error) {
	raw, err := os.ReadFile(fmt.Sprintf("%s/%v.json", m.Dir, id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(ErrImageNotFound, "image %v in %s", id, m.Dir)
	}
	return raw, err
}

// LoadImage loads and parses the image for id and checks that the loaded
// bytes hash to id.
func LoadImage(l ImageLoader, id types.ImageID) (*types.Image, error) {
	raw, err := l.Load(id)
	if err != nil {
		return nil, err
	}
	if got := types.ComputeImageID(raw); got != id {
		return nil, errors.Errorf("loaded image hashes to %v, expected %v", got, id)
	}
	return types.ParseImage(raw)
}
