package loaders

import (
	"embed"
	"path"
	"sync"

	"github.com/iden3/go-zkvm-bls12381/types"
	"github.com/pkg/errors"
)

//go:embed images/*.json
var defaultImages embed.FS

const (
	// AdditionImage is the name of the n-ary G1 addition program
	AdditionImage = "bls12-381-addition"
	// PairingImage is the name of the pairing program
	PairingImage = "bls12-381-pairing"
	// AdditionPairImage is the name of the three-operand addition program
	AdditionPairImage = "bls12-381-addition-pair"
)

var (
	builtinOnce  sync.Once
	builtinByID  map[types.ImageID][]byte
	builtinNames map[string]types.ImageID
	builtinErr   error
)

func loadBuiltins() {
	builtinByID = make(map[types.ImageID][]byte)
	builtinNames = make(map[string]types.ImageID)

	entries, err := defaultImages.ReadDir("images")
	if err != nil {
		builtinErr = errors.Wrap(err, "failed to list default images")
		return
	}
	for _, e := range entries {
		raw, err := defaultImages.ReadFile(path.Join("images", e.Name()))
		if err != nil {
			builtinErr = errors.Wrapf(err, "failed to read default image %s", e.Name())
			return
		}
		img, err := types.ParseImage(raw)
		if err != nil {
			builtinErr = errors.Wrapf(err, "default image %s", e.Name())
			return
		}
		id := img.ID()
		builtinByID[id] = raw
		builtinNames[img.Manifest.Name] = id
	}
}

// BuiltinImageID returns the id of a built-in image by program name
func BuiltinImageID(name string) (types.ImageID, error) {
	builtinOnce.Do(loadBuiltins)
	if builtinErr != nil {
		return types.ImageID{}, builtinErr
	}
	id, ok := builtinNames[name]
	if !ok {
		return types.ImageID{}, errors.Wrapf(ErrImageNotFound, "no built-in image named %s", name)
	}
	return id, nil
}

// EmbeddedImageLoader load images from embedded FS or a custom loader.
// The custom loader has priority if specified.
type EmbeddedImageLoader struct {
	imageLoader ImageLoader
	cache       map[types.ImageID][]byte
	cacheMu     *sync.RWMutex
	useCache    bool
}

// NewEmbeddedImageLoader creates a new loader with embedded images
// By default, it uses embedded images with caching enabled
// Use options to customize behavior:
//   - WithImageLoader to set custom loader
//   - WithCacheDisabled to disable caching
func NewEmbeddedImageLoader(opts ...Option) *EmbeddedImageLoader {
	loader := &EmbeddedImageLoader{
		useCache: true,
		cache:    make(map[types.ImageID][]byte),
		cacheMu:  &sync.RWMutex{},
	}

	for _, opt := range opts {
		opt(loader)
	}

	return loader
}

// Option defines functional option for configuring EmbeddedImageLoader
type Option func(*EmbeddedImageLoader)

// WithImageLoader sets a custom primary loader that will be tried before falling back to embedded images
func WithImageLoader(loader ImageLoader) Option {
	return func(e *EmbeddedImageLoader) {
		e.imageLoader = loader
	}
}

// WithCacheDisabled disables caching of loaded images
func WithCacheDisabled() Option {
	return func(e *EmbeddedImageLoader) {
		e.useCache = false
		e.cache = nil
	}
}

// Load attempts to load images in the following order:
// 1. From cache if enabled and available
// 2. From imageLoader if provided
// 3. From embedded default images
// IMPORTANT: If imageLoader is provided, embedded images are used only if error `ErrImageNotFound` return by imageLoader
func (e *EmbeddedImageLoader) Load(id types.ImageID) ([]byte, error) {
	if e.useCache {
		if raw := e.getFromCache(id); raw != nil {
			return raw, nil
		}
	}

	if e.imageLoader != nil {
		raw, err := e.imageLoader.Load(id)
		if err == nil {
			e.storeInCache(id, raw)
			return raw, nil
		}
		if !errors.Is(err, ErrImageNotFound) {
			return nil, err
		}
	}

	builtinOnce.Do(loadBuiltins)
	if builtinErr != nil {
		return nil, builtinErr
	}
	raw, ok := builtinByID[id]
	if !ok {
		return nil, errors.Wrapf(ErrImageNotFound, "failed to load default image %v", id)
	}

	e.storeInCache(id, raw)
	return raw, nil
}

func (e *EmbeddedImageLoader) getFromCache(id types.ImageID) []byte {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()
	return e.cache[id]
}

func (e *EmbeddedImageLoader) storeInCache(id types.ImageID, raw []byte) {
	if !e.useCache {
		return
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.cache[id] = raw
}
