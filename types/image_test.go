package types

import (
	"encoding/json"
	"testing"

	"github.com/iden3/go-zkvm-bls12381/circuits"
	"github.com/iden3/go-zkvm-bls12381/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const additionManifest = `{"name":"bls12-381-addition","circuit":"bls12381Addition","g1_format":"compressed","version":1}`

func TestParseImage(t *testing.T) {
	img, err := ParseImage([]byte(additionManifest))
	require.NoError(t, err)
	assert.Equal(t, "bls12-381-addition", img.Manifest.Name)
	assert.Equal(t, circuits.AdditionCircuitID, img.Manifest.Circuit)
	assert.Equal(t, codec.Compressed, img.Codec().Format())
	assert.Equal(t, ComputeImageID([]byte(additionManifest)), img.ID())

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseImage([]byte("{"))
		assert.Error(t, err)
	})

	t.Run("missing circuit", func(t *testing.T) {
		_, err := ParseImage([]byte(`{"name":"x"}`))
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := ParseImage([]byte(`{"name":"x","circuit":"bls12381Addition","g1_format":"raw"}`))
		assert.Error(t, err)
	})
}

func TestImageIDBindsBytes(t *testing.T) {
	a := ComputeImageID([]byte(additionManifest))
	b := ComputeImageID([]byte(additionManifest + " "))
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
	assert.True(t, ImageID{}.IsZero())
}

func TestImageIDText(t *testing.T) {
	id := ComputeImageID([]byte(additionManifest))

	parsed, err := ParseImageID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	b, err := json.Marshal(struct {
		ID ImageID `json:"id"`
	}{ID: id})
	require.NoError(t, err)
	assert.Contains(t, string(b), id.String())

	var out struct {
		ID ImageID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, id, out.ID)

	_, err = ParseImageID("0x1234")
	assert.Error(t, err)
	_, err = ParseImageID("not hex")
	assert.Error(t, err)
}
