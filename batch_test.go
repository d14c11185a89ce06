package zkvm

import (
	"context"
	"math/rand"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/iden3/go-zkvm-bls12381/proofs"
	"github.com/iden3/go-zkvm-bls12381/proofs/local"
	mock_proofs "github.com/iden3/go-zkvm-bls12381/proofs/mock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch(t *testing.T) {
	h, err := NewHost(local.NewProver())
	require.NoError(t, err)

	jobs := []Job{
		AdditionJob(0, 1),
		AdditionJob(1, 2),
		AdditionJob(3, 3),
		AdditionJob(8, 4),
		PairingJob(5),
		PairingJob(6),
	}
	results, err := h.RunBatch(context.Background(), jobs, 3)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	for i, r := range results {
		assert.Equal(t, jobs[i].Name, r.Job)
		assert.Equal(t, jobs[i].Operands, r.Operands)
		assert.True(t, r.Verdict, "job %d", i)
		require.NotNil(t, r.Receipt)
	}
}

func TestRunBatchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_proofs.NewMockProver(ctrl)
	m.EXPECT().Prove(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("out of cycles")).AnyTimes()

	h, err := NewHost(m)
	require.NoError(t, err)

	_, err = h.RunBatch(context.Background(), []Job{AdditionJob(2, 1), PairingJob(2)}, 0)
	assert.True(t, errors.Is(err, proofs.ErrProofGenerationFailed))
}

func TestRunBatchBuildFailure(t *testing.T) {
	h, err := NewHost(local.NewProver())
	require.NoError(t, err)

	broken := Job{
		Name: "broken",
		Build: func(h *Host, rng *rand.Rand) (*Session, error) {
			return nil, errors.New("no operands")
		},
	}
	_, err = h.RunBatch(context.Background(), []Job{broken}, 1)
	assert.ErrorContains(t, err, "no operands")
}

func TestRunBatchCancelled(t *testing.T) {
	h, err := NewHost(local.NewProver())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.RunBatch(ctx, []Job{AdditionJob(2, 1)}, 1)
	assert.True(t, errors.Is(err, proofs.ErrProofGenerationFailed))
}
