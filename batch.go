package zkvm

import (
	"context"
	"math/rand"
	"time"

	"github.com/iden3/go-zkvm-bls12381/constants"
	"github.com/iden3/go-zkvm-bls12381/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Job is one independent proving run of a batch.
type Job struct {
	// Name groups results, e.g. in reports.
	Name string
	// Operands is the number of curve operands the job proves over.
	Operands int
	// Seed seeds the job's own random source.
	Seed int64
	// Build opens and fills the session. It runs outside the timed region.
	Build func(h *Host, rng *rand.Rand) (*Session, error)
}

// Result is the outcome of a Job.
type Result struct {
	Job      string
	Operands int
	Receipt  *types.Receipt
	Verdict  bool
	// Duration covers proving only.
	Duration time.Duration
}

// AdditionJob proves the sum of n random G1 points.
func AdditionJob(n int, seed int64) Job {
	return Job{
		Name:     "addition",
		Operands: n,
		Seed:     seed,
		Build: func(h *Host, rng *rand.Rand) (*Session, error) {
			return h.NewAdditionSession(SetupG1Addition(rng, n))
		},
	}
}

// PairingJob proves e(p, q) for random p and q.
func PairingJob(seed int64) Job {
	return Job{
		Name:     "pairing",
		Operands: 2,
		Seed:     seed,
		Build: func(h *Host, rng *rand.Rand) (*Session, error) {
			in, err := SetupPairing(rng)
			if err != nil {
				return nil, err
			}
			return h.NewPairingSession(in)
		},
	}
}

// RunBatch runs jobs with at most parallelism concurrent provers and
// verifies every receipt. Each job owns its random source and session, so
// jobs share no mutable state. The first failure cancels the batch.
func (h *Host) RunBatch(ctx context.Context, jobs []Job, parallelism int) ([]Result, error) {
	if parallelism <= 0 {
		parallelism = constants.DefaultBatchParallelism
	}
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			s, err := job.Build(h, rand.New(rand.NewSource(job.Seed)))
			if err != nil {
				return errors.Wrapf(err, "job %d (%s)", i, job.Name)
			}

			start := time.Now()
			receipt, err := s.Run(gctx)
			elapsed := time.Since(start)
			if err != nil {
				return errors.Wrapf(err, "job %d (%s)", i, job.Name)
			}

			verdict, err := h.Verify(receipt, s.ImageID())
			if err != nil {
				return errors.Wrapf(err, "job %d (%s)", i, job.Name)
			}
			results[i] = Result{
				Job:      job.Name,
				Operands: job.Operands,
				Receipt:  receipt,
				Verdict:  verdict,
				Duration: elapsed,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
