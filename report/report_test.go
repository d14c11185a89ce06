package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	samples := []Sample{
		{Program: "pairing", Operands: 2, Duration: 30 * time.Millisecond},
		{Program: "addition", Operands: 4, Duration: 4 * time.Millisecond},
		{Program: "addition", Operands: 2, Duration: 1 * time.Millisecond},
		{Program: "addition", Operands: 2, Duration: 3 * time.Millisecond},
		{Program: "addition", Operands: 2, Duration: 8 * time.Millisecond},
	}

	stats := Summarize(samples)
	require.Len(t, stats, 3)

	assert.Equal(t, "addition/2", stats[0].Label())
	assert.Equal(t, "addition/4", stats[1].Label())
	assert.Equal(t, "pairing/2", stats[2].Label())

	st := stats[0]
	assert.Equal(t, 3, st.Count)
	assert.InDelta(t, 4.0, st.Mean, 1e-9)
	assert.InDelta(t, 3.0, st.Median, 1e-9)
	assert.InDelta(t, 1.0, st.Min, 1e-9)
	assert.InDelta(t, 8.0, st.Max, 1e-9)
	assert.InDelta(t, 3.605551, st.Std, 1e-6)

	assert.Equal(t, 1, stats[1].Count)
	assert.Zero(t, stats[1].Std)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestQuantileSorted(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, quantileSorted(sorted, 0))
	assert.Equal(t, 4.0, quantileSorted(sorted, 1))
	assert.InDelta(t, 2.5, quantileSorted(sorted, 0.5), 1e-9)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	stats := Summarize([]Sample{{Program: "addition", Operands: 2, Duration: time.Millisecond}})
	require.NoError(t, Render(&buf, "BLS12-381 proving", stats))
	assert.Contains(t, buf.String(), "BLS12-381 proving")
	assert.Contains(t, buf.String(), "addition/2")

	assert.Error(t, Render(&buf, "empty", nil))
}
