package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/digitnet/internal/metrics"
)

func TestCounter(t *testing.T) {
	var c metrics.Counter
	assert.Zero(t, c.Accuracy())

	c.Observe(1, 1)
	c.Observe(2, 3)
	c.Observe(4, 4)
	c.Observe(0, 9)

	assert.Equal(t, 2, c.Correct)
	assert.Equal(t, 4, c.Total)
	assert.InDelta(t, 0.5, c.Accuracy(), 1e-12)

	c.Reset()
	assert.Equal(t, metrics.Counter{}, c)
}

func TestMean(t *testing.T) {
	assert.Zero(t, metrics.Mean(nil))
	assert.InDelta(t, 0.8, metrics.Mean([]float64{0.7, 0.8, 0.9}), 1e-12)
}

func TestReport(t *testing.T) {
	r := metrics.Report{EpochAccuracy: []float64{0.5, 0.7}, TestAccuracy: 0.75}
	r.Finish()

	assert.InDelta(t, 0.6, r.TrainAccuracy, 1e-12)
	assert.Contains(t, r.String(), "epochs=2")
	assert.Contains(t, r.String(), "train_acc=0.6000")
	assert.Contains(t, r.String(), "test_acc=0.7500")
}
