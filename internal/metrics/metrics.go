// Package metrics aggregates classification accuracy and cost across a run.
package metrics

import "fmt"

// Counter tracks correct predictions over a phase or epoch.
type Counter struct {
	Correct int
	Total   int
}

// Observe records one prediction against its true label.
func (c *Counter) Observe(predicted, label int) {
	c.Total++
	if predicted == label {
		c.Correct++
	}
}

// Accuracy returns Correct/Total, or 0 before the first observation.
func (c *Counter) Accuracy() float64 {
	return Accuracy(c.Correct, c.Total)
}

// Reset zeroes the counter.
func (c *Counter) Reset() {
	c.Correct = 0
	c.Total = 0
}

// Accuracy returns correct/total, or 0 when total is 0.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Report is the summary of a training and testing run.
type Report struct {
	EpochAccuracy []float64 // correct/samples per training epoch
	EpochCost     []float64 // mean cost per training epoch
	TrainAccuracy float64   // mean of EpochAccuracy
	TestAccuracy  float64
	TestCost      float64 // mean cost over the test set
	FinalCost     float64 // cost of the last processed sample
	TrainSamples  int     // samples per epoch
	TestSamples   int
}

// Finish derives TrainAccuracy from the per-epoch values.
func (r *Report) Finish() {
	r.TrainAccuracy = Mean(r.EpochAccuracy)
}

// String formats the report as key=value pairs.
func (r *Report) String() string {
	return fmt.Sprintf("epochs=%d train_acc=%.4f test_acc=%.4f test_cost=%.6f final_cost=%.6f",
		len(r.EpochAccuracy), r.TrainAccuracy, r.TestAccuracy, r.TestCost, r.FinalCost)
}
