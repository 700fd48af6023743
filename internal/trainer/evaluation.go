package trainer

import "github.com/born-ml/digitnet/internal/metrics"

// Evaluation holds the aligned results of the testing phase: true labels,
// predicted labels, and the pixel vectors they were computed from.
type Evaluation struct {
	Labels      []uint8
	Predictions []int
	Images      [][]float64
	Correct     int
	MeanCost    float64
}

// Len returns the number of evaluated samples.
func (e *Evaluation) Len() int {
	return len(e.Labels)
}

// Label returns the true class of sample i.
func (e *Evaluation) Label(i int) int {
	return int(e.Labels[i])
}

// Prediction returns the predicted class of sample i.
func (e *Evaluation) Prediction(i int) int {
	return e.Predictions[i]
}

// Pixels returns the pixel vector of sample i.
func (e *Evaluation) Pixels(i int) []float64 {
	return e.Images[i]
}

// Accuracy returns the fraction of correct predictions.
func (e *Evaluation) Accuracy() float64 {
	return metrics.Accuracy(e.Correct, e.Len())
}

// Misclassified returns the positions whose prediction differs from the label.
func (e *Evaluation) Misclassified() []int {
	var idx []int
	for i, p := range e.Predictions {
		if p != int(e.Labels[i]) {
			idx = append(idx, i)
		}
	}
	return idx
}
