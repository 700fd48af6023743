package nn

import (
	"fmt"

	"github.com/born-ml/digitnet/internal/matrix"
)

// Parameter names, also used as checkpoint keys.
const (
	HiddenWeight = "hidden.weight"
	HiddenBias   = "hidden.bias"
	OutputWeight = "output.weight"
	OutputBias   = "output.bias"
)

// Sizes holds the widths of the three layers.
type Sizes struct {
	Input  int
	Hidden int
	Output int
}

// DefaultSizes is the 784-100-10 digit classifier.
var DefaultSizes = Sizes{Input: 784, Hidden: 100, Output: 10}

// Network is a two-layer fully-connected classifier.
//
// Architecture:
//   - Hidden: affine Input → Hidden, sigmoid activation
//   - Output: affine Hidden → Output, softmax activation
//
// Inputs are Input×1 columns. Weights are stored as (out, in) matrices so a
// layer is matmul(W, x) + b.
type Network struct {
	sizes         Sizes
	hiddenWeights *Parameter // Hidden×Input
	hiddenBias    *Parameter // Hidden×1
	outputWeights *Parameter // Output×Hidden
	outputBias    *Parameter // Output×1
}

// NewNetwork allocates a network and fills its weights with init.
// Biases start at zero.
func NewNetwork(sizes Sizes, init Initializer) (*Network, error) {
	hw, err := matrix.New(sizes.Hidden, sizes.Input)
	if err != nil {
		return nil, fmt.Errorf("hidden weights: %w", err)
	}
	hb, err := matrix.New(sizes.Hidden, 1)
	if err != nil {
		return nil, fmt.Errorf("hidden bias: %w", err)
	}
	ow, err := matrix.New(sizes.Output, sizes.Hidden)
	if err != nil {
		return nil, fmt.Errorf("output weights: %w", err)
	}
	ob, err := matrix.New(sizes.Output, 1)
	if err != nil {
		return nil, fmt.Errorf("output bias: %w", err)
	}

	init.Init(hw, sizes.Input, sizes.Hidden)
	init.Init(ow, sizes.Hidden, sizes.Output)

	return &Network{
		sizes:         sizes,
		hiddenWeights: NewParameter(HiddenWeight, hw),
		hiddenBias:    NewParameter(HiddenBias, hb),
		outputWeights: NewParameter(OutputWeight, ow),
		outputBias:    NewParameter(OutputBias, ob),
	}, nil
}

// Sizes returns the layer widths.
func (n *Network) Sizes() Sizes {
	return n.sizes
}

// Parameters returns the trainable parameters in a fixed order:
// hidden weights, hidden bias, output weights, output bias.
func (n *Network) Parameters() []*Parameter {
	return []*Parameter{n.hiddenWeights, n.hiddenBias, n.outputWeights, n.outputBias}
}

// Activations holds the values produced by one forward pass.
type Activations struct {
	Input  *matrix.Matrix // Input×1
	Hidden *matrix.Matrix // Hidden×1, sigmoid-activated
	Output *matrix.Matrix // Output×1, softmax distribution
}

// Forward runs the network on an Input×1 column.
//
//	hidden = sigmoid(matmul(Wh, input) + bh)
//	output = softmax(matmul(Wo, hidden) + bo)
func (n *Network) Forward(input *matrix.Matrix) Activations {
	hidden := Sigmoid(matrix.Add(matrix.MatMul(n.hiddenWeights.value, input), n.hiddenBias.value))
	output := Softmax(matrix.Add(matrix.MatMul(n.outputWeights.value, hidden), n.outputBias.value))
	return Activations{Input: input, Hidden: hidden, Output: output}
}

// Predict returns the class with the highest output probability.
func (n *Network) Predict(input *matrix.Matrix) int {
	return matrix.Argmax(n.Forward(input).Output)
}

// Gradients holds one gradient per parameter, shaped like the parameter.
type Gradients struct {
	HiddenWeights *matrix.Matrix
	HiddenBias    *matrix.Matrix
	OutputWeights *matrix.Matrix
	OutputBias    *matrix.Matrix
}

// List returns the gradients in the order of Network.Parameters.
func (g Gradients) List() []*matrix.Matrix {
	return []*matrix.Matrix{g.HiddenWeights, g.HiddenBias, g.OutputWeights, g.OutputBias}
}

// Backward computes parameter gradients for the pass in act against target.
//
// The softmax output and the squared error are folded into one output-layer
// error term:
//
//	gO  = output - target
//	gWo = matmul(gO, transpose(hidden))
//	gH  = matmul(transpose(Wo), gO) * hidden*(1-hidden)
//	gWh = matmul(gH, transpose(input))
//
// A bias sees a constant input of 1, so its gradient is the layer error.
func (n *Network) Backward(act Activations, target *matrix.Matrix) Gradients {
	outputGrad := matrix.Sub(act.Output, target)
	outputWeightsGrad := matrix.MatMul(outputGrad, matrix.Transpose(act.Hidden))

	hiddenGrad := matrix.Mul(
		matrix.MatMul(matrix.Transpose(n.outputWeights.value), outputGrad),
		SigmoidGrad(act.Hidden),
	)
	hiddenWeightsGrad := matrix.MatMul(hiddenGrad, matrix.Transpose(act.Input))

	return Gradients{
		HiddenWeights: hiddenWeightsGrad,
		HiddenBias:    hiddenGrad,
		OutputWeights: outputWeightsGrad,
		OutputBias:    outputGrad,
	}
}

// StateDict returns the parameters keyed by name. The matrices are shared,
// not copied.
func (n *Network) StateDict() map[string]*matrix.Matrix {
	state := make(map[string]*matrix.Matrix, 4)
	for _, p := range n.Parameters() {
		state[p.name] = p.value
	}
	return state
}

// LoadStateDict copies values from state into the parameters.
//
// Every parameter must be present with its exact shape.
func (n *Network) LoadStateDict(state map[string]*matrix.Matrix) error {
	for _, p := range n.Parameters() {
		src := state[p.name]
		if src == nil {
			return fmt.Errorf("missing parameter %q", p.name)
		}
		if src.Shape() != p.value.Shape() {
			return fmt.Errorf("parameter %q: %w", p.name,
				&matrix.DimensionError{Op: "load", A: p.value.Shape(), B: src.Shape(), Err: matrix.ErrDimensionMismatch})
		}
	}
	for _, p := range n.Parameters() {
		copy(p.value.Data(), state[p.name].Data())
	}
	return nil
}
