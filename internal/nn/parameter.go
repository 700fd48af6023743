package nn

import (
	"github.com/born-ml/digitnet/internal/matrix"
)

// Parameter is a named trainable matrix (a layer's weights or bias).
type Parameter struct {
	name  string
	value *matrix.Matrix
}

// NewParameter wraps value under name.
func NewParameter(name string, value *matrix.Matrix) *Parameter {
	return &Parameter{name: name, value: value}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter matrix. The optimizer updates it in place.
func (p *Parameter) Value() *matrix.Matrix {
	return p.value
}
