package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits.
const (
	MaxHeaderSize    = 16 * 1024 * 1024
	MaxTensorCount   = 1024
	MaxTensorNameLen = 256
)

// Rule names the layout rule a header entry broke.
type Rule string

// Layout rules checked by ValidateLayout.
const (
	RuleCount     Rule = "tensor_count" // more entries than MaxTensorCount
	RuleShape     Rule = "shape"        // not a positive rank-1 or rank-2 shape
	RuleAlignment Rule = "alignment"    // byte range not on an 8-byte boundary
	RuleBounds    Rule = "bounds"       // byte range reversed or past the data section
	RuleSize      Rule = "size"         // byte range does not hold rows×cols float64s
	RuleCoverage  Rule = "coverage"     // overlap, gap or trailing bytes in the data section
)

// ValidationError reports a header entry that does not describe an F64
// matrix inside the data section.
type ValidationError struct {
	Rule    Rule
	Tensor  string // empty for whole-file rules
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor == "" {
		return fmt.Sprintf("invalid layout: %s: %s", e.Rule, e.Details)
	}
	return fmt.Sprintf("invalid tensor %q: %s: %s", e.Tensor, e.Rule, e.Details)
}

// ValidateTensorName rejects empty, overlong and path-like names.
func ValidateTensorName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidTensorName)
	case len(name) > MaxTensorNameLen:
		return fmt.Errorf("%w: length %d > max %d", ErrInvalidTensorName, len(name), MaxTensorNameLen)
	case strings.Contains(name, ".."),
		strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidTensorName, name)
	}
	return nil
}

// matrixShape returns the rows and cols of a rank-1 (column) or rank-2 shape.
func matrixShape(shape []int64) (rows, cols int64, ok bool) {
	switch len(shape) {
	case 1:
		rows, cols = shape[0], 1
	case 2:
		rows, cols = shape[0], shape[1]
	default:
		return 0, 0, false
	}
	return rows, cols, rows > 0 && cols > 0
}

// elementCount returns rows*cols, or false when that many float64s cannot fit
// in maxBytes. The product is never formed when it could overflow.
func elementCount(rows, cols, maxBytes int64) (int64, bool) {
	limit := maxBytes / f64Size
	if cols > limit || rows > limit/cols {
		return 0, false
	}
	return rows * cols, true
}

// ValidateLayout checks every header entry against the F64 matrix layout:
// the dtype is F64, the shape is a positive rank-1 or rank-2 shape, the byte
// range is 8-byte aligned, inside the data section and exactly rows×cols×8
// bytes long, and the ranges together cover the data section with no overlap
// and no gap.
func ValidateLayout(headers map[string]TensorHeader, dataSize int64) error {
	if len(headers) > MaxTensorCount {
		return &ValidationError{Rule: RuleCount, Details: fmt.Sprintf("got %d, max %d", len(headers), MaxTensorCount)}
	}

	type span struct {
		name       string
		start, end int64
	}
	spans := make([]span, 0, len(headers))
	for name, h := range headers {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		if h.DType != dtypeF64 {
			return fmt.Errorf("tensor %q: %w %q", name, ErrUnsupportedDType, h.DType)
		}
		rows, cols, ok := matrixShape(h.Shape)
		if !ok {
			return &ValidationError{Rule: RuleShape, Tensor: name, Details: fmt.Sprintf("shape %v", h.Shape)}
		}

		start, end := h.DataOffsets[0], h.DataOffsets[1]
		if start%f64Size != 0 || end%f64Size != 0 {
			return &ValidationError{Rule: RuleAlignment, Tensor: name, Details: fmt.Sprintf("range [%d, %d)", start, end)}
		}
		if start < 0 || end < start || end > dataSize {
			return &ValidationError{
				Rule:    RuleBounds,
				Tensor:  name,
				Details: fmt.Sprintf("range [%d, %d) in %d data bytes", start, end, dataSize),
			}
		}
		if n, ok := elementCount(rows, cols, dataSize); !ok || n*f64Size != end-start {
			return &ValidationError{
				Rule:    RuleSize,
				Tensor:  name,
				Details: fmt.Sprintf("shape %v does not match %d data bytes", h.Shape, end-start),
			}
		}
		spans = append(spans, span{name: name, start: start, end: end})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	var next int64
	prev := ""
	for _, s := range spans {
		switch {
		case s.start < next:
			return &ValidationError{Rule: RuleCoverage, Tensor: s.name, Details: fmt.Sprintf("overlaps %q", prev)}
		case s.start > next:
			return &ValidationError{Rule: RuleCoverage, Tensor: s.name, Details: fmt.Sprintf("%d unused bytes before it", s.start-next)}
		}
		next, prev = s.end, s.name
	}
	if next != dataSize {
		return &ValidationError{Rule: RuleCoverage, Details: fmt.Sprintf("%d trailing bytes", dataSize-next)}
	}
	return nil
}
