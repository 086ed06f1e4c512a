package tensor

import "fmt"

// ShapeError reports a shape mismatch between tensor operands: incompatible
// matrix dimensions, a mask that cannot broadcast against a score tensor, or
// mismatched feature widths. Proceeding with mismatched shapes would corrupt
// every downstream computation, so ops surface a *ShapeError immediately
// (via panic for programmer errors inside kernels, via error return on
// construction paths) and never recover silently.
type ShapeError struct {
	Op      string // Operation that detected the mismatch (e.g. "matmul")
	A, B    Shape  // Operand shapes involved
	Details string // Additional details
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.B != nil {
		return fmt.Sprintf("%s: incompatible shapes %v and %v: %s", e.Op, e.A, e.B, e.Details)
	}
	if e.A != nil {
		return fmt.Sprintf("%s: shape %v: %s", e.Op, e.A, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Details)
}
