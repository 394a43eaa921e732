// Package diffop implements the differential operator (spec.md §3/§4.9
// C8): a pair (field-derivative, term index) used to request a single
// scalar derivative direction, or every term at once.
package diffop

import (
	"fmt"

	"github.com/sarchlab/zincfield/fieldderivative"
)

// AllTerms is the sentinel term value meaning "every term". It is the
// only negative term index New accepts.
const AllTerms = -1

// Operator is immutable once created: it owns a reference to a field
// derivative and either a single term index or AllTerms.
type Operator struct {
	derivative *fieldderivative.FieldDerivative
	term       int
}

// New validates (derivative, term) against spec.md §4.9's
// construction rule and returns the operator, or an error on
// violation: when derivative has only mesh terms, term must be in
// [0, meshTermCount-1] or AllTerms; a derivative with any parameter
// term accepts any non-negative term or AllTerms without a fixed
// upper bound known at construction time (the bound depends on which
// element is later evaluated).
func New(derivative *fieldderivative.FieldDerivative, term int) (*Operator, error) {
	if derivative == nil {
		return nil, fmt.Errorf("diffop: field derivative must not be nil")
	}
	if term < 0 && term != AllTerms {
		return nil, fmt.Errorf("diffop: negative term %d is not the AllTerms sentinel", term)
	}
	if derivative.MeshOnly() && term != AllTerms {
		count := derivative.MeshTermCount()
		if term < 0 || term >= count {
			return nil, fmt.Errorf("diffop: term %d out of range [0,%d) for mesh-only derivative", term, count)
		}
	}
	return &Operator{derivative: derivative, term: term}, nil
}

// Derivative returns the field derivative the operator applies.
func (o *Operator) Derivative() *fieldderivative.FieldDerivative { return o.derivative }

// Term returns the requested term, or AllTerms.
func (o *Operator) Term() int { return o.term }

// IsAllTerms reports whether the operator requests every term.
func (o *Operator) IsAllTerms() bool { return o.term == AllTerms }

// ElementDimension returns the mesh dimension of the operator's field
// derivative when it is mesh-valued, else 0 (spec.md §4.9).
func (o *Operator) ElementDimension() int {
	return o.derivative.MeshTermCount()
}
