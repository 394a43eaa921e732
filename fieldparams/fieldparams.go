// Package fieldparams implements the per-field opaque parameter set
// that supports perturbation during finite-difference derivative
// evaluation (spec.md §4.5).
package fieldparams

import "fmt"

// Parameters tracks the number of element parameters for a given
// element and supports scoped perturbation of one indexed parameter.
// A field owns at most one Parameters object.
type Parameters struct {
	// delta is the fixed perturbation step used for parameter
	// derivatives, analogous to the 1e-5 mesh-chart step of spec.md
	// §4.6 but settable per field since parameter scales vary widely.
	delta float64

	// counts maps an element identifier to its number of element
	// parameters, since that count generally depends on which element
	// the field is being evaluated over.
	counts map[int]int

	// active, when non-nil, is the single outstanding perturbation:
	// index into the current element's parameter vector and the
	// signed delta applied. Only one perturbation may be active at a
	// time, matching the "scoped acquisition... guaranteed removal on
	// every exit path" design note of spec.md §9.
	active *perturbation
}

type perturbation struct {
	element int
	index   int
	delta   float64
}

// DefaultDelta is used when New is not given an explicit step.
const DefaultDelta = 1e-5

// New creates a Parameters object with the given perturbation delta.
// A non-positive delta is replaced with DefaultDelta.
func New(delta float64) *Parameters {
	if delta <= 0 {
		delta = DefaultDelta
	}
	return &Parameters{delta: delta, counts: map[int]int{}}
}

// Delta returns the perturbation step this Parameters object uses for
// finite-difference parameter derivatives.
func (p *Parameters) Delta() float64 { return p.delta }

// SetNumberOfParameters records how many element parameters element
// has.
func (p *Parameters) SetNumberOfParameters(element, count int) {
	p.counts[element] = count
}

// NumberOfParameters returns how many element parameters element has,
// or 0 if never recorded.
func (p *Parameters) NumberOfParameters(element int) int {
	return p.counts[element]
}

// Perturb begins perturbing parameter index of element by delta. It
// fails if another perturbation is already active (perturbations do
// not nest) or index is out of range for the element's recorded
// parameter count.
func (p *Parameters) Perturb(element, index int, delta float64) error {
	if p.active != nil {
		return fmt.Errorf("fieldparams: a perturbation is already active on element %d index %d", p.active.element, p.active.index)
	}
	if index < 0 || index >= p.counts[element] {
		return fmt.Errorf("fieldparams: parameter index %d out of range [0,%d) for element %d", index, p.counts[element], element)
	}
	p.active = &perturbation{element: element, index: index, delta: delta}
	return nil
}

// Active reports the currently active perturbation, if any: the
// element, the parameter index, and the signed delta. ok is false when
// no perturbation is active.
func (p *Parameters) Active() (element, index int, delta float64, ok bool) {
	if p.active == nil {
		return 0, 0, 0, false
	}
	return p.active.element, p.active.index, p.active.delta, true
}

// Unperturb removes the active perturbation, restoring the parameter
// set to its unperturbed state. It is always safe to call, including
// when no perturbation is active, so callers can defer it
// unconditionally on every exit path (spec.md §9).
func (p *Parameters) Unperturb() {
	p.active = nil
}
