package mesh

import "fmt"

// ElementTemplate is a prototype element definition used to create new
// elements or merge a definition onto an existing one (spec.md §4.8).
type ElementTemplate struct {
	shape         Shape
	numLocalNodes int

	// scaleFactorSets maps a named scale-factor set to its element
	// count; the set is considered removed once its count is written
	// to zero. Each set name is write-once: once given a non-zero
	// count it cannot be resized, only removed and re-added.
	scaleFactorSets map[string]int

	// components maps a field identity to its ordered per-component
	// definitions.
	components map[string][]*ComponentDefinition

	validated      bool
	validatedShape Shape
}

// NewElementTemplate starts a template of the given shape with
// numLocalNodes local nodes. ShapeUnspecified is legal: it is resolved
// by DefineElement against an existing element's shape, or rejected by
// CreateElement, which has no existing shape to fall back on.
func NewElementTemplate(shape Shape, numLocalNodes int) (*ElementTemplate, error) {
	if numLocalNodes < 0 {
		return nil, fmt.Errorf("mesh: element template needs a non-negative local node count")
	}
	return &ElementTemplate{
		shape:           shape,
		numLocalNodes:   numLocalNodes,
		scaleFactorSets: map[string]int{},
		components:      map[string][]*ComponentDefinition{},
	}, nil
}

// Shape returns the template's shape tag.
func (t *ElementTemplate) Shape() Shape { return t.shape }

// NumLocalNodes returns the number of local nodes the template was
// constructed with.
func (t *ElementTemplate) NumLocalNodes() int { return t.numLocalNodes }

// SetScaleFactorCount sets the number of scale factors in the named
// set. A count of zero removes the set (spec.md §4.8: "write-once per
// set; zero means remove").
func (t *ElementTemplate) SetScaleFactorCount(set string, count int) error {
	if count < 0 {
		return fmt.Errorf("mesh: scale factor count must be non-negative")
	}
	if count == 0 {
		delete(t.scaleFactorSets, set)
		t.validated = false
		return nil
	}
	if existing, ok := t.scaleFactorSets[set]; ok && existing != count {
		return fmt.Errorf("mesh: scale factor set %q is already sized %d, cannot resize to %d", set, existing, count)
	}
	t.scaleFactorSets[set] = count
	t.validated = false
	return nil
}

// DefineFieldComponent attaches basis to component (0-based) of field
// f, recording which local node each basis node maps to and the nodal
// value terms for each. len(localNodeIndices) and len(terms) must both
// equal basis.NumberOfNodes().
func (t *ElementTemplate) DefineFieldComponent(
	f FieldIdentity,
	component int,
	basis *Basis,
	localNodeIndices []int,
	terms [][]NodalTerm,
) error {
	if component < 0 {
		return fmt.Errorf("mesh: component index must be non-negative")
	}
	if len(localNodeIndices) != basis.NumberOfNodes() || len(terms) != basis.NumberOfNodes() {
		return fmt.Errorf("mesh: expected %d local node mappings, got %d / %d", basis.NumberOfNodes(), len(localNodeIndices), len(terms))
	}
	for _, idx := range localNodeIndices {
		if idx < 0 || idx >= t.numLocalNodes {
			return fmt.Errorf("mesh: local node index %d out of range [0,%d)", idx, t.numLocalNodes)
		}
	}
	defs := t.components[f.FieldIdentity()]
	for len(defs) <= component {
		defs = append(defs, nil)
	}
	defs[component] = &ComponentDefinition{
		Basis:            basis,
		LocalNodeIndices: append([]int(nil), localNodeIndices...),
		Terms:            terms,
	}
	t.components[f.FieldIdentity()] = defs
	t.validated = false
	return nil
}

// Validate checks the template is internally consistent (every
// defined component's basis dimension matches the shape's dimension)
// and marks it ready for use. Validate is idempotent (testable
// property 9): calling it again without modification is a no-op that
// returns the same result.
func (t *ElementTemplate) Validate() error {
	if t.validated && t.validatedShape == t.shape {
		return nil
	}
	if t.shape != ShapeUnspecified {
		dim := t.shape.dimensionOf()
		for fieldID, defs := range t.components {
			for component, def := range defs {
				if def == nil {
					continue
				}
				if def.Basis.Dimension() != dim {
					return fmt.Errorf(
						"mesh: field %q component %d basis dimension %d does not match shape %s dimension %d",
						fieldID, component, def.Basis.Dimension(), t.shape, dim)
				}
			}
		}
	}
	t.validated = true
	t.validatedShape = t.shape
	return nil
}

// merge returns the template's shape and fresh copies of its
// component definitions and zero-filled scale factor sets, used to
// build or overlay the element produced by CreateElement/DefineElement.
// A template with ShapeUnspecified yields the base shape passed in.
func (t *ElementTemplate) merge(base Shape) (Shape, map[string][]*ComponentDefinition, map[string][]float64) {
	shape := t.shape
	if shape == ShapeUnspecified {
		shape = base
	}
	components := make(map[string][]*ComponentDefinition, len(t.components))
	for k, v := range t.components {
		components[k] = append([]*ComponentDefinition(nil), v...)
	}
	scaleFactors := make(map[string][]float64, len(t.scaleFactorSets))
	for set, count := range t.scaleFactorSets {
		scaleFactors[set] = make([]float64, count)
	}
	return shape, components, scaleFactors
}
