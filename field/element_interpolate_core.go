package field

import (
	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/message"
	"github.com/sarchlab/zincfield/mesh"
)

// ElementInterpolateCore evaluates a field by basis interpolation over
// an element: each component is defined on a per-element basis
// attached via mesh.ElementTemplate.DefineFieldComponent, and Evaluate
// sums the basis weights at the current xi against the nodal values
// stored for the node occupying each local node slot (spec.md §4.8's
// element field concept).
//
// Only a single plain nodal value term (mesh.ValueOnly, no Hermite
// derivative terms) per basis node is supported; anything else is
// rejected rather than silently interpolating the wrong quantity.
type ElementInterpolateCore struct {
	BaseCore
	componentCount int
	values         map[int][]float64 // node identifier -> componentCount values
}

// NewElementInterpolate builds a componentCount-wide field whose value
// at an element location is interpolated from per-node values via the
// basis mesh.ElementTemplate.DefineFieldComponent attached to it.
func NewElementInterpolate(name string, componentCount int) (*Field, error) {
	return New(name, componentCount, nil, nil, &ElementInterpolateCore{
		componentCount: componentCount,
		values:         map[int][]float64{},
	})
}

// SetNodeValue stores the componentCount-wide value node contributes
// wherever it occupies a local node slot of an element this field has
// a basis defined over.
func (c *ElementInterpolateCore) SetNodeValue(node *mesh.Node, value []float64) error {
	if len(value) != c.componentCount {
		return message.New(message.Argument, "element interpolate field needs %d components, got %d", c.componentCount, len(value))
	}
	c.values[node.Identifier] = append([]float64(nil), value...)
	return nil
}

// TypeString implements Core.
func (c *ElementInterpolateCore) TypeString() string { return "ELEMENT_INTERPOLATE" }

// ValueType implements Core.
func (c *ElementInterpolateCore) ValueType() ValueType { return Real }

// Evaluate implements Core: interpolates each component from the
// basis attached to the current element via DefineFieldComponent.
func (c *ElementInterpolateCore) Evaluate(f *Field, cache *fieldcache.Cache) error {
	element, xi, err := cache.Location().ResolveElementXi()
	if err != nil {
		return message.New(message.General, "element interpolate field %q: %v", f.name, err)
	}

	out := make([]float64, c.componentCount)
	for comp := 0; comp < c.componentCount; comp++ {
		def := element.ComponentDefinition(f, comp)
		if def == nil {
			return message.New(message.NotFound, "element interpolate field %q has no basis defined for component %d on element %d", f.name, comp, element.Identifier())
		}
		weights, err := def.Basis.Evaluate(xi)
		if err != nil {
			return message.New(message.General, "element interpolate field %q: %v", f.name, err)
		}

		sum := 0.0
		for k, w := range weights {
			terms := def.Terms[k]
			if len(terms) != 1 || terms[0].ValueType != mesh.ValueOnly {
				return message.New(message.General, "element interpolate field %q: only a single plain nodal value term per basis node is supported", f.name)
			}
			node := element.LocalNode(def.LocalNodeIndices[k])
			if node == nil {
				return message.New(message.NotFound, "element interpolate field %q: element %d has no node assigned at local index %d", f.name, element.Identifier(), def.LocalNodeIndices[k])
			}
			v, ok := c.values[node.Identifier]
			if !ok {
				return message.New(message.NotFound, "element interpolate field %q has no value stored at node %d", f.name, node.Identifier)
			}
			sum += w * v[comp]
		}
		out[comp] = sum
	}
	return f.SetReal(cache, out)
}

// NotInUse implements Core: an interpolated field with any stored
// nodal values is considered in use, matching NodeValueCore's
// convention for state-carrying components.
func (c *ElementInterpolateCore) NotInUse(*Field) bool { return len(c.values) == 0 }

// Copy implements Core.
func (c *ElementInterpolateCore) Copy() Core {
	cp := &ElementInterpolateCore{componentCount: c.componentCount, values: make(map[int][]float64, len(c.values))}
	for k, v := range c.values {
		cp.values[k] = append([]float64(nil), v...)
	}
	return cp
}

// Compare implements Core.
func (c *ElementInterpolateCore) Compare(other Core) bool {
	o, ok := other.(*ElementInterpolateCore)
	if !ok || o.componentCount != c.componentCount || len(o.values) != len(c.values) {
		return false
	}
	for k, v := range c.values {
		ov, ok := o.values[k]
		if !ok || len(ov) != len(v) {
			return false
		}
		for i := range v {
			if v[i] != ov[i] {
				return false
			}
		}
	}
	return true
}
