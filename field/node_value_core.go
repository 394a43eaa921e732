package field

import (
	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/message"
	"github.com/sarchlab/zincfield/mesh"
)

// NodeValueCore stores one real vector per node, defined only at a
// node (or host-element-embedded node) location, and supports
// assignment (spec.md §4.2's Assignable, §4.7).
type NodeValueCore struct {
	BaseCore
	values map[int][]float64
}

// NewNodeValue builds a componentCount-wide stored field with no
// values yet assigned at any node.
func NewNodeValue(name string, componentCount int) (*Field, error) {
	return New(name, componentCount, nil, nil, &NodeValueCore{values: map[int][]float64{}})
}

// TypeString implements Core.
func (c *NodeValueCore) TypeString() string { return "NODE_VALUE" }

// ValueType implements Core.
func (c *NodeValueCore) ValueType() ValueType { return Real }

// Evaluate implements Core: looks up the stored value at the current
// location's node, applying the cache's active parameter perturbation
// (if any) as a direct offset to the perturbed component. A node
// value field's element parameters are its own component values, one
// per component, so parameter index d perturbs component d (spec.md
// §4.5/§4.6: parameter derivatives model nodal-value sensitivity).
func (c *NodeValueCore) Evaluate(f *Field, cache *fieldcache.Cache) error {
	node := c.nodeAt(cache)
	if node == nil {
		return message.New(message.General, "node value field %q has no node at the current location", f.name)
	}
	v, ok := c.values[node.Identifier]
	if !ok {
		return message.New(message.NotFound, "node value field %q has no value stored at node %d", f.name, node.Identifier)
	}
	out := append([]float64(nil), v...)
	if params := cache.Parameters(); params != nil {
		if _, index, delta, ok := params.Active(); ok && index >= 0 && index < len(out) {
			out[index] += delta
		}
	}
	return f.SetReal(cache, out)
}

// Assign implements Assignable: stores the cache's pending real value
// at the current location's node.
func (c *NodeValueCore) Assign(f *Field, cache *fieldcache.Cache) (AssignResult, error) {
	node := c.nodeAt(cache)
	if node == nil {
		return AssignFailed, message.New(message.General, "node value field %q has no node at the current location", f.name)
	}
	vc := cache.RealSlot(f.cacheIndex, f.componentCount)
	c.values[node.Identifier] = append([]float64(nil), vc.Value()...)
	return AssignSet, nil
}

// IsDefinedAtLocation implements LocationAware.
func (c *NodeValueCore) IsDefinedAtLocation(f *Field, cache *fieldcache.Cache) bool {
	return c.nodeAt(cache) != nil
}

// NotInUse implements Core: a node value field with any stored values
// is considered in use, mirroring the teacher's convention that
// state-carrying components outlive a bare reference-count check.
func (c *NodeValueCore) NotInUse(*Field) bool { return len(c.values) == 0 }

// Copy implements Core.
func (c *NodeValueCore) Copy() Core {
	cp := &NodeValueCore{values: make(map[int][]float64, len(c.values))}
	for k, v := range c.values {
		cp.values[k] = append([]float64(nil), v...)
	}
	return cp
}

// Compare implements Core.
func (c *NodeValueCore) Compare(other Core) bool {
	o, ok := other.(*NodeValueCore)
	if !ok || len(o.values) != len(c.values) {
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

func (c *NodeValueCore) nodeAt(cache *fieldcache.Cache) *mesh.Node {
	loc := cache.Location()
	if loc.Kind == fieldcache.LocationNode {
		return loc.Node
	}
	return nil
}
