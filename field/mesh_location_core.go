package field

import (
	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/message"
	"github.com/sarchlab/zincfield/valuecache"
)

// MeshLocationCore holds a single stored element+xi value, grounding
// the mesh-location value-cache shape named in spec.md §3 and its
// assignment path (spec.md §4.7).
type MeshLocationCore struct {
	BaseCore
	set   bool
	value valuecache.MeshLocation
}

// NewMeshLocation builds an unset mesh-location field core.
func NewMeshLocation() *MeshLocationCore { return &MeshLocationCore{} }

// TypeString implements Core.
func (c *MeshLocationCore) TypeString() string { return "MESH_LOCATION" }

// ValueType implements Core.
func (c *MeshLocationCore) ValueType() ValueType { return MeshLocationValue }

// Evaluate implements Core.
func (c *MeshLocationCore) Evaluate(f *Field, cache *fieldcache.Cache) error {
	if !c.set {
		return message.New(message.General, "mesh location field %q has no value assigned", f.name)
	}
	return f.SetMeshLocation(cache, c.value)
}

// Assign implements Assignable: stores the cache's pending
// mesh-location value.
func (c *MeshLocationCore) Assign(f *Field, cache *fieldcache.Cache) (AssignResult, error) {
	mc := cache.MeshLocationSlot(f.cacheIndex)
	c.value = mc.Value()
	c.set = true
	return AssignSet, nil
}

// NotInUse implements Core.
func (c *MeshLocationCore) NotInUse(*Field) bool { return !c.set }

// Copy implements Core.
func (c *MeshLocationCore) Copy() Core {
	return &MeshLocationCore{set: c.set, value: c.value}
}

// Compare implements Core.
func (c *MeshLocationCore) Compare(other Core) bool {
	o, ok := other.(*MeshLocationCore)
	if !ok || o.set != c.set {
		return false
	}
	if !c.set {
		return true
	}
	if o.value.ElementIdentifier != c.value.ElementIdentifier || len(o.value.Xi) != len(c.value.Xi) {
		return false
	}
	for i := range c.value.Xi {
		if c.value.Xi[i] != o.value.Xi[i] {
			return false
		}
	}
	return true
}
