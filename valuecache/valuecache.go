// Package valuecache implements the three concrete value-cache shapes
// a field's evaluated result can take (spec.md §3 C3): a real vector,
// a string, or a mesh location, each tagged with a location stamp, plus
// the per-derivative sub-cache attached to real vector caches.
package valuecache

import (
	"fmt"

	"github.com/sarchlab/zincfield/fieldderivative"
)

// Stamp is the monotonic counter used as a cache-validity token,
// compared against a fieldcache's current location stamp.
type Stamp uint64

// Invalid is the stamp value no real fieldcache stamp ever equals, so
// a freshly constructed cache always reads as stale.
const Invalid Stamp = 0

// MeshLocation is an element reference plus parametric coordinates,
// stored by a MeshLocationCache. Element is kept as an opaque
// identifier/dimension pair (rather than a *mesh.Element pointer) so
// this package does not need to import mesh; field, which does import
// both, is responsible for resolving it back to a concrete element.
type MeshLocation struct {
	ElementIdentifier int
	ElementDimension  int
	Xi                []float64
}

// RealVectorCache holds a field's evaluated real-vector value plus its
// derivative sub-caches.
type RealVectorCache struct {
	stamp Stamp
	value []float64

	// ExtraCache is the working fieldcache the finite-difference
	// derivative engine stores here for reuse across calls (spec.md
	// §4.6). It is untyped to avoid a dependency cycle with
	// package fieldcache (whose Cache embeds a slice of these value
	// caches); callers that know the concrete type assert it back.
	ExtraCache interface{}

	derivOrder []*fieldderivative.FieldDerivative
	derivByKey map[*fieldderivative.FieldDerivative]*DerivativeCache
}

// NewRealVectorCache creates an invalid (stale) cache for a field with
// the given component count.
func NewRealVectorCache(components int) *RealVectorCache {
	return &RealVectorCache{
		value:      make([]float64, components),
		derivByKey: map[*fieldderivative.FieldDerivative]*DerivativeCache{},
	}
}

// Stamp returns the location stamp this cache's value was computed at.
func (c *RealVectorCache) Stamp() Stamp { return c.stamp }

// Valid reports whether the cache holds a value computed at
// currentStamp.
func (c *RealVectorCache) Valid(currentStamp Stamp) bool {
	return c.stamp != Invalid && c.stamp == currentStamp
}

// Value returns the cached real vector.
func (c *RealVectorCache) Value() []float64 { return c.value }

// SetValue stores a freshly evaluated vector and marks it valid at
// stamp. len(value) must equal the cache's component count.
func (c *RealVectorCache) SetValue(value []float64, stamp Stamp) error {
	if len(value) != len(c.value) {
		return fmt.Errorf("valuecache: expected %d components, got %d", len(c.value), len(value))
	}
	copy(c.value, value)
	c.stamp = stamp
	return nil
}

// Invalidate marks the cache stale without touching its stored value,
// used on location change (implicit, via stamp comparison elsewhere)
// and on upstream field changes (explicit, via
// fieldcache.Cache.InvalidateSlot).
func (c *RealVectorCache) Invalidate() {
	c.stamp = Invalid
	for _, d := range c.derivOrder {
		c.derivByKey[d].Invalidate()
	}
}

// Derivative returns the sub-cache for fd, creating one of the given
// shape if this is the first request for that descriptor.
func (c *RealVectorCache) Derivative(fd *fieldderivative.FieldDerivative, components int, termCounts []int) *DerivativeCache {
	if dc, ok := c.derivByKey[fd]; ok {
		return dc
	}
	dc := newDerivativeCache(components, termCounts)
	c.derivByKey[fd] = dc
	c.derivOrder = append(c.derivOrder, fd)
	return dc
}

// DerivativeCache holds one field derivative's value: components ×
// term-count[0] × ... × term-count[n-1] reals in row-major order, the
// innermost index varying fastest and corresponding to the most
// recently differentiated direction (spec.md §4.6 step 4, scenario
// S6).
type DerivativeCache struct {
	stamp      Stamp
	components int
	termCounts []int
	values     []float64
}

func newDerivativeCache(components int, termCounts []int) *DerivativeCache {
	size := components
	for _, t := range termCounts {
		size *= t
	}
	return &DerivativeCache{
		components: components,
		termCounts: append([]int(nil), termCounts...),
		values:     make([]float64, size),
	}
}

// Stamp returns this sub-cache's own validity stamp, independent of
// its owning RealVectorCache's value stamp (spec.md §4.3: "the
// per-derivative sub-cache has its own stamp").
func (d *DerivativeCache) Stamp() Stamp { return d.stamp }

// Valid reports whether the sub-cache holds a value computed at
// currentStamp.
func (d *DerivativeCache) Valid(currentStamp Stamp) bool {
	return d.stamp != Invalid && d.stamp == currentStamp
}

// Invalidate marks the sub-cache stale.
func (d *DerivativeCache) Invalidate() { d.stamp = Invalid }

// Len returns the total number of reals the sub-cache holds.
func (d *DerivativeCache) Len() int { return len(d.values) }

// Values returns the flat, row-major backing slice.
func (d *DerivativeCache) Values() []float64 { return d.values }

// SetValues stores a freshly evaluated derivative and marks it valid
// at stamp.
func (d *DerivativeCache) SetValues(values []float64, stamp Stamp) error {
	if len(values) != len(d.values) {
		return fmt.Errorf("valuecache: expected %d derivative values, got %d", len(d.values), len(values))
	}
	copy(d.values, values)
	d.stamp = stamp
	return nil
}

// Index computes the flat index for (component, terms...), where
// len(terms) must equal len(d.termCounts).
func (d *DerivativeCache) Index(component int, terms []int) (int, error) {
	if len(terms) != len(d.termCounts) {
		return 0, fmt.Errorf("valuecache: expected %d term indices, got %d", len(d.termCounts), len(terms))
	}
	idx := component
	for i, t := range terms {
		if t < 0 || t >= d.termCounts[i] {
			return 0, fmt.Errorf("valuecache: term index %d out of range [0,%d) at position %d", t, d.termCounts[i], i)
		}
		idx = idx*d.termCounts[i] + t
	}
	return idx, nil
}

// StringCache holds one immutable evaluated string value.
type StringCache struct {
	stamp Stamp
	value string
}

// NewStringCache creates an invalid string cache.
func NewStringCache() *StringCache { return &StringCache{} }

// Stamp returns the cache's location stamp.
func (c *StringCache) Stamp() Stamp { return c.stamp }

// Valid reports whether the cache is valid at currentStamp.
func (c *StringCache) Valid(currentStamp Stamp) bool {
	return c.stamp != Invalid && c.stamp == currentStamp
}

// Value returns the cached string.
func (c *StringCache) Value() string { return c.value }

// SetValue stores a freshly evaluated string and marks it valid.
func (c *StringCache) SetValue(value string, stamp Stamp) {
	c.value = value
	c.stamp = stamp
}

// Invalidate marks the cache stale.
func (c *StringCache) Invalidate() { c.stamp = Invalid }

// MeshLocationCache holds one evaluated element reference plus
// parametric coordinates.
type MeshLocationCache struct {
	stamp Stamp
	value MeshLocation
}

// NewMeshLocationCache creates an invalid mesh-location cache.
func NewMeshLocationCache() *MeshLocationCache { return &MeshLocationCache{} }

// Stamp returns the cache's location stamp.
func (c *MeshLocationCache) Stamp() Stamp { return c.stamp }

// Valid reports whether the cache is valid at currentStamp.
func (c *MeshLocationCache) Valid(currentStamp Stamp) bool {
	return c.stamp != Invalid && c.stamp == currentStamp
}

// Value returns the cached mesh location.
func (c *MeshLocationCache) Value() MeshLocation { return c.value }

// SetValue stores a freshly evaluated mesh location and marks it
// valid.
func (c *MeshLocationCache) SetValue(value MeshLocation, stamp Stamp) {
	c.value = value
	c.stamp = stamp
}

// Invalidate marks the cache stale.
func (c *MeshLocationCache) Invalidate() { c.stamp = Invalid }
