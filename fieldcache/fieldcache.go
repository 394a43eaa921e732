// Package fieldcache implements the per-client evaluation context
// (spec.md §3/§4.3 C6): current location, time, and the dense array of
// per-field value-cache slots that memoise evaluation results.
package fieldcache

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sarchlab/zincfield/fieldparams"
	"github.com/sarchlab/zincfield/mesh"
	"github.com/sarchlab/zincfield/valuecache"
)

// LocationKind tags which shape of location a Cache currently holds.
type LocationKind int

// The location shapes a Cache may hold.
const (
	LocationNone LocationKind = iota
	LocationTime
	LocationNode
	LocationElementXi
)

// Location is the tagged union of domain locations a field may be
// evaluated at: none, time only, a node (optionally embedded in a host
// element), or an element with parametric coordinates.
type Location struct {
	Kind LocationKind

	Node *mesh.Node

	// HostElement/HostXi are set when Node carries a host element
	// (an embedded point), letting mesh-derivative evaluation resolve
	// a node location to an (element, xi) pair per spec.md §4.6.
	HostElement *mesh.Element
	HostXi      []float64

	Element *mesh.Element
	Xi      []float64
}

// ResolveElementXi returns the (element, xi) pair a location resolves
// to for mesh-derivative purposes: directly from an ElementXi
// location, or from a Node location that carries a host element. A
// bare node location (no host element) is rejected, matching spec.md
// §4.6 step 1.
func (l Location) ResolveElementXi() (*mesh.Element, []float64, error) {
	switch l.Kind {
	case LocationElementXi:
		return l.Element, l.Xi, nil
	case LocationNode:
		if l.HostElement == nil {
			return nil, nil, fmt.Errorf("fieldcache: node location has no host element; mesh derivatives are undefined here")
		}
		return l.HostElement, l.HostXi, nil
	default:
		return nil, nil, fmt.Errorf("fieldcache: location kind %d has no element+xi resolution", l.Kind)
	}
}

// Cache is one client's evaluation context over a region: a current
// location and time, and the per-field value-cache slots that
// evaluate/evaluateDerivative memoise into.
type Cache struct {
	id       xid.ID
	region   xid.ID
	location Location
	time     float64
	stamp    valuecache.Stamp

	// params is the field-parameters object the finite-difference
	// engine's working cache is currently scoped to, letting a core's
	// Evaluate read the active perturbation (fieldparams.Parameters.
	// Active) for its own element field parameters. Nil outside a
	// parameter-derivative evaluation.
	params *fieldparams.Parameters

	slots []interface{} // indexed by a field's cache_index
}

// New creates an empty Cache bound to region, with no location set.
func New(region xid.ID) *Cache {
	return &Cache{id: xid.New(), region: region}
}

// ID returns the cache's own opaque identifier, used only in
// diagnostics.
func (c *Cache) ID() xid.ID { return c.id }

// Region returns the region this cache is bound to.
func (c *Cache) Region() xid.ID { return c.region }

// Location returns the current location.
func (c *Cache) Location() Location { return c.location }

// Time returns the current time.
func (c *Cache) Time() float64 { return c.time }

// Stamp returns the cache's current monotonic location stamp; every
// value-cache slot is valid only when its own stamp equals this one.
func (c *Cache) Stamp() valuecache.Stamp { return c.stamp }

// SetParameters scopes the cache to params, so a core's Evaluate can
// read the active perturbation via Parameters().Active() during a
// parameter-derivative finite difference (spec.md §4.6).
func (c *Cache) SetParameters(params *fieldparams.Parameters) { c.params = params }

// Parameters returns the field-parameters object the cache is
// currently scoped to, or nil outside a parameter-derivative
// evaluation.
func (c *Cache) Parameters() *fieldparams.Parameters { return c.params }

func (c *Cache) bump() {
	c.stamp++
	if c.stamp == valuecache.Invalid {
		c.stamp++ // never settle back on the "always stale" sentinel
	}
}

// SetTime sets the current time, leaving any element/node location in
// place (time is orthogonal to spatial location), and invalidates
// every value cache by advancing the stamp.
func (c *Cache) SetTime(t float64) {
	c.time = t
	if c.location.Kind == LocationNone {
		c.location.Kind = LocationTime
	}
	c.bump()
}

// SetNode sets a bare node location with no host element.
func (c *Cache) SetNode(node *mesh.Node) {
	c.location = Location{Kind: LocationNode, Node: node}
	c.bump()
}

// SetNodeWithHostElement sets a node location embedded in a host
// element at host chart coordinates hostXi, enabling mesh-derivative
// evaluation at this location.
func (c *Cache) SetNodeWithHostElement(node *mesh.Node, hostElement *mesh.Element, hostXi []float64) {
	c.location = Location{
		Kind:        LocationNode,
		Node:        node,
		HostElement: hostElement,
		HostXi:      append([]float64(nil), hostXi...),
	}
	c.bump()
}

// SetElementXi sets an element+chart-coordinate location.
func (c *Cache) SetElementXi(element *mesh.Element, xi []float64) error {
	if element == nil {
		return fmt.Errorf("fieldcache: element must not be nil")
	}
	if len(xi) != element.Dimension() {
		return fmt.Errorf("fieldcache: expected %d chart coordinates for a dimension-%d element, got %d", element.Dimension(), element.Dimension(), len(xi))
	}
	c.location = Location{Kind: LocationElementXi, Element: element, Xi: append([]float64(nil), xi...)}
	c.bump()
	return nil
}

func (c *Cache) ensureSlot(index int) {
	for len(c.slots) <= index {
		c.slots = append(c.slots, nil)
	}
}

// RealSlot returns the real-vector value cache at cache_index, lazily
// creating one sized for components on first access.
func (c *Cache) RealSlot(index, components int) *valuecache.RealVectorCache {
	c.ensureSlot(index)
	if c.slots[index] == nil {
		c.slots[index] = valuecache.NewRealVectorCache(components)
	}
	return c.slots[index].(*valuecache.RealVectorCache)
}

// StringSlot returns the string value cache at cache_index, lazily
// creating one on first access.
func (c *Cache) StringSlot(index int) *valuecache.StringCache {
	c.ensureSlot(index)
	if c.slots[index] == nil {
		c.slots[index] = valuecache.NewStringCache()
	}
	return c.slots[index].(*valuecache.StringCache)
}

// MeshLocationSlot returns the mesh-location value cache at
// cache_index, lazily creating one on first access.
func (c *Cache) MeshLocationSlot(index int) *valuecache.MeshLocationCache {
	c.ensureSlot(index)
	if c.slots[index] == nil {
		c.slots[index] = valuecache.NewMeshLocationCache()
	}
	return c.slots[index].(*valuecache.MeshLocationCache)
}

// InvalidateSlot marks the slot at cache_index stale without changing
// its stored value, used by fieldmanager.Manager.ModifyDefinition when
// a field's definition changes (spec.md §4.3) and by the
// parameter-direction finite difference around each perturbation.
func (c *Cache) InvalidateSlot(index int) {
	if index < 0 || index >= len(c.slots) || c.slots[index] == nil {
		return
	}
	switch v := c.slots[index].(type) {
	case *valuecache.RealVectorCache:
		v.Invalidate()
	case *valuecache.StringCache:
		v.Invalidate()
	case *valuecache.MeshLocationCache:
		v.Invalidate()
	}
}
