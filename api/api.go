// Package api implements the C-style external handle surface named in
// spec.md §6: Go functions operating on reference-counted handle types
// instead of C pointers, with access/release replacing
// cmzn_*_access/cmzn_*_destroy and the same operation list the original
// exposes. Every operation takes the owning region explicitly rather
// than resolving it from a global, per the engine's "no globals" rule.
package api

import (
	"fmt"
	"math"

	"github.com/sarchlab/zincfield/coordsys"
	"github.com/sarchlab/zincfield/diffop"
	"github.com/sarchlab/zincfield/field"
	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/fieldderivative"
	"github.com/sarchlab/zincfield/fieldparams"
	"github.com/sarchlab/zincfield/message"
	"github.com/sarchlab/zincfield/mesh"
	"github.com/sarchlab/zincfield/region"
	"github.com/sarchlab/zincfield/valuecache"
)

// FieldHandle is the opaque, reference-counted field handle of spec.md
// §6. It wraps a *field.Field plus the region it was obtained from, so
// handle-level operations never need a second region argument.
type FieldHandle struct {
	region *region.Region
	field  *field.Field
}

// FieldcacheHandle is the opaque fieldcache handle.
type FieldcacheHandle struct {
	cache *fieldcache.Cache
}

// DifferentialOperatorHandle is the opaque differential operator
// handle.
type DifferentialOperatorHandle struct {
	op *diffop.Operator
}

// ElementTemplateHandle is the opaque element template handle.
type ElementTemplateHandle struct {
	template *mesh.ElementTemplate
}

// MeshHandle is the opaque mesh/mesh-group handle.
type MeshHandle struct {
	region *region.Region
	mesh   mesh.Mesh
}

// CreateGenericField is the create-generic field handle operation:
// componentCount, source fields, source values and the variant core are
// caller-supplied, name may be empty for auto-naming (spec.md §4.7).
func CreateGenericField(r *region.Region, name string, componentCount int, sources []*FieldHandle, sourceValues []float64, core field.Core) (*FieldHandle, error) {
	srcFields := make([]*field.Field, len(sources))
	for i, s := range sources {
		if s == nil || s.field == nil {
			return nil, message.New(message.Argument, "source field %d is a null handle", i)
		}
		srcFields[i] = s.field
	}
	f, err := field.New(name, componentCount, srcFields, sourceValues, core)
	if err != nil {
		return nil, err
	}
	if _, err := r.Fields().Add(f, name); err != nil {
		return nil, err
	}
	return &FieldHandle{region: r, field: f}, nil
}

// Access increments h's reference count and returns h, the handle
// analogue of cmzn_field_access.
func (h *FieldHandle) Access() *FieldHandle {
	h.field.Access()
	return h
}

// Release decrements h's reference count (cmzn_field_destroy's
// non-deallocating half; actual removal is Destroy below).
func (h *FieldHandle) Release() {
	h.field.Release()
}

// Destroy removes the field from its manager if it is unused and holds
// no outstanding external reference beyond this release (spec.md §4.1).
func (h *FieldHandle) Destroy() error {
	h.field.Release()
	return h.region.Fields().Destroy(h.field)
}

// Region returns the region this handle's field belongs to.
func (h *FieldHandle) Region() *region.Region { return h.region }

// Name returns the field's current name.
func (h *FieldHandle) Name() string { return h.field.Name() }

// SetName renames the field, uniquifying through the manager.
func (h *FieldHandle) SetName(name string) error {
	return h.region.Fields().Rename(h.field, name)
}

// Managed returns the field's managed flag.
func (h *FieldHandle) Managed() bool { return h.field.Managed() }

// SetManaged sets the field's managed flag.
func (h *FieldHandle) SetManaged(managed bool) { h.field.SetManaged(managed) }

// CoordinateSystem returns the field's coordinate system (type + focus).
func (h *FieldHandle) CoordinateSystem() coordsys.System {
	return h.field.CoordinateSystem()
}

// SetCoordinateSystem sets the field's coordinate system.
func (h *FieldHandle) SetCoordinateSystem(cs coordsys.System) error {
	return h.field.SetCoordinateSystem(cs)
}

// NumberOfComponents returns the field's component count (the
// "enumerate components" half of spec.md §4.7; component names are not
// modelled separately in this repository, a documented simplification).
func (h *FieldHandle) NumberOfComponents() int { return h.field.NumberOfComponents() }

// EvaluateReal evaluates h at cache's current location.
func (h *FieldHandle) EvaluateReal(cache *FieldcacheHandle) ([]float64, error) {
	return h.field.EvaluateReal(cache.cache)
}

// EvaluateString evaluates h as a string at cache's current location.
func (h *FieldHandle) EvaluateString(cache *FieldcacheHandle) (string, error) {
	return h.field.EvaluateString(cache.cache)
}

// EvaluateMeshLocation evaluates h as a mesh location at cache's
// current location.
func (h *FieldHandle) EvaluateMeshLocation(cache *FieldcacheHandle) (valuecache.MeshLocation, error) {
	return h.field.EvaluateMeshLocation(cache.cache)
}

// EvaluateDerivative evaluates h's derivative along op at cache's
// current location.
func (h *FieldHandle) EvaluateDerivative(cache *FieldcacheHandle, op *DifferentialOperatorHandle) ([]float64, error) {
	return h.field.EvaluateDerivative(cache.cache, op.op)
}

// AssignReal assigns values to h at cache's current location.
func (h *FieldHandle) AssignReal(cache *FieldcacheHandle, values []float64) (field.AssignResult, error) {
	return h.field.AssignReal(cache.cache, values)
}

// AssignString assigns value to h at cache's current location.
func (h *FieldHandle) AssignString(cache *FieldcacheHandle, value string) (field.AssignResult, error) {
	return h.field.AssignString(cache.cache, value)
}

// AssignMeshLocation assigns value to h at cache's current location.
func (h *FieldHandle) AssignMeshLocation(cache *FieldcacheHandle, value valuecache.MeshLocation) (field.AssignResult, error) {
	return h.field.AssignMeshLocation(cache.cache, value)
}

// IsDefinedAtLocation reports whether h can be evaluated at cache's
// current location.
func (h *FieldHandle) IsDefinedAtLocation(cache *FieldcacheHandle) bool {
	return h.field.IsDefinedAtLocation(cache.cache)
}

// Parameters returns the field-parameters object for h's field over
// elements of the given dimension (spec.md §4.7's "get field
// parameters"); field and parameters are associated by dimension rather
// than by a direct per-field link, the same simplification
// region.Region.Parameters documents.
func (h *FieldHandle) Parameters(dimension int) *fieldparams.Parameters {
	return h.region.Parameters(dimension)
}

// FindElementXi is the inverse-evaluation operation of spec.md §4.7: it
// searches mesh for an element and chart coordinates at which h
// evaluates within tolerance of target, using a uniform coarse xi grid
// per element; the best grid point is returned as is, with no local
// refinement. The Euclidean distance of the best grid point's value
// from target is what is compared against tolerance. This generic search never
// delegates to a source field's own cheaper inversion — the "optionally
// propagated to a source field" half of spec.md §4.7 is a documented
// gap here, since no field-core variant in this repository implements
// an analytic inverse.
func (h *FieldHandle) FindElementXi(cache *FieldcacheHandle, target []float64, m *MeshHandle, tolerance float64) (*mesh.Element, []float64, error) {
	if h.field.NumberOfComponents() != len(target) {
		return nil, nil, message.New(message.Argument, "target has %d components, field has %d", len(target), h.field.NumberOfComponents())
	}
	const gridSteps = 4
	dim := m.mesh.Dimension()
	it := m.mesh.CreateIterator()
	var bestElement *mesh.Element
	var bestXi []float64
	bestDist := -1.0
	for e := it.Next(); e != nil; e = it.Next() {
		xi := make([]float64, dim)
		bestXi, bestElement, bestDist = searchElement(h.field, cache.cache, e, xi, 0, gridSteps, bestElement, bestXi, bestDist, target)
	}
	if bestElement == nil {
		return nil, nil, message.New(message.NotFound, "no element in mesh is within tolerance of the target value")
	}
	if tolerance > 0 && bestDist > tolerance {
		return nil, nil, message.New(message.NotFound, "closest match has distance %v, exceeds tolerance %v", bestDist, tolerance)
	}
	return bestElement, bestXi, nil
}

func searchElement(f *field.Field, cache *fieldcache.Cache, e *mesh.Element, xi []float64, axis, steps int, bestElement *mesh.Element, bestXi []float64, bestDist float64, target []float64) ([]float64, *mesh.Element, float64) {
	if axis == len(xi) {
		if err := cache.SetElementXi(e, xi); err != nil {
			return bestXi, bestElement, bestDist
		}
		values, err := f.EvaluateReal(cache)
		if err != nil {
			return bestXi, bestElement, bestDist
		}
		dist := 0.0
		for i := range target {
			d := values[i] - target[i]
			dist += d * d
		}
		dist = math.Sqrt(dist)
		if bestElement == nil || dist < bestDist {
			return append([]float64(nil), xi...), e, dist
		}
		return bestXi, bestElement, bestDist
	}
	for s := 0; s <= steps; s++ {
		xi[axis] = float64(s) / float64(steps)
		bestXi, bestElement, bestDist = searchElement(f, cache, e, xi, axis+1, steps, bestElement, bestXi, bestDist, target)
	}
	return bestXi, bestElement, bestDist
}

// NewFieldcache is the create-from-region fieldcache handle operation.
func NewFieldcache(r *region.Region) *FieldcacheHandle {
	return &FieldcacheHandle{cache: r.NewCache()}
}

// Destroy releases h; fieldcache handles carry no external reference
// count (spec.md §5: thread-affine, owned outright by its creator).
func (h *FieldcacheHandle) Destroy() {}

// SetTime sets h's current time.
func (h *FieldcacheHandle) SetTime(t float64) { h.cache.SetTime(t) }

// SetNode sets a bare node location.
func (h *FieldcacheHandle) SetNode(node *mesh.Node) { h.cache.SetNode(node) }

// SetNodeWithHostElement sets a node location embedded in a host
// element.
func (h *FieldcacheHandle) SetNodeWithHostElement(node *mesh.Node, hostElement *mesh.Element, hostXi []float64) {
	h.cache.SetNodeWithHostElement(node, hostElement, hostXi)
}

// SetElementXi sets an element+chart-coordinate location.
func (h *FieldcacheHandle) SetElementXi(element *mesh.Element, xi []float64) error {
	return h.cache.SetElementXi(element, xi)
}

// FindMeshByDimension returns a handle to r's root mesh of the given
// dimension.
func FindMeshByDimension(r *region.Region, dimension int) *MeshHandle {
	return &MeshHandle{region: r, mesh: r.Mesh(dimension)}
}

// FindMeshByName returns a handle to r's root mesh of the given name,
// or an error if no dimension's mesh carries that name (the teacher's
// mesh naming convention is purely dimension-derived; see
// region.Region.Mesh).
func FindMeshByName(r *region.Region, name string) (*MeshHandle, error) {
	for dim := 0; dim <= 3; dim++ {
		m := r.Mesh(dim)
		if m.Name() == name {
			return &MeshHandle{region: r, mesh: m}, nil
		}
	}
	return nil, message.New(message.NotFound, "no mesh named %q", name)
}

// CreateElementTemplate is the element template create operation.
func CreateElementTemplate(shape mesh.Shape, numLocalNodes int) (*ElementTemplateHandle, error) {
	t, err := mesh.NewElementTemplate(shape, numLocalNodes)
	if err != nil {
		return nil, err
	}
	return &ElementTemplateHandle{template: t}, nil
}

// CreateElementBasis is the element basis create operation: dimension
// 1..max with a per-chart-coordinate function tag, looked up/created
// from the basis signature the given tags form (spec.md §4.8).
func CreateElementBasis(tags []mesh.FunctionType) (*mesh.Basis, error) {
	return mesh.NewBasis(tags)
}

// CreateElement validates t and creates a new element at identifier in
// m.
func (h *MeshHandle) CreateElement(identifier int, t *ElementTemplateHandle) (*mesh.Element, error) {
	return h.mesh.CreateElement(identifier, t.template)
}

// DefineElement overlays t onto existing.
func (h *MeshHandle) DefineElement(existing *mesh.Element, t *ElementTemplateHandle) error {
	return h.mesh.DefineElement(existing, t.template)
}

// DestroyElement removes the element with the given identifier.
func (h *MeshHandle) DestroyElement(identifier int) error {
	return h.mesh.DestroyElement(identifier)
}

// FindElementByIdentifier returns the element with the given
// identifier, if any.
func (h *MeshHandle) FindElementByIdentifier(identifier int) (*mesh.Element, bool) {
	return h.mesh.FindByIdentifier(identifier)
}

// DestroyAll removes every element in m and returns how many were
// removed.
func (h *MeshHandle) DestroyAll() int { return h.mesh.DestroyAll() }

// DestroyConditional removes every element for which cond returns true.
func (h *MeshHandle) DestroyConditional(cond mesh.ConditionalFunc) (int, error) {
	return h.mesh.DestroyConditional(cond)
}

// CreateIterator walks m's elements in a stable order.
func (h *MeshHandle) CreateIterator() *mesh.Iterator { return h.mesh.CreateIterator() }

// GroupCast returns h as a *mesh.Group handle if the underlying mesh is
// a group, else ok is false (the handle analogue of
// cmzn_mesh_cast_group).
func (h *MeshHandle) GroupCast() (*mesh.Group, bool) {
	g, ok := h.mesh.(*mesh.Group)
	return g, ok
}

// NewMeshGroup creates a new, empty group over m's underlying mesh,
// which must be a *mesh.Base (a group over a group is not modelled).
func (h *MeshHandle) NewMeshGroup() (*mesh.Group, error) {
	base, ok := h.mesh.(*mesh.Base)
	if !ok {
		return nil, message.New(message.Argument, "mesh group requires a root mesh, not another group")
	}
	return mesh.NewGroup(base), nil
}

// GetDifferentialOperator is the "get differential operator for a chart
// derivative order and term" mesh/field operation of spec.md §6: it
// resolves the order-n mesh derivative for m's dimension through r's
// shared derivative cache and wraps it with term into an operator
// handle.
func GetDifferentialOperator(r *region.Region, m *MeshHandle, order, term int) (*DifferentialOperatorHandle, error) {
	fd, err := r.MeshDerivative(m.mesh.Dimension(), order)
	if err != nil {
		return nil, err
	}
	op, err := diffop.New(fd, term)
	if err != nil {
		return nil, err
	}
	return &DifferentialOperatorHandle{op: op}, nil
}

// GetParameterDifferentialOperator is the parameter-direction analogue
// of GetDifferentialOperator, for field-parameter derivatives rather
// than mesh chart-coordinate derivatives.
func GetParameterDifferentialOperator(r *region.Region, dimension, order, term int) (*DifferentialOperatorHandle, error) {
	fd, err := r.ParameterDerivative(dimension, order)
	if err != nil {
		return nil, err
	}
	op, err := diffop.New(fd, term)
	if err != nil {
		return nil, err
	}
	return &DifferentialOperatorHandle{op: op}, nil
}

// Derivative returns the field derivative op applies.
func (h *DifferentialOperatorHandle) Derivative() *fieldderivative.FieldDerivative { return h.op.Derivative() }

// Term returns op's requested term, or diffop.AllTerms.
func (h *DifferentialOperatorHandle) Term() int { return h.op.Term() }

// SetElementScaleFactors sets e's scale factor values for the named
// set.
func SetElementScaleFactors(e *mesh.Element, set string, values []float64) {
	e.SetScaleFactors(set, values)
}

// ScaleFactors returns e's scale factor values for the named set.
func ScaleFactors(e *mesh.Element, set string) []float64 {
	return e.ScaleFactors(set)
}

// fieldClassNames maps a core's stable type string to its class-name
// form, the "field-type registry" half of spec.md §6's enumerations
// (e.g. "ADD" <-> "FieldAdd"), covering every built-in variant in
// SPEC_FULL.md's C5 list.
var fieldClassNames = map[string]string{
	"CONSTANT":            "FieldConstant",
	"COORDINATES":         "FieldCoordinates",
	"ADD":                 "FieldAdd",
	"MULTIPLY":            "FieldMultiply",
	"COMPONENT":           "FieldComponent",
	"NODE_VALUE":          "FieldNodeValue",
	"STRING_CONSTANT":     "FieldStringConstant",
	"MESH_LOCATION":       "FieldMeshLocation",
	"ELEMENT_INTERPOLATE": "FieldElementInterpolate",
}

// FieldClassName is the enum_to_string half of the field-type registry
// round trip.
func FieldClassName(typeString string) (string, error) {
	if name, ok := fieldClassNames[typeString]; ok {
		return name, nil
	}
	return "", fmt.Errorf("api: unknown field type string %q", typeString)
}

// FieldTypeString is the enum_from_string half of the field-type
// registry round trip.
func FieldTypeString(className string) (string, error) {
	for typeString, name := range fieldClassNames {
		if name == className {
			return typeString, nil
		}
	}
	return "", fmt.Errorf("api: unknown field class name %q", className)
}
