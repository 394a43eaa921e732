// Package field implements the field node (spec.md §3/§4.1 C4) and the
// field core variant contract (spec.md §4.2 C5): identity, ownership,
// sources, and the polymorphic per-type evaluation logic every field
// variant must supply.
package field

import (
	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/fieldderivative"
)

// ValueType is the shape of value a field produces.
type ValueType int

// The three value-cache shapes a field may carry (spec.md §3).
const (
	Real ValueType = iota
	String
	MeshLocationValue
)

func (v ValueType) String() string {
	switch v {
	case Real:
		return "REAL"
	case String:
		return "STRING"
	case MeshLocationValue:
		return "MESH_LOCATION"
	default:
		return "UNKNOWN"
	}
}

// ChangeFlags is the bitmask spec.md §4.4 describes: identifier,
// definition, full result, partial result, dependency.
type ChangeFlags uint8

// The change-status bits a field carries between manager cache
// brackets.
const (
	ChangeIdentifier ChangeFlags = 1 << iota
	ChangeDefinition
	ChangeFullResult
	ChangePartialResult
	ChangeDependency
)

// Any reports whether any bit in mask is set in f.
func (f ChangeFlags) Any(mask ChangeFlags) bool { return f&mask != 0 }

// AssignResult is the outcome of a field core's Assign operation.
type AssignResult int

// The outcomes spec.md §4.2 names for Assign.
const (
	AssignFailed AssignResult = iota
	AssignSet
	AssignPartial
)

// Core is the operation set every field-type variant implements
// (spec.md §4.2).
type Core interface {
	// TypeString is the stable textual tag for this variant
	// (get_type_string).
	TypeString() string

	// ValueType reports which value-cache shape this variant
	// produces.
	ValueType() ValueType

	// Evaluate computes f's value at cache's current location and
	// stores it via f.SetReal/SetString/SetMeshLocation. A non-nil
	// error leaves the cache slot invalid.
	Evaluate(f *Field, cache *fieldcache.Cache) error

	// Copy returns a deep copy of the core's own parameters; it must
	// not copy source field links, which belong to the Field rather
	// than to its core.
	Copy() Core

	// Compare reports structural equality of core-specific
	// parameters against other, which is guaranteed to be of the
	// same dynamic type by the caller.
	Compare(other Core) bool

	// NotInUse reports whether f's core has no use beyond the
	// manager holding it (e.g. a stored value field is in use while
	// elements reference it).
	NotInUse(f *Field) bool

	// PropagateCoordinateSystem lets a core react when f's
	// coordinate system is changed (e.g. a wrapping field that must
	// carry its source's system).
	PropagateCoordinateSystem(f *Field)

	// PropagateHierarchicalFieldChanges lets a core react to a
	// manager-wide change broadcast before it is delivered to
	// subscribers.
	PropagateHierarchicalFieldChanges(f *Field, changed ChangeFlags)

	// SubregionRemoved notifies a core that carries a sub-region
	// reference that the sub-region has gone away.
	SubregionRemoved(f *Field)

	// FieldAddedToRegion runs once, when f is first added to a
	// manager.
	FieldAddedToRegion(f *Field)
}

// AnalyticDerivative is implemented by a core that can compute its own
// derivative rather than relying on the finite-difference default
// (spec.md §4.2: "evaluateDerivative ... with a default implementation
// based on finite differences").
type AnalyticDerivative interface {
	// EvaluateDerivative computes the full derivative array for fd
	// (component-major, fd's own term shape) and stores it via
	// f.SetDerivative.
	EvaluateDerivative(f *Field, cache *fieldcache.Cache, fd *fieldderivative.FieldDerivative) error
}

// Assignable is implemented by cores that support assignment at a
// cache (stored / mesh-location / string variants, spec.md §4.7).
type Assignable interface {
	Assign(f *Field, cache *fieldcache.Cache) (AssignResult, error)
}

// LocationAware is implemented by a core whose "is defined at
// location" predicate is not simply the AND over its sources.
type LocationAware interface {
	IsDefinedAtLocation(f *Field, cache *fieldcache.Cache) bool
}

// TreeOrderAware is implemented by a core that knows its own
// derivative tree order exactly (e.g. a constant field's is always 0),
// letting Field.DerivativeTreeOrder skip a default source-order scan.
type TreeOrderAware interface {
	DerivativeTreeOrder(f *Field, fd *fieldderivative.FieldDerivative) int
}

// BaseCore provides the no-op defaults most variants want for the
// hook-style parts of Core, so concrete cores only implement the
// operations that matter to them (the teacher's HookableBase embedding
// pattern, applied to field cores instead of akita components).
type BaseCore struct{}

// NotInUse defaults to true: most computed fields have no existence
// beyond the manager holding them.
func (BaseCore) NotInUse(*Field) bool { return true }

// PropagateCoordinateSystem defaults to a no-op.
func (BaseCore) PropagateCoordinateSystem(*Field) {}

// PropagateHierarchicalFieldChanges defaults to a no-op.
func (BaseCore) PropagateHierarchicalFieldChanges(*Field, ChangeFlags) {}

// SubregionRemoved defaults to a no-op.
func (BaseCore) SubregionRemoved(*Field) {}

// FieldAddedToRegion defaults to a no-op.
func (BaseCore) FieldAddedToRegion(*Field) {}
