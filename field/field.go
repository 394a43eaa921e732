package field

import (
	"sync/atomic"

	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/zincfield/coordsys"
	"github.com/sarchlab/zincfield/diffop"
	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/fieldderivative"
	"github.com/sarchlab/zincfield/message"
	"github.com/sarchlab/zincfield/valuecache"
)

// Hook positions a Field invokes its hooks at, mirroring the teacher's
// HookPosPortMsg* family (core/port.go) but for field change
// notification instead of message transport (spec.md §4.1/§4.4).
var (
	HookPosFieldIdentifierChanged = &sim.HookPos{Name: "Field Identifier Changed"}
	HookPosFieldDefinitionChanged = &sim.HookPos{Name: "Field Definition Changed"}
	HookPosFieldResultChanged     = &sim.HookPos{Name: "Field Result Changed"}
	HookPosFieldAddedToRegion     = &sim.HookPos{Name: "Field Added To Region"}
)

// unattachedCacheIndex marks a field not yet added to a manager.
const unattachedCacheIndex = -1

// Field is the field node of spec.md §3/§4.1: identity, components,
// sources, coordinate system, ownership and a polymorphic core.
type Field struct {
	*sim.HookableBase

	id xid.ID

	name           string
	componentCount int
	sources        []*Field
	sourceValues   []float64
	coordSystem    coordsys.System
	managed        bool
	core           Core

	region     xid.ID
	hasRegion  bool
	cacheIndex int

	changeFlags ChangeFlags

	// refCount is the external reference count; a field attached to
	// a manager additionally counts as one more implicit reference
	// held by the manager itself (spec.md §9's "manager holds one
	// count" design note), tracked separately via hasRegion.
	refCount int32
}

// New creates an unattached field with componentCount components,
// the given source fields and scalar source values, and core as its
// type-specific behaviour. name may be empty, to be auto-assigned when
// the field is added to a manager (spec.md §3's Lifecycle).
func New(name string, componentCount int, sources []*Field, sourceValues []float64, core Core) (*Field, error) {
	if componentCount < 1 {
		return nil, message.New(message.Argument, "component count must be >= 1, got %d", componentCount)
	}
	if core == nil {
		return nil, message.New(message.Argument, "field core must not be nil")
	}
	f := &Field{
		HookableBase:   sim.NewHookableBase(),
		id:             xid.New(),
		name:           name,
		componentCount: componentCount,
		sources:        append([]*Field(nil), sources...),
		sourceValues:   append([]float64(nil), sourceValues...),
		coordSystem:    coordsys.Rectangular(),
		core:           core,
		cacheIndex:     unattachedCacheIndex,
		refCount:       1,
	}
	return f, nil
}

// Name returns the field's name, which is always unique within its
// manager once attached.
func (f *Field) Name() string { return f.name }

// ID returns the field's opaque identity, used by mesh.FieldIdentity
// so element templates can key per-field definitions without a name
// collision hazard across renames.
func (f *Field) ID() xid.ID { return f.id }

// FieldIdentity implements mesh.FieldIdentity.
func (f *Field) FieldIdentity() string { return f.id.String() }

// SetName is used only by fieldmanager, which owns name uniqueness.
func (f *Field) SetName(name string) {
	if name == f.name {
		return
	}
	f.name = name
	f.changeFlags |= ChangeIdentifier
	f.InvokeHook(sim.HookCtx{Domain: f, Pos: HookPosFieldIdentifierChanged, Item: f})
}

// NumberOfComponents returns the field's component count.
func (f *Field) NumberOfComponents() int { return f.componentCount }

// Sources returns the field's ordered source fields (never nil;
// possibly empty).
func (f *Field) Sources() []*Field { return f.sources }

// SourceValues returns the field's scalar source values.
func (f *Field) SourceValues() []float64 { return f.sourceValues }

// CoordinateSystem returns the field's coordinate system tag.
func (f *Field) CoordinateSystem() coordsys.System { return f.coordSystem }

// SetCoordinateSystem sets cs, rejecting anything but "not applicable"
// on a string or mesh-location field (spec.md §3).
func (f *Field) SetCoordinateSystem(cs coordsys.System) error {
	if cs.Type != coordsys.NotApplicable && f.core.ValueType() != Real {
		return message.New(message.Argument, "cannot set a coordinate system on a %s field", f.core.ValueType())
	}
	f.coordSystem = cs
	f.core.PropagateCoordinateSystem(f)
	f.markChanged(ChangeDefinition)
	return nil
}

// Managed reports the field's managed flag.
func (f *Field) Managed() bool { return f.managed }

// SetManaged sets the managed flag, which pins the field's lifetime
// independent of external references while true (spec.md §3
// Lifecycle, testable scenario S5).
func (f *Field) SetManaged(managed bool) { f.managed = managed }

// Core returns the field's polymorphic core.
func (f *Field) Core() Core { return f.core }

// ValueType returns the value type the field's core produces.
func (f *Field) ValueType() ValueType { return f.core.ValueType() }

// CacheIndex returns the stable per-field slot index a manager
// assigned, or -1 if the field is unattached.
func (f *Field) CacheIndex() int { return f.cacheIndex }

// Region returns the owning region's identifier and whether the field
// is attached to one.
func (f *Field) Region() (xid.ID, bool) { return f.region, f.hasRegion }

// AttachToManager is used only by fieldmanager.Add.
func (f *Field) AttachToManager(region xid.ID, cacheIndex int) {
	f.region = region
	f.hasRegion = true
	f.cacheIndex = cacheIndex
	f.core.FieldAddedToRegion(f)
	f.InvokeHook(sim.HookCtx{Domain: f, Pos: HookPosFieldAddedToRegion, Item: f})
}

// Detach is used only by fieldmanager when a field is destroyed.
func (f *Field) Detach() {
	f.hasRegion = false
	f.cacheIndex = unattachedCacheIndex
}

// Redefine replaces f's core and sources in place, used only by
// fieldmanager.ModifyDefinition once it has validated the
// acyclicity/region/value-type invariants of spec.md §4.1.
func (f *Field) Redefine(newCore Core, newSources []*Field) {
	f.core = newCore
	f.sources = append([]*Field(nil), newSources...)
	f.markChanged(ChangeDefinition)
	f.InvokeHook(sim.HookCtx{Domain: f, Pos: HookPosFieldDefinitionChanged, Item: f})
}

// Access increments the external reference count and returns f, the
// Go rendition of spec.md §9's reference-counted handle design note.
func (f *Field) Access() *Field {
	atomic.AddInt32(&f.refCount, 1)
	return f
}

// RefCount returns the current external reference count.
func (f *Field) RefCount() int32 { return atomic.LoadInt32(&f.refCount) }

// Release decrements the external reference count. It never destroys
// the field itself: destruction-when-unreferenced is a manager-level
// decision (spec.md §4.1's "Destroy when not in use"), since only the
// manager can see whether other fields still depend on this one.
func (f *Field) Release() {
	atomic.AddInt32(&f.refCount, -1)
}

// DependsOn reports whether other appears in f's transitive source
// closure (testable property 2 is the negation of this being true for
// other == f).
func (f *Field) DependsOn(other *Field) bool {
	seen := map[*Field]bool{}
	var walk func(*Field) bool
	walk = func(cur *Field) bool {
		if cur == other {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		for _, s := range cur.sources {
			if walk(s) {
				return true
			}
		}
		return false
	}
	for _, s := range f.sources {
		if walk(s) {
			return true
		}
	}
	return false
}

// markChanged ORs flags into f's pending change bitmask and records
// nothing else. The outermost manager cache bracket is what actually invokes hooks to
// subscribers (spec.md §4.4); within that bracket this only updates
// the field's own bitmask.
func (f *Field) markChanged(flags ChangeFlags) {
	f.changeFlags |= flags
}

// ChangeFlags returns the field's currently pending change bitmask.
func (f *Field) ChangeFlags() ChangeFlags { return f.changeFlags }

// ClearChangeFlags resets the pending change bitmask, done by the
// manager once a change broadcast has been delivered.
func (f *Field) ClearChangeFlags() { f.changeFlags = 0 }

// InheritChange implements the per-field half of spec.md §4.4's
// change-status propagation: if any source has full-result change,
// inherit it and stop; otherwise merge any partial-result change.
func (f *Field) InheritChange() {
	if f.changeFlags.Any(ChangeFullResult) {
		return
	}
	for _, s := range f.sources {
		if s.changeFlags.Any(ChangeFullResult) {
			f.changeFlags |= ChangeFullResult | ChangeDependency
			return
		}
	}
	for _, s := range f.sources {
		if s.changeFlags.Any(ChangePartialResult) {
			f.changeFlags |= ChangePartialResult | ChangeDependency
		}
	}
}

// BroadcastChange invokes the result-changed hook once the manager has
// finished merging f's change bitmask for this bracket.
func (f *Field) BroadcastChange() {
	if f.changeFlags == 0 {
		return
	}
	f.InvokeHook(sim.HookCtx{Domain: f, Pos: HookPosFieldResultChanged, Item: f.changeFlags})
}

// IsDefinedAtLocation reports whether f can be evaluated at cache's
// current location: the core's own predicate if it implements
// LocationAware, else the default AND over every source (spec.md
// §4.2).
func (f *Field) IsDefinedAtLocation(cache *fieldcache.Cache) bool {
	if la, ok := f.core.(LocationAware); ok {
		return la.IsDefinedAtLocation(f, cache)
	}
	for _, s := range f.sources {
		if !s.IsDefinedAtLocation(cache) {
			return false
		}
	}
	return true
}

// DerivativeTreeOrder reports the maximum order of differentiation
// that can produce a non-trivially-zero result for f at fd, clamped to
// fd's own order, so the finite-difference engine can skip computation
// it already knows is zero (spec.md §4.2).
func (f *Field) DerivativeTreeOrder(fd *fieldderivative.FieldDerivative) int {
	if to, ok := f.core.(TreeOrderAware); ok {
		order := to.DerivativeTreeOrder(f, fd)
		if order > fd.Order() {
			order = fd.Order()
		}
		return order
	}
	if len(f.sources) == 0 {
		// A source-less core that does not declare TreeOrderAware
		// (e.g. CoordinatesCore) may still vary with location; only a
		// core that knows it is constant (ConstantCore) opts in to
		// declare 0. Defaulting a leaf to 0 here would silently zero
		// every derivative that bottoms out at it.
		return fd.Order()
	}
	max := 0
	for _, s := range f.sources {
		if o := s.DerivativeTreeOrder(fd); o > max {
			max = o
		}
	}
	if max > fd.Order() {
		max = fd.Order()
	}
	return max
}

// SetReal stores a freshly evaluated real vector into cache's slot for
// f. Field cores call this from Evaluate.
func (f *Field) SetReal(cache *fieldcache.Cache, values []float64) error {
	if f.core.ValueType() != Real {
		return message.New(message.Argument, "field %q is not real-valued", f.name)
	}
	vc := cache.RealSlot(f.cacheIndex, f.componentCount)
	return vc.SetValue(values, cache.Stamp())
}

// SetString stores a freshly evaluated string into cache's slot for f.
func (f *Field) SetString(cache *fieldcache.Cache, value string) error {
	if f.core.ValueType() != String {
		return message.New(message.Argument, "field %q is not string-valued", f.name)
	}
	cache.StringSlot(f.cacheIndex).SetValue(value, cache.Stamp())
	return nil
}

// SetMeshLocation stores a freshly evaluated mesh location into
// cache's slot for f.
func (f *Field) SetMeshLocation(cache *fieldcache.Cache, value valuecache.MeshLocation) error {
	if f.core.ValueType() != MeshLocationValue {
		return message.New(message.Argument, "field %q is not mesh-location-valued", f.name)
	}
	cache.MeshLocationSlot(f.cacheIndex).SetValue(value, cache.Stamp())
	return nil
}

// SetDerivative stores a freshly evaluated derivative array into
// cache's sub-cache for (f, fd). Used by the finite-difference engine
// and by cores implementing AnalyticDerivative.
func (f *Field) SetDerivative(cache *fieldcache.Cache, fd *fieldderivative.FieldDerivative, termCounts []int, values []float64) error {
	if f.core.ValueType() != Real {
		return message.New(message.Argument, "field %q is not real-valued, has no mesh derivative", f.name)
	}
	vc := cache.RealSlot(f.cacheIndex, f.componentCount)
	dc := vc.Derivative(fd, f.componentCount, termCounts)
	return dc.SetValues(values, cache.Stamp())
}

// EvaluateReal implements the evaluate-real memoisation protocol of
// spec.md §4.3.
func (f *Field) EvaluateReal(cache *fieldcache.Cache) ([]float64, error) {
	if f.cacheIndex == unattachedCacheIndex {
		return nil, message.New(message.Argument, "field %q is not attached to a region", f.name)
	}
	if f.core.ValueType() != Real {
		return nil, message.New(message.Argument, "field %q is not real-valued", f.name)
	}
	vc := cache.RealSlot(f.cacheIndex, f.componentCount)
	if vc.Valid(cache.Stamp()) {
		return vc.Value(), nil
	}
	if !f.IsDefinedAtLocation(cache) {
		vc.Invalidate()
		return nil, message.New(message.General, "field %q is not defined at the current location", f.name)
	}
	if err := f.core.Evaluate(f, cache); err != nil {
		vc.Invalidate()
		return nil, message.New(message.General, "evaluate failed for field %q: %v", f.name, err)
	}
	if !vc.Valid(cache.Stamp()) {
		vc.Invalidate()
		return nil, message.New(message.General, "core for field %q did not produce a value", f.name)
	}
	return vc.Value(), nil
}

// EvaluateString implements the evaluate-string memoisation protocol.
func (f *Field) EvaluateString(cache *fieldcache.Cache) (string, error) {
	if f.cacheIndex == unattachedCacheIndex {
		return "", message.New(message.Argument, "field %q is not attached to a region", f.name)
	}
	if f.core.ValueType() != String {
		return "", message.New(message.Argument, "field %q is not string-valued", f.name)
	}
	sc := cache.StringSlot(f.cacheIndex)
	if sc.Valid(cache.Stamp()) {
		return sc.Value(), nil
	}
	if !f.IsDefinedAtLocation(cache) {
		sc.Invalidate()
		return "", message.New(message.General, "field %q is not defined at the current location", f.name)
	}
	if err := f.core.Evaluate(f, cache); err != nil {
		sc.Invalidate()
		return "", message.New(message.General, "evaluate failed for field %q: %v", f.name, err)
	}
	if !sc.Valid(cache.Stamp()) {
		sc.Invalidate()
		return "", message.New(message.General, "core for field %q did not produce a value", f.name)
	}
	return sc.Value(), nil
}

// EvaluateMeshLocation implements the evaluate-mesh-location
// memoisation protocol.
func (f *Field) EvaluateMeshLocation(cache *fieldcache.Cache) (valuecache.MeshLocation, error) {
	var zero valuecache.MeshLocation
	if f.cacheIndex == unattachedCacheIndex {
		return zero, message.New(message.Argument, "field %q is not attached to a region", f.name)
	}
	if f.core.ValueType() != MeshLocationValue {
		return zero, message.New(message.Argument, "field %q is not mesh-location-valued", f.name)
	}
	mc := cache.MeshLocationSlot(f.cacheIndex)
	if mc.Valid(cache.Stamp()) {
		return mc.Value(), nil
	}
	if !f.IsDefinedAtLocation(cache) {
		mc.Invalidate()
		return zero, message.New(message.General, "field %q is not defined at the current location", f.name)
	}
	if err := f.core.Evaluate(f, cache); err != nil {
		mc.Invalidate()
		return zero, message.New(message.General, "evaluate failed for field %q: %v", f.name, err)
	}
	if !mc.Valid(cache.Stamp()) {
		mc.Invalidate()
		return zero, message.New(message.General, "core for field %q did not produce a value", f.name)
	}
	return mc.Value(), nil
}

// EvaluateDerivative implements the evaluate-derivative memoisation
// protocol: the sub-cache keyed by op's field derivative is checked
// first, then filled by the core's own AnalyticDerivative if it
// implements one, else by the finite-difference default (spec.md
// §4.6/§4.9).
func (f *Field) EvaluateDerivative(cache *fieldcache.Cache, op *diffop.Operator) ([]float64, error) {
	values, outerCount, err := f.evaluateDerivativeAllTerms(cache, op.Derivative())
	if err != nil {
		return nil, err
	}
	if op.IsAllTerms() {
		return values, nil
	}
	return selectOutermostTerm(values, f.componentCount, outerCount, op.Term()), nil
}

// evaluateDerivativeAllTerms runs the evaluate-derivative memoisation
// protocol for fd and returns its full term tensor plus the outer
// (per-direction) term count, used both by EvaluateDerivative and by
// analytic cores that need a source field's own derivative tensor
// (e.g. the product rule in arithmetic_core.go).
func (f *Field) evaluateDerivativeAllTerms(cache *fieldcache.Cache, fd *fieldderivative.FieldDerivative) ([]float64, int, error) {
	if f.cacheIndex == unattachedCacheIndex {
		return nil, 0, message.New(message.Argument, "field %q is not attached to a region", f.name)
	}
	if f.core.ValueType() != Real {
		return nil, 0, message.New(message.Argument, "field %q is not real-valued, has no mesh derivative", f.name)
	}
	element, _, err := cache.Location().ResolveElementXi()
	if err != nil {
		return nil, 0, message.New(message.General, "evaluate derivative: %v", err)
	}

	var outerCount int
	switch {
	case fd.Mesh() != nil:
		outerCount = fd.MeshTermCount()
	case fd.Parameters() != nil:
		outerCount = fd.ParameterTermCount(element.Identifier())
	default:
		return nil, 0, message.New(message.Argument, "field derivative has neither a mesh nor a parameters direction")
	}
	termCounts := make([]int, fd.Order())
	for i := range termCounts {
		termCounts[i] = outerCount
	}

	vc := cache.RealSlot(f.cacheIndex, f.componentCount)
	dc := vc.Derivative(fd, f.componentCount, termCounts)

	if !dc.Valid(cache.Stamp()) {
		if !f.IsDefinedAtLocation(cache) {
			dc.Invalidate()
			return nil, 0, message.New(message.General, "field %q is not defined at the current location", f.name)
		}
		if f.DerivativeTreeOrder(fd) < fd.Order() {
			// f provably cannot vary to this order; skip straight to
			// the all-zero result instead of differencing a constant.
			if err := dc.SetValues(make([]float64, dc.Len()), cache.Stamp()); err != nil {
				return nil, 0, err
			}
		} else {
			var evalErr error
			if ad, ok := f.core.(AnalyticDerivative); ok {
				evalErr = ad.EvaluateDerivative(f, cache, fd)
			} else {
				evalErr = evaluateDerivativeDefault(f, cache, fd)
			}
			if evalErr != nil {
				dc.Invalidate()
				return nil, 0, evalErr
			}
			if !dc.Valid(cache.Stamp()) {
				dc.Invalidate()
				return nil, 0, message.New(message.General, "core for field %q did not produce a derivative", f.name)
			}
		}
	}

	return dc.Values(), outerCount, nil
}

// selectOutermostTerm extracts the sub-tensor of values (laid out
// [component][term0]...[termN-1], innermost fastest-varying) for a
// fixed outermost term index, used when a differential operator names
// one direction rather than requesting every term (spec.md §4.9).
func selectOutermostTerm(values []float64, components, outerCount, term int) []float64 {
	innerSize := len(values) / (components * outerCount)
	out := make([]float64, components*innerSize)
	for c := 0; c < components; c++ {
		src := (c*outerCount + term) * innerSize
		copy(out[c*innerSize:(c+1)*innerSize], values[src:src+innerSize])
	}
	return out
}

// AssignReal implements the real-valued half of spec.md §4.7's assignment
// operation.
func (f *Field) AssignReal(cache *fieldcache.Cache, values []float64) (AssignResult, error) {
	assignable, ok := f.core.(Assignable)
	if !ok {
		return AssignFailed, message.New(message.Argument, "field %q does not support assignment", f.name)
	}
	if err := f.SetReal(cache, values); err != nil {
		return AssignFailed, err
	}
	result, err := assignable.Assign(f, cache)
	if err != nil {
		return AssignFailed, err
	}
	if result == AssignSet || result == AssignPartial {
		f.markChanged(ChangeFullResult)
	}
	return result, nil
}

// AssignString implements the string half of spec.md §4.7's
// assignment operation.
func (f *Field) AssignString(cache *fieldcache.Cache, value string) (AssignResult, error) {
	assignable, ok := f.core.(Assignable)
	if !ok {
		return AssignFailed, message.New(message.Argument, "field %q does not support assignment", f.name)
	}
	if err := f.SetString(cache, value); err != nil {
		return AssignFailed, err
	}
	result, err := assignable.Assign(f, cache)
	if err != nil {
		return AssignFailed, err
	}
	if result == AssignSet || result == AssignPartial {
		f.markChanged(ChangeFullResult)
	}
	return result, nil
}

// AssignMeshLocation implements the mesh-location half of spec.md
// §4.7's assignment operation.
func (f *Field) AssignMeshLocation(cache *fieldcache.Cache, value valuecache.MeshLocation) (AssignResult, error) {
	assignable, ok := f.core.(Assignable)
	if !ok {
		return AssignFailed, message.New(message.Argument, "field %q does not support assignment", f.name)
	}
	if err := f.SetMeshLocation(cache, value); err != nil {
		return AssignFailed, err
	}
	result, err := assignable.Assign(f, cache)
	if err != nil {
		return AssignFailed, err
	}
	if result == AssignSet || result == AssignPartial {
		f.markChanged(ChangeFullResult)
	}
	return result, nil
}
