// Package fieldmanager implements the field manager (spec.md §3/§4.1
// C7): per-region field ownership, name uniquification, cache-bracket
// change-status propagation, and the listing operation.
package fieldmanager

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/xid"

	"github.com/sarchlab/zincfield/field"
	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/message"
)

// Manager owns every field in one region: name uniqueness, stable
// iteration order, and the cache-bracket change broadcast spec.md
// §4.4 describes.
type Manager struct {
	region xid.ID
	sink   message.Sink

	byName map[string]*field.Field
	order  []*field.Field

	cacheDepth int

	// caches are the fieldcache.Cache instances this manager has
	// vended via NewCache, so ModifyDefinition can invalidate the
	// slot of a redefined field everywhere it may be cached. This
	// repository does not track cache lifetime beyond the manager's
	// own, a deliberate simplification documented in DESIGN.md.
	caches []*fieldcache.Cache
}

// New creates an empty manager for region, logging through sink (or
// message.DefaultSink() if nil).
func New(region xid.ID, sink message.Sink) *Manager {
	if sink == nil {
		sink = message.DefaultSink()
	}
	return &Manager{region: region, sink: sink, byName: map[string]*field.Field{}}
}

// Region returns the region this manager belongs to.
func (m *Manager) Region() xid.ID { return m.region }

// NewCache creates a fieldcache.Cache bound to this manager's region
// and tracks it so future ModifyDefinition calls can invalidate it.
func (m *Manager) NewCache() *fieldcache.Cache {
	c := fieldcache.New(m.region)
	m.caches = append(m.caches, c)
	return c
}

// autoNameStem is the stem used to auto-name a field added with an
// empty name (testable scenario S1: stem "temp", separator "", first
// number 1, so the first auto-named field is "temp1").
const autoNameStem = "temp"

// Add attaches f to the manager. An empty desiredName auto-generates
// one by appending an integer suffix (starting at 1) to autoNameStem
// until a free name is found; a non-empty desiredName that already
// names another field fails with AlreadyExists rather than being
// silently renamed (testable scenario S1's second step).
func (m *Manager) Add(f *field.Field, desiredName string) (*field.Field, error) {
	if _, attached := f.Region(); attached {
		return nil, message.New(message.AlreadyExists, "field is already attached to a region")
	}
	var name string
	if desiredName == "" {
		name = m.autoName()
	} else {
		if _, exists := m.byName[desiredName]; exists {
			return nil, message.New(message.AlreadyExists, "a field named %q already exists", desiredName)
		}
		name = desiredName
	}

	cacheIndex := len(m.order)
	f.AttachToManager(m.region, cacheIndex)
	f.SetName(name)

	m.byName[name] = f
	m.order = append(m.order, f)
	return f, nil
}

// autoName returns the first name of the form autoNameStem+N (N
// starting at 1) not already in use.
func (m *Manager) autoName() string {
	for n := 1; ; n++ {
		candidate := autoNameStem + strconv.Itoa(n)
		if _, exists := m.byName[candidate]; !exists {
			return candidate
		}
	}
}

// uniquify returns stem if unused, else stem with "_2", "_3", ...
// appended until a free name is found, used by Rename (which, unlike
// Add, always produces a name rather than failing on collision).
func (m *Manager) uniquify(stem string) string {
	if _, exists := m.byName[stem]; !exists {
		return stem
	}
	for n := 2; ; n++ {
		candidate := stem + "_" + strconv.Itoa(n)
		if _, exists := m.byName[candidate]; !exists {
			return candidate
		}
	}
}

// FindByName returns the field named name, or false if none exists.
func (m *Manager) FindByName(name string) (*field.Field, bool) {
	f, ok := m.byName[name]
	return f, ok
}

// Iterate returns every managed field in stable (insertion/topological)
// order.
func (m *Manager) Iterate() []*field.Field {
	return append([]*field.Field(nil), m.order...)
}

// Rename changes a managed field's name, uniquifying against every
// other name in the manager (leaving f's own current name out of the
// collision check).
func (m *Manager) Rename(f *field.Field, desiredName string) error {
	if _, ok := m.byName[f.Name()]; !ok {
		return message.New(message.NotFound, "field is not managed by this manager")
	}
	delete(m.byName, f.Name())
	name := m.uniquify(desiredName)
	f.SetName(name)
	m.byName[name] = f
	return nil
}

// BeginCache opens a change-coalescing bracket: field changes made
// while depth > 0 are merged and broadcast only once EndCache returns
// the depth to zero (spec.md §4.4).
func (m *Manager) BeginCache() {
	m.cacheDepth++
}

// EndCache closes one change-coalescing bracket. At depth zero it
// walks every field in topological (insertion) order, inheriting
// change status from sources, broadcasting the merged result, then
// clearing flags for the next bracket.
func (m *Manager) EndCache() error {
	if m.cacheDepth == 0 {
		return message.New(message.General, "fieldmanager: EndCache called without a matching BeginCache")
	}
	m.cacheDepth--
	if m.cacheDepth > 0 {
		return nil
	}
	for _, f := range m.order {
		f.InheritChange()
	}
	for _, f := range m.order {
		f.BroadcastChange()
	}
	for _, f := range m.order {
		f.ClearChangeFlags()
	}
	return nil
}

// ModifyDefinition replaces f's core and sources, after checking the
// redefinition invariants of spec.md §4.1: no cycle through the new
// sources, every new source attached to the same region as f, and the
// new core's value type matching f's current one (value type is fixed
// for a field's lifetime once created). Every cache this manager has
// vended has f's slot invalidated so the redefinition takes effect
// immediately rather than waiting on the next location change.
func (m *Manager) ModifyDefinition(f *field.Field, newCore field.Core, newSources []*field.Field) error {
	if newCore.ValueType() != f.ValueType() {
		return message.New(message.Argument, "cannot change field %q's value type from %s to %s", f.Name(), f.ValueType(), newCore.ValueType())
	}
	for _, s := range newSources {
		if s == f || s.DependsOn(f) {
			return message.New(message.Argument, "redefining field %q through %q would create a cycle", f.Name(), s.Name())
		}
		region, attached := s.Region()
		fRegion, fAttached := f.Region()
		if !attached || !fAttached || region != fRegion {
			return message.New(message.Argument, "source %q belongs to a different region than field %q", s.Name(), f.Name())
		}
	}
	f.Redefine(newCore, newSources)
	for _, c := range m.caches {
		c.InvalidateSlot(f.CacheIndex())
	}
	m.sink.Log(message.Info, "field %q redefined", f.Name())
	return nil
}

// Destroy removes f from the manager if nothing still needs it: it is
// not managed, its core reports NotInUse, and it carries no external
// reference beyond the manager's own implicit one (spec.md §3
// Lifecycle, testable scenario S5). A managed field is pinned
// regardless of reference count until SetManaged(false).
func (m *Manager) Destroy(f *field.Field) error {
	if _, ok := m.byName[f.Name()]; !ok {
		return message.New(message.NotFound, "field is not managed by this manager")
	}
	if f.Managed() {
		return message.New(message.InUse, "field %q is managed", f.Name())
	}
	if !f.Core().NotInUse(f) {
		return message.New(message.InUse, "field %q is still in use", f.Name())
	}
	if f.RefCount() > 0 {
		return message.New(message.InUse, "field %q has %d outstanding references", f.Name(), f.RefCount())
	}
	delete(m.byName, f.Name())
	for i, cur := range m.order {
		if cur == f {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	f.Detach()
	return nil
}

// List renders every managed field as a table (name, type, component
// count, coordinate system), the Go realisation of spec.md §4.2's
// listing operation.
func (m *Manager) List() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Type", "Components", "Coordinate System"})
	for _, f := range m.order {
		t.AppendRow(table.Row{f.Name(), f.Core().TypeString(), f.NumberOfComponents(), f.CoordinateSystem().Type})
	}
	return t.Render()
}

