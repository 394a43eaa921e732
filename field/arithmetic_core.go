package field

import (
	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/fieldderivative"
	"github.com/sarchlab/zincfield/message"
)

// AddCore computes the component-wise sum of its two sources. Both
// sources must share f's component count; this is checked once, when
// the field is constructed, by the package-level NewAdd helper rather
// than on every Evaluate.
type AddCore struct {
	BaseCore
}

// NewAdd builds a field summing a and b component-wise.
func NewAdd(name string, a, b *Field) (*Field, error) {
	if a.NumberOfComponents() != b.NumberOfComponents() {
		return nil, message.New(message.Argument, "add: sources have %d and %d components", a.NumberOfComponents(), b.NumberOfComponents())
	}
	return New(name, a.NumberOfComponents(), []*Field{a, b}, nil, &AddCore{})
}

// TypeString implements Core.
func (c *AddCore) TypeString() string { return "ADD" }

// ValueType implements Core.
func (c *AddCore) ValueType() ValueType { return Real }

// Evaluate implements Core.
func (c *AddCore) Evaluate(f *Field, cache *fieldcache.Cache) error {
	a, err := f.Sources()[0].EvaluateReal(cache)
	if err != nil {
		return err
	}
	b, err := f.Sources()[1].EvaluateReal(cache)
	if err != nil {
		return err
	}
	out := make([]float64, len(a))
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return f.SetReal(cache, out)
}

// Copy implements Core.
func (c *AddCore) Copy() Core { return &AddCore{} }

// Compare implements Core.
func (c *AddCore) Compare(other Core) bool {
	_, ok := other.(*AddCore)
	return ok
}

// EvaluateDerivative implements AnalyticDerivative for first-order
// derivatives: d(a+b) = da + db.
func (c *AddCore) EvaluateDerivative(f *Field, cache *fieldcache.Cache, fd *fieldderivative.FieldDerivative) error {
	return evaluateLinearCombinationDerivative(f, cache, fd, 1, 1)
}

// MultiplyCore computes the component-wise product of its two sources.
type MultiplyCore struct {
	BaseCore
}

// NewMultiply builds a field multiplying a and b component-wise.
func NewMultiply(name string, a, b *Field) (*Field, error) {
	if a.NumberOfComponents() != b.NumberOfComponents() {
		return nil, message.New(message.Argument, "multiply: sources have %d and %d components", a.NumberOfComponents(), b.NumberOfComponents())
	}
	return New(name, a.NumberOfComponents(), []*Field{a, b}, nil, &MultiplyCore{})
}

// TypeString implements Core.
func (c *MultiplyCore) TypeString() string { return "MULTIPLY" }

// ValueType implements Core.
func (c *MultiplyCore) ValueType() ValueType { return Real }

// Evaluate implements Core.
func (c *MultiplyCore) Evaluate(f *Field, cache *fieldcache.Cache) error {
	a, err := f.Sources()[0].EvaluateReal(cache)
	if err != nil {
		return err
	}
	b, err := f.Sources()[1].EvaluateReal(cache)
	if err != nil {
		return err
	}
	out := make([]float64, len(a))
	for i := range out {
		out[i] = a[i] * b[i]
	}
	return f.SetReal(cache, out)
}

// Copy implements Core.
func (c *MultiplyCore) Copy() Core { return &MultiplyCore{} }

// Compare implements Core.
func (c *MultiplyCore) Compare(other Core) bool {
	_, ok := other.(*MultiplyCore)
	return ok
}

// EvaluateDerivative implements AnalyticDerivative for first-order
// derivatives via the product rule: d(ab) = a*db + b*da.
func (c *MultiplyCore) EvaluateDerivative(f *Field, cache *fieldcache.Cache, fd *fieldderivative.FieldDerivative) error {
	if fd.Order() != 1 {
		return evaluateDerivativeDefault(f, cache, fd)
	}
	a := f.Sources()[0]
	b := f.Sources()[1]

	aVal, err := a.EvaluateReal(cache)
	if err != nil {
		return err
	}
	bVal, err := b.EvaluateReal(cache)
	if err != nil {
		return err
	}

	da, err := derivativeOf(a, cache, fd)
	if err != nil {
		return err
	}
	db, err := derivativeOf(b, cache, fd)
	if err != nil {
		return err
	}

	n := len(da) / len(aVal)
	out := make([]float64, len(da))
	for comp := 0; comp < len(aVal); comp++ {
		for d := 0; d < n; d++ {
			idx := comp*n + d
			out[idx] = aVal[comp]*db[idx] + bVal[comp]*da[idx]
		}
	}
	return f.SetDerivative(cache, fd, []int{n}, out)
}

// ComponentCore extracts a single 0-based component from its one
// source, producing a 1-component field.
type ComponentCore struct {
	BaseCore
	component int
}

// NewComponent builds a 1-component field selecting component
// (0-based) out of source.
func NewComponent(name string, source *Field, component int) (*Field, error) {
	if component < 0 || component >= source.NumberOfComponents() {
		return nil, message.New(message.Argument, "component %d out of range [0,%d)", component, source.NumberOfComponents())
	}
	return New(name, 1, []*Field{source}, nil, &ComponentCore{component: component})
}

// TypeString implements Core.
func (c *ComponentCore) TypeString() string { return "COMPONENT" }

// ValueType implements Core.
func (c *ComponentCore) ValueType() ValueType { return Real }

// Evaluate implements Core.
func (c *ComponentCore) Evaluate(f *Field, cache *fieldcache.Cache) error {
	v, err := f.Sources()[0].EvaluateReal(cache)
	if err != nil {
		return err
	}
	return f.SetReal(cache, []float64{v[c.component]})
}

// Copy implements Core.
func (c *ComponentCore) Copy() Core { return &ComponentCore{component: c.component} }

// Compare implements Core.
func (c *ComponentCore) Compare(other Core) bool {
	o, ok := other.(*ComponentCore)
	return ok && o.component == c.component
}

// EvaluateDerivative implements AnalyticDerivative for first-order
// derivatives: selecting the source derivative's one component row.
func (c *ComponentCore) EvaluateDerivative(f *Field, cache *fieldcache.Cache, fd *fieldderivative.FieldDerivative) error {
	if fd.Order() != 1 {
		return evaluateDerivativeDefault(f, cache, fd)
	}
	source := f.Sources()[0]
	d, err := derivativeOf(source, cache, fd)
	if err != nil {
		return err
	}
	termCount := len(d) / source.NumberOfComponents()
	out := d[c.component*termCount : (c.component+1)*termCount]
	return f.SetDerivative(cache, fd, []int{termCount}, append([]float64(nil), out...))
}

// derivativeOf is a small helper so arithmetic cores can request a
// source field's own first-order derivative without constructing a
// diffop.Operator (which would import this package, a cycle); it
// reuses Field.EvaluateDerivative's logic directly through an
// unexported path equivalent.
func derivativeOf(f *Field, cache *fieldcache.Cache, fd *fieldderivative.FieldDerivative) ([]float64, error) {
	values, _, err := f.evaluateDerivativeAllTerms(cache, fd)
	return values, err
}

// evaluateLinearCombinationDerivative implements d(alpha*a + beta*b)
// for the two sources of a field with exactly two real sources of
// matching shape, used by AddCore (alpha=beta=1).
func evaluateLinearCombinationDerivative(f *Field, cache *fieldcache.Cache, fd *fieldderivative.FieldDerivative, alpha, beta float64) error {
	if fd.Order() != 1 {
		return evaluateDerivativeDefault(f, cache, fd)
	}
	da, err := derivativeOf(f.Sources()[0], cache, fd)
	if err != nil {
		return err
	}
	db, err := derivativeOf(f.Sources()[1], cache, fd)
	if err != nil {
		return err
	}
	out := make([]float64, len(da))
	for i := range out {
		out[i] = alpha*da[i] + beta*db[i]
	}
	n := len(da) / f.NumberOfComponents()
	return f.SetDerivative(cache, fd, []int{n}, out)
}
