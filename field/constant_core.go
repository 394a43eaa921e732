package field

import (
	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/fieldderivative"
)

// ConstantCore is a zero-source field whose value never changes: the
// base case every other core variant can depend on without introducing
// a cycle (spec.md §4.2).
type ConstantCore struct {
	BaseCore
	value []float64
}

// NewConstant builds a constant real field core with the given
// component values.
func NewConstant(value []float64) *ConstantCore {
	return &ConstantCore{value: append([]float64(nil), value...)}
}

// TypeString implements Core.
func (c *ConstantCore) TypeString() string { return "CONSTANT" }

// ValueType implements Core.
func (c *ConstantCore) ValueType() ValueType { return Real }

// Evaluate implements Core.
func (c *ConstantCore) Evaluate(f *Field, cache *fieldcache.Cache) error {
	return f.SetReal(cache, c.value)
}

// Copy implements Core.
func (c *ConstantCore) Copy() Core {
	return NewConstant(c.value)
}

// Compare implements Core.
func (c *ConstantCore) Compare(other Core) bool {
	o, ok := other.(*ConstantCore)
	if !ok || len(o.value) != len(c.value) {
		return false
	}
	for i := range c.value {
		if c.value[i] != o.value[i] {
			return false
		}
	}
	return true
}

// DerivativeTreeOrder implements TreeOrderAware: a constant's
// derivative of any order is zero.
func (c *ConstantCore) DerivativeTreeOrder(*Field, *fieldderivative.FieldDerivative) int { return 0 }
