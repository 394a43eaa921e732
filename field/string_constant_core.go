package field

import "github.com/sarchlab/zincfield/fieldcache"

// StringConstantCore is a zero-source field holding a fixed string
// value, grounding the string value-cache shape named in spec.md §3.
type StringConstantCore struct {
	BaseCore
	value string
}

// NewStringConstant builds a constant string field core.
func NewStringConstant(value string) *StringConstantCore {
	return &StringConstantCore{value: value}
}

// TypeString implements Core.
func (c *StringConstantCore) TypeString() string { return "STRING_CONSTANT" }

// ValueType implements Core.
func (c *StringConstantCore) ValueType() ValueType { return String }

// Evaluate implements Core.
func (c *StringConstantCore) Evaluate(f *Field, cache *fieldcache.Cache) error {
	return f.SetString(cache, c.value)
}

// Copy implements Core.
func (c *StringConstantCore) Copy() Core { return NewStringConstant(c.value) }

// Compare implements Core.
func (c *StringConstantCore) Compare(other Core) bool {
	o, ok := other.(*StringConstantCore)
	return ok && o.value == c.value
}
