package field

import (
	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/fieldderivative"
)

// CoordinatesCore is the identity field over a mesh location's chart
// coordinates: component count equals the mesh's dimension, and the
// field is defined only where the cache resolves to an element+xi (or
// a node embedded in one). Its analytic first derivative is the
// identity matrix, used as the cross-check for finite differences in
// testable property 7.
type CoordinatesCore struct {
	BaseCore
}

// NewCoordinates builds a chart-coordinates field core.
func NewCoordinates() *CoordinatesCore { return &CoordinatesCore{} }

// TypeString implements Core.
func (c *CoordinatesCore) TypeString() string { return "COORDINATES" }

// ValueType implements Core.
func (c *CoordinatesCore) ValueType() ValueType { return Real }

// Evaluate implements Core: the field's value is the current
// location's chart coordinates themselves.
func (c *CoordinatesCore) Evaluate(f *Field, cache *fieldcache.Cache) error {
	_, xi, err := cache.Location().ResolveElementXi()
	if err != nil {
		return err
	}
	return f.SetReal(cache, xi)
}

// Copy implements Core.
func (c *CoordinatesCore) Copy() Core { return NewCoordinates() }

// Compare implements Core: all coordinates cores are interchangeable.
func (c *CoordinatesCore) Compare(other Core) bool {
	_, ok := other.(*CoordinatesCore)
	return ok
}

// IsDefinedAtLocation implements LocationAware: only where chart
// coordinates resolve.
func (c *CoordinatesCore) IsDefinedAtLocation(f *Field, cache *fieldcache.Cache) bool {
	_, _, err := cache.Location().ResolveElementXi()
	return err == nil
}

// EvaluateDerivative implements AnalyticDerivative for first-order
// mesh derivatives: d(xi_c)/d(xi_d) is the identity matrix, known
// exactly rather than finite-differenced.
func (c *CoordinatesCore) EvaluateDerivative(f *Field, cache *fieldcache.Cache, fd *fieldderivative.FieldDerivative) error {
	if fd.Order() != 1 || fd.Mesh() == nil {
		return evaluateDerivativeDefault(f, cache, fd)
	}
	n := fd.MeshTermCount()
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		out[i*n+i] = 1
	}
	return f.SetDerivative(cache, fd, []int{n}, out)
}
