// Package fieldderivative implements the field-derivative descriptor
// (spec.md §3/§4.9 C2): an order of differentiation with respect to
// either a mesh's chart coordinates or a field-parameters object's
// parameters, linked to the next-lower derivative along the same
// dimension.
package fieldderivative

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sarchlab/zincfield/fieldparams"
	"github.com/sarchlab/zincfield/mesh"
)

// FieldDerivative identifies one order of differentiation with respect
// to a mesh, a parameters object, or both. region.go's
// MeshDerivative/ParameterDerivative constructors each set only one;
// Cache.Get accepts both. The finite-difference default
// (field/finite_difference.go) and evaluateDerivativeAllTerms use the
// mesh direction whenever Mesh() is non-nil, so a mixed
// mesh-and-parameter partial derivative is not implemented.
type FieldDerivative struct {
	region xid.ID
	mesh   mesh.Mesh
	params *fieldparams.Parameters
	order  int
	lower  *FieldDerivative
}

// Region returns the opaque identifier of the owning region.
func (d *FieldDerivative) Region() xid.ID { return d.region }

// Mesh returns the mesh this derivative differentiates with respect
// to, or nil if it has no chart-coordinate term.
func (d *FieldDerivative) Mesh() mesh.Mesh { return d.mesh }

// Parameters returns the field-parameters object this derivative
// differentiates with respect to, or nil if it has no parameter term.
func (d *FieldDerivative) Parameters() *fieldparams.Parameters { return d.params }

// Order returns the total order of differentiation (>=1).
func (d *FieldDerivative) Order() int { return d.order }

// Lower returns the next-lower derivative along the same dimension
// chain, or nil if d is already first order.
func (d *FieldDerivative) Lower() *FieldDerivative { return d.lower }

// MeshTermCount returns the number of terms in the outermost mesh
// differentiation direction (the element dimension), or 0 if d has no
// mesh term.
func (d *FieldDerivative) MeshTermCount() int {
	if d.mesh == nil {
		return 0
	}
	return d.mesh.Dimension()
}

// ParameterTermCount returns the number of terms in the outermost
// parameter differentiation direction for the given element, or 0 if d
// has no parameter term.
func (d *FieldDerivative) ParameterTermCount(element int) int {
	if d.params == nil {
		return 0
	}
	return d.params.NumberOfParameters(element)
}

// MeshOnly reports whether d differentiates only with respect to mesh
// chart coordinates, with no parameter term. This is the predicate
// spec.md §4.9's differential operator construction rule keys on.
func (d *FieldDerivative) MeshOnly() bool {
	return d.mesh != nil && d.params == nil
}

// key identifies a distinct derivative chain within a Cache: the
// mesh/parameters pairing determines everything but order, since order
// is implicit in chain position.
type key struct {
	region    xid.ID
	meshName  string
	hasMesh   bool
	paramsPtr *fieldparams.Parameters
}

// Cache memoises derivative chains per (region, mesh, parameters) so
// repeated requests for "the same" derivative return identical
// pointers, the way field cores compare derivative descriptors by
// identity rather than by value (spec.md §3). One Cache is owned per
// region.
type Cache struct {
	chains map[key][]*FieldDerivative // index 0 is order 1
}

// NewCache creates an empty derivative cache.
func NewCache() *Cache {
	return &Cache{chains: map[key][]*FieldDerivative{}}
}

// Get returns the order-n field derivative for the given mesh and/or
// parameters object (at least one must be non-nil), building and
// caching any missing lower orders along the way.
func (c *Cache) Get(region xid.ID, m mesh.Mesh, params *fieldparams.Parameters, order int) (*FieldDerivative, error) {
	if m == nil && params == nil {
		return nil, fmt.Errorf("fieldderivative: at least one of mesh or parameters must be given")
	}
	if order < 1 {
		return nil, fmt.Errorf("fieldderivative: order must be >= 1, got %d", order)
	}
	k := key{region: region, paramsPtr: params}
	if m != nil {
		k.hasMesh = true
		if named, ok := m.(interface{ Name() string }); ok {
			k.meshName = named.Name()
		}
	}
	chain := c.chains[k]
	for len(chain) < order {
		var lower *FieldDerivative
		if len(chain) > 0 {
			lower = chain[len(chain)-1]
		}
		chain = append(chain, &FieldDerivative{
			region: region,
			mesh:   m,
			params: params,
			order:  len(chain) + 1,
			lower:  lower,
		})
	}
	c.chains[k] = chain
	return chain[order-1], nil
}
