// Package region implements the glue component named in spec.md §3/§6:
// one field manager, one mesh per dimension, one derivative cache and
// one message sink, all keyed under a single opaque region identity.
package region

import (
	"github.com/rs/xid"

	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/fieldderivative"
	"github.com/sarchlab/zincfield/fieldmanager"
	"github.com/sarchlab/zincfield/fieldparams"
	"github.com/sarchlab/zincfield/message"
	"github.com/sarchlab/zincfield/mesh"
)

// Region owns everything a field graph needs to be evaluated: field
// storage (fieldmanager.Manager), one root mesh per dimension, the
// shared field-derivative chain cache, and the diagnostic sink every
// component underneath logs through.
type Region struct {
	id xid.ID

	sink    message.Sink
	fields  *fieldmanager.Manager
	derivs  *fieldderivative.Cache
	meshes  map[int]*mesh.Base
	params  map[int]*fieldparams.Parameters
}

// New creates an empty region with its own opaque identity, logging
// through sink (or message.DefaultSink() if nil).
func New(sink message.Sink) *Region {
	if sink == nil {
		sink = message.DefaultSink()
	}
	id := xid.New()
	return &Region{
		id:     id,
		sink:   sink,
		fields: fieldmanager.New(id, sink),
		derivs: fieldderivative.NewCache(),
		meshes: map[int]*mesh.Base{},
		params: map[int]*fieldparams.Parameters{},
	}
}

// ID returns the region's opaque identity.
func (r *Region) ID() xid.ID { return r.id }

// Sink returns the region's diagnostic sink.
func (r *Region) Sink() message.Sink { return r.sink }

// Fields returns the region's field manager.
func (r *Region) Fields() *fieldmanager.Manager { return r.fields }

// Derivatives returns the region's shared field-derivative chain cache.
func (r *Region) Derivatives() *fieldderivative.Cache { return r.derivs }

// Mesh returns the root mesh of the given dimension, creating it the
// first time it is requested. Its name is derived from the dimension:
// "nodes" for 0, "mesh1d"/"mesh2d"/"mesh3d" for 1-3, "mesh" otherwise.
func (r *Region) Mesh(dimension int) *mesh.Base {
	m, ok := r.meshes[dimension]
	if !ok {
		m = mesh.NewBase(dimension, meshName(dimension))
		r.meshes[dimension] = m
	}
	return m
}

func meshName(dimension int) string {
	switch dimension {
	case 0:
		return "nodes"
	case 1:
		return "mesh1d"
	case 2:
		return "mesh2d"
	case 3:
		return "mesh3d"
	default:
		return "mesh"
	}
}

// Parameters returns the field-parameters object associated with
// elements of the given dimension, creating an empty one on first
// request. A region keeps one parameters object per dimension, since
// fieldparams.Parameters indexes by element identifier within a single
// mesh (spec.md §4.9's "a field-parameters object's parameters").
func (r *Region) Parameters(dimension int) *fieldparams.Parameters {
	p, ok := r.params[dimension]
	if !ok {
		p = fieldparams.New(fieldparams.DefaultDelta)
		r.params[dimension] = p
	}
	return p
}

// NewCache creates a fieldcache.Cache bound to this region, delegating
// to the field manager so ModifyDefinition can still invalidate every
// vended cache (spec.md §4.1).
func (r *Region) NewCache() *fieldcache.Cache {
	return r.fields.NewCache()
}

// MeshDerivative returns (creating lower orders as needed) the order-n
// field derivative with respect to the given dimension's mesh chart
// coordinates.
func (r *Region) MeshDerivative(dimension, order int) (*fieldderivative.FieldDerivative, error) {
	return r.derivs.Get(r.id, r.Mesh(dimension), nil, order)
}

// ParameterDerivative returns the order-n field derivative with respect
// to the given dimension's parameters object.
func (r *Region) ParameterDerivative(dimension, order int) (*fieldderivative.FieldDerivative, error) {
	return r.derivs.Get(r.id, nil, r.Parameters(dimension), order)
}
