package field_test

import (
	"testing"

	"github.com/rs/xid"

	"github.com/sarchlab/zincfield/diffop"
	"github.com/sarchlab/zincfield/field"
	"github.com/sarchlab/zincfield/fieldderivative"
	"github.com/sarchlab/zincfield/fieldmanager"
	"github.com/sarchlab/zincfield/fieldparams"
	"github.com/sarchlab/zincfield/mesh"
)

// A node value field's parameter derivative is not a disguised no-op:
// perturbing element parameter d offsets component d of the stored
// nodal value, so the first-order parameter derivative tensor is the
// identity matrix.
func TestNodeValueParameterDerivativeIsNonZero(t *testing.T) {
	region := xid.New()
	m := fieldmanager.New(region, nil)

	f, err := field.NewNodeValue("temperature", 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Add(f, "temperature"); err != nil {
		t.Fatal(err)
	}

	base := mesh.NewBase(2, "mesh2d")
	template, err := mesh.NewElementTemplate(mesh.ShapeSquare, 4)
	if err != nil {
		t.Fatal(err)
	}
	e, err := base.CreateElement(1, template)
	if err != nil {
		t.Fatal(err)
	}

	node := &mesh.Node{Identifier: 1}
	cache := m.NewCache()
	cache.SetNodeWithHostElement(node, e, []float64{0.5, 0.5})
	if _, err := f.AssignReal(cache, []float64{1, 2}); err != nil {
		t.Fatal(err)
	}

	params := fieldparams.New(1e-4)
	params.SetNumberOfParameters(e.Identifier(), 2)

	derivCache := fieldderivative.NewCache()
	fd, err := derivCache.Get(region, nil, params, 1)
	if err != nil {
		t.Fatal(err)
	}
	op, err := diffop.New(fd, diffop.AllTerms)
	if err != nil {
		t.Fatal(err)
	}

	derivative, err := f.EvaluateDerivative(cache, op)
	if err != nil {
		t.Fatal(err)
	}
	if len(derivative) != 4 {
		t.Fatalf("len(derivative) = %d, want 4", len(derivative))
	}
	want := []float64{1, 0, 0, 1} // [component][parameter], identity
	for i, w := range want {
		if diff := derivative[i] - w; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("derivative[%d] = %v, want %v", i, derivative[i], w)
		}
	}
}
