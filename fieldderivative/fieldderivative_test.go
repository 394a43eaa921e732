package fieldderivative_test

import (
	"testing"

	"github.com/rs/xid"

	"github.com/sarchlab/zincfield/fieldderivative"
	"github.com/sarchlab/zincfield/mesh"
)

func TestGetRejectsMissingMeshAndParameters(t *testing.T) {
	c := fieldderivative.NewCache()
	if _, err := c.Get(xid.New(), nil, nil, 1); err == nil {
		t.Fatal("expected an error when neither mesh nor parameters is given")
	}
}

func TestGetRejectsOrderBelowOne(t *testing.T) {
	c := fieldderivative.NewCache()
	m := mesh.NewBase(2, "mesh2d")
	if _, err := c.Get(xid.New(), m, nil, 0); err == nil {
		t.Fatal("expected an error for order 0")
	}
}

func TestGetBuildsAndMemoizesChain(t *testing.T) {
	c := fieldderivative.NewCache()
	region := xid.New()
	m := mesh.NewBase(2, "mesh2d")

	second, err := c.Get(region, m, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if second.Order() != 2 {
		t.Fatalf("Order() = %d, want 2", second.Order())
	}
	if second.Lower() == nil || second.Lower().Order() != 1 {
		t.Fatal("order-2 derivative must chain to an order-1 lower derivative")
	}

	// Requesting the same (region, mesh, order) pair again must return
	// the identical pointer, since field cores compare derivative
	// descriptors by identity.
	again, err := c.Get(region, m, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if again != second {
		t.Fatal("repeated Get with the same key must return the same *FieldDerivative")
	}

	first, err := c.Get(region, m, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if first != second.Lower() {
		t.Fatal("the order-1 derivative built as a side effect of the order-2 request must be the same object Get(1) returns")
	}
}

func TestGetDistinguishesMeshes(t *testing.T) {
	c := fieldderivative.NewCache()
	region := xid.New()
	m1 := mesh.NewBase(2, "mesh2d")
	m2 := mesh.NewBase(3, "mesh3d")

	d1, err := c.Get(region, m1, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := c.Get(region, m2, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d1 == d2 {
		t.Fatal("derivatives over distinct meshes must not share a cache entry")
	}
}

func TestMeshTermCountAndMeshOnly(t *testing.T) {
	c := fieldderivative.NewCache()
	m := mesh.NewBase(2, "mesh2d")
	d, err := c.Get(xid.New(), m, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.MeshTermCount() != 2 {
		t.Fatalf("MeshTermCount() = %d, want 2", d.MeshTermCount())
	}
	if !d.MeshOnly() {
		t.Fatal("a derivative built with a mesh and no parameters must be MeshOnly")
	}
	if d.ParameterTermCount(1) != 0 {
		t.Fatalf("ParameterTermCount() = %d, want 0 for a mesh-only derivative", d.ParameterTermCount(1))
	}
}
