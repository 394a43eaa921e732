package mesh_test

import (
	"testing"

	"github.com/sarchlab/zincfield/mesh"
)

func TestNewBasisRejectsUnlinkedSimplex(t *testing.T) {
	// A lone simplex tag on a 2-D basis has no linked chart coordinate.
	if _, err := mesh.NewBasis([]mesh.FunctionType{mesh.LinearSimplex, mesh.LinearLagrange}); err == nil {
		t.Fatal("expected an error for an unlinked simplex chart coordinate")
	}
}

func TestNewBasisSharesBySignature(t *testing.T) {
	a, err := mesh.NewBasis([]mesh.FunctionType{mesh.LinearLagrange, mesh.LinearLagrange})
	if err != nil {
		t.Fatal(err)
	}
	b, err := mesh.NewBasis([]mesh.FunctionType{mesh.LinearLagrange, mesh.LinearLagrange})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("two bases with the same tag sequence must be the identical shared object")
	}
}

func TestBasisNumberOfNodesTensorProduct(t *testing.T) {
	b, err := mesh.NewBasis([]mesh.FunctionType{mesh.LinearLagrange, mesh.LinearLagrange})
	if err != nil {
		t.Fatal(err)
	}
	if b.NumberOfNodes() != 4 {
		t.Fatalf("NumberOfNodes() = %d, want 4", b.NumberOfNodes())
	}
}

func TestBasisEvaluateBilinearAtCenter(t *testing.T) {
	b, err := mesh.NewBasis([]mesh.FunctionType{mesh.LinearLagrange, mesh.LinearLagrange})
	if err != nil {
		t.Fatal(err)
	}
	values, err := b.Evaluate([]float64{0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 4 {
		t.Fatalf("len(values) = %d, want 4", len(values))
	}
	for _, v := range values {
		if v != 0.25 {
			t.Fatalf("bilinear shape function at the element center = %v, want all 0.25", values)
		}
	}
}

func TestBasisEvaluateLinearSimplex(t *testing.T) {
	b, err := mesh.NewBasis([]mesh.FunctionType{mesh.LinearSimplex, mesh.LinearSimplex})
	if err != nil {
		t.Fatal(err)
	}
	values, err := b.Evaluate([]float64{0.25, 0.25})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.5, 0.25, 0.25}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("Evaluate(0.25,0.25) = %v, want %v", values, want)
		}
	}
}

// Property 9: element_template.validate() is idempotent.
func TestElementTemplateValidateIsIdempotent(t *testing.T) {
	template, err := mesh.NewElementTemplate(mesh.ShapeSquare, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := template.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := template.Validate(); err != nil {
		t.Fatalf("second Validate() call must also succeed, got %v", err)
	}
}

func TestCreateElementRejectsUnspecifiedShape(t *testing.T) {
	base := mesh.NewBase(2, "mesh2d")
	template, err := mesh.NewElementTemplate(mesh.ShapeUnspecified, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := base.CreateElement(1, template); err == nil {
		t.Fatal("expected an error creating an element from an unspecified-shape template")
	}
}

func TestCreateElementRejectsDuplicateIdentifier(t *testing.T) {
	base := mesh.NewBase(2, "mesh2d")
	template, err := mesh.NewElementTemplate(mesh.ShapeSquare, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := base.CreateElement(1, template); err != nil {
		t.Fatal(err)
	}
	if _, err := base.CreateElement(1, template); err == nil {
		t.Fatal("expected an error for a duplicate element identifier")
	}
}

// DefineElement with an unspecified-shape template preserves the
// element's existing shape (spec.md §4.8, testable property 9's
// partner invariant).
func TestDefineElementPreservesShapeOnUnspecifiedTemplate(t *testing.T) {
	base := mesh.NewBase(2, "mesh2d")
	template, err := mesh.NewElementTemplate(mesh.ShapeSquare, 4)
	if err != nil {
		t.Fatal(err)
	}
	e, err := base.CreateElement(1, template)
	if err != nil {
		t.Fatal(err)
	}

	overlay, err := mesh.NewElementTemplate(mesh.ShapeUnspecified, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := base.DefineElement(e, overlay); err != nil {
		t.Fatal(err)
	}
	if e.Shape() != mesh.ShapeSquare {
		t.Fatalf("Shape() = %v, want ShapeSquare to be preserved", e.Shape())
	}
}

func TestGroupCreateElementAddsMembership(t *testing.T) {
	base := mesh.NewBase(2, "mesh2d")
	group := mesh.NewGroup(base)
	template, err := mesh.NewElementTemplate(mesh.ShapeSquare, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := group.CreateElement(1, template); err != nil {
		t.Fatal(err)
	}
	if !group.Contains(1) {
		t.Fatal("creating an element through a group must add it to the group's membership")
	}
	if !base.Contains(1) {
		t.Fatal("creating an element through a group must also create it in the base mesh")
	}
}

func TestGroupRemoveDoesNotDestroy(t *testing.T) {
	base := mesh.NewBase(2, "mesh2d")
	group := mesh.NewGroup(base)
	template, err := mesh.NewElementTemplate(mesh.ShapeSquare, 4)
	if err != nil {
		t.Fatal(err)
	}
	e, err := group.CreateElement(1, template)
	if err != nil {
		t.Fatal(err)
	}
	if err := group.Remove(e); err != nil {
		t.Fatal(err)
	}
	if group.Contains(1) {
		t.Fatal("Remove must drop membership")
	}
	if !base.Contains(1) {
		t.Fatal("Remove must not destroy the element from the base mesh")
	}
}
