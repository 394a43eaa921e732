package api_test

import (
	"math"
	"testing"

	"github.com/sarchlab/zincfield/api"
	"github.com/sarchlab/zincfield/field"
	"github.com/sarchlab/zincfield/mesh"
	"github.com/sarchlab/zincfield/region"
)

// Property 6: enum round trip for the field-type registry.
func TestFieldClassNameRoundTrip(t *testing.T) {
	typeStrings := []string{
		"CONSTANT", "COORDINATES", "ADD", "MULTIPLY",
		"COMPONENT", "NODE_VALUE", "STRING_CONSTANT", "MESH_LOCATION",
		"ELEMENT_INTERPOLATE",
	}
	for _, ts := range typeStrings {
		className, err := api.FieldClassName(ts)
		if err != nil {
			t.Fatalf("FieldClassName(%q): %v", ts, err)
		}
		got, err := api.FieldTypeString(className)
		if err != nil {
			t.Fatalf("FieldTypeString(%q): %v", className, err)
		}
		if got != ts {
			t.Fatalf("round trip: got %q, want %q", got, ts)
		}
	}
}

func TestFieldClassNameUnknown(t *testing.T) {
	if _, err := api.FieldClassName("NOT_A_TYPE"); err == nil {
		t.Fatal("expected an error for an unknown type string")
	}
	if _, err := api.FieldTypeString("NotAClassName"); err == nil {
		t.Fatal("expected an error for an unknown class name")
	}
}

func TestFindElementXiLocatesCoordinates(t *testing.T) {
	r := region.New(nil)
	handle, err := api.CreateGenericField(r, "coordinates", 2, nil, nil, field.NewCoordinates())
	if err != nil {
		t.Fatal(err)
	}

	template, err := api.CreateElementTemplate(mesh.ShapeSquare, 4)
	if err != nil {
		t.Fatal(err)
	}
	meshHandle := api.FindMeshByDimension(r, 2)
	if _, err := meshHandle.CreateElement(1, template); err != nil {
		t.Fatal(err)
	}

	cache := api.NewFieldcache(r)
	element, xi, err := handle.FindElementXi(cache, []float64{0.25, 0.75}, meshHandle, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if element.Identifier() != 1 {
		t.Fatalf("element identifier = %d, want 1", element.Identifier())
	}
	if math.Abs(xi[0]-0.25) > 0.3 || math.Abs(xi[1]-0.75) > 0.3 {
		t.Fatalf("xi = %v, want near (0.25, 0.75) within the coarse search grid's resolution", xi)
	}
}

