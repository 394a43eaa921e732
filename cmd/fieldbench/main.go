// Command fieldbench is a small demonstration driver for the field
// evaluation engine, grounded on the teacher's sample programs
// (samples/fir/main.go): build a context (here, a region), feed it a
// workload (here, a field graph and one element), run it, and print the
// result; an atexit handler prints a completion line on the way out.
package main

import (
	"fmt"
	"math"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/zincfield/diffop"
	"github.com/sarchlab/zincfield/field"
	"github.com/sarchlab/zincfield/mesh"
	"github.com/sarchlab/zincfield/region"
)

func main() {
	atexit.Register(func() { fmt.Println("fieldbench: done") })

	r := region.New(nil)

	f, err := buildQuadraticField(r)
	if err != nil {
		fmt.Println("build failed:", err)
		atexit.Exit(1)
	}

	element, err := createSquareElement(r)
	if err != nil {
		fmt.Println("element creation failed:", err)
		atexit.Exit(1)
	}

	cache := r.NewCache()
	if err := cache.SetElementXi(element, []float64{0.5, 0.5}); err != nil {
		fmt.Println("set location failed:", err)
		atexit.Exit(1)
	}

	value, err := f.EvaluateReal(cache)
	if err != nil {
		fmt.Println("evaluate failed:", err)
		atexit.Exit(1)
	}
	fmt.Printf("F(0.5, 0.5) = %v\n", value)

	fd, err := r.MeshDerivative(2, 1)
	if err != nil {
		fmt.Println("derivative lookup failed:", err)
		atexit.Exit(1)
	}
	op, err := diffop.New(fd, diffop.AllTerms)
	if err != nil {
		fmt.Println("differential operator failed:", err)
		atexit.Exit(1)
	}

	derivative, err := f.EvaluateDerivative(cache, op)
	if err != nil {
		fmt.Println("derivative evaluation failed:", err)
		atexit.Exit(1)
	}
	fmt.Printf("dF/dxi(0.5, 0.5) = %v\n", derivative)

	expected := []float64{1.0, 2.0}
	for i, got := range derivative {
		if math.Abs(got-expected[i]) > 1e-6 {
			fmt.Printf("mismatch at component %d: got %v, want %v\n", i, got, expected[i])
			atexit.Exit(1)
		}
	}

	fmt.Println(r.Fields().List())

	atexit.Exit(0)
}

// buildQuadraticField constructs F(x) = x0^2 + 2*x1 as a graph of
// composed field cores, the central-difference worked example of
// spec.md §8 scenario S3.
func buildQuadraticField(r *region.Region) (*field.Field, error) {
	coords, err := field.New("coordinates", 2, nil, nil, field.NewCoordinates())
	if err != nil {
		return nil, err
	}
	x0, err := field.NewComponent("x0", coords, 0)
	if err != nil {
		return nil, err
	}
	x1, err := field.NewComponent("x1", coords, 1)
	if err != nil {
		return nil, err
	}
	x0Squared, err := field.NewMultiply("x0_squared", x0, x0)
	if err != nil {
		return nil, err
	}
	two, err := field.New("two", 1, nil, nil, field.NewConstant([]float64{2}))
	if err != nil {
		return nil, err
	}
	twoX1, err := field.NewMultiply("two_x1", two, x1)
	if err != nil {
		return nil, err
	}
	result, err := field.NewAdd("f", x0Squared, twoX1)
	if err != nil {
		return nil, err
	}
	for _, add := range []*field.Field{coords, x0, x1, x0Squared, two, twoX1, result} {
		if _, err := r.Fields().Add(add, add.Name()); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func createSquareElement(r *region.Region) (*mesh.Element, error) {
	template, err := mesh.NewElementTemplate(mesh.ShapeSquare, 4)
	if err != nil {
		return nil, err
	}
	return r.Mesh(2).CreateElement(1, template)
}
