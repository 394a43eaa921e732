// Package mesh implements the minimum element/basis/element-template/
// mesh-group surface the evaluation core needs to resolve element
// locations and parametric interpolation (spec.md §4.8).
package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FunctionType tags the basis function used along one chart coordinate
// of an element.
type FunctionType int

// The basis function tags spec.md §4.8 names.
const (
	Constant FunctionType = iota
	LinearLagrange
	QuadraticLagrange
	CubicLagrange
	LinearSimplex
	QuadraticSimplex
	CubicHermite
)

func (f FunctionType) String() string {
	switch f {
	case Constant:
		return "CONSTANT"
	case LinearLagrange:
		return "LINEAR_LAGRANGE"
	case QuadraticLagrange:
		return "QUADRATIC_LAGRANGE"
	case CubicLagrange:
		return "CUBIC_LAGRANGE"
	case LinearSimplex:
		return "LINEAR_SIMPLEX"
	case QuadraticSimplex:
		return "QUADRATIC_SIMPLEX"
	case CubicHermite:
		return "CUBIC_HERMITE"
	default:
		return fmt.Sprintf("FunctionType(%d)", int(f))
	}
}

func (f FunctionType) isSimplex() bool {
	return f == LinearSimplex || f == QuadraticSimplex
}

// nodesPerChart is the 1-D node count contributed by a basis function
// tag, used to derive a tensor-product basis's total node count.
func (f FunctionType) nodesPerChart() int {
	switch f {
	case Constant:
		return 1
	case LinearLagrange, LinearSimplex:
		return 2
	case QuadraticLagrange, QuadraticSimplex:
		return 3
	case CubicLagrange:
		return 4
	case CubicHermite:
		return 2 // value + derivative per node
	default:
		return 1
	}
}

// signature is the basis-signature key used to look up/create a shared
// Basis (spec.md: "a basis signature integer sequence").
type signature string

func signatureOf(tags []FunctionType) signature {
	s := make([]byte, 0, len(tags))
	for _, t := range tags {
		s = append(s, byte(t), ',')
	}
	return signature(s)
}

// Basis is an element basis: one FunctionType per chart coordinate,
// simplex chart coordinates of matching tag linked together. Bases are
// shared finite-element basis objects looked up or created from their
// signature, so two element templates that use the same tag sequence
// get back the identical *Basis.
type Basis struct {
	dimension int
	tags      []FunctionType
	// simplexGroup[i] is the index of the highest chart coordinate
	// sharing a simplex link with chart i, or -1 if i is not simplex.
	simplexGroup []int
}

// basisCache memoises Basis objects by signature so repeated requests
// for the same tag sequence return the same pointer, matching spec.md
// §4.8's "looked up/created from a basis signature".
var basisCache = map[signature]*Basis{}

// NewBasis validates tags and returns the (possibly shared) Basis for
// that signature. A lone simplex chart coordinate (simplex tag used on
// only one dimension of a multi-dimensional basis without a linked
// partner) is invalid per spec.md §4.8.
func NewBasis(tags []FunctionType) (*Basis, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("mesh: basis needs at least one chart coordinate")
	}
	if len(tags) > 3 {
		return nil, fmt.Errorf("mesh: basis dimension %d exceeds maximum of 3", len(tags))
	}
	sig := signatureOf(tags)
	if b, ok := basisCache[sig]; ok {
		return b, nil
	}

	group := make([]int, len(tags))
	for i := range group {
		group[i] = -1
	}
	for i, t := range tags {
		if !t.isSimplex() {
			continue
		}
		linked := false
		for j, u := range tags {
			if j == i || u != t {
				continue
			}
			linked = true
			if group[j] != -1 {
				group[i] = group[j]
			} else {
				group[i] = j
				group[j] = j
			}
		}
		if !linked {
			return nil, fmt.Errorf("mesh: simplex basis function on chart %d has no linked chart coordinate", i)
		}
	}
	// second pass resolves any group leader left at its own index to itself
	for i := range group {
		if tags[i].isSimplex() && group[i] == -1 {
			group[i] = i
		}
	}

	b := &Basis{dimension: len(tags), tags: append([]FunctionType(nil), tags...), simplexGroup: group}
	basisCache[sig] = b
	return b, nil
}

// Dimension returns the number of chart coordinates the basis is
// defined over.
func (b *Basis) Dimension() int { return b.dimension }

// FunctionType returns the basis function tag used on chart coordinate
// chart.
func (b *Basis) FunctionType(chart int) FunctionType { return b.tags[chart] }

// NumberOfNodes reports the number of local nodes the basis requires,
// by delegating to the underlying tensor-product (or simplex-linked)
// node count the way spec.md §4.8 describes.
func (b *Basis) NumberOfNodes() int {
	if b.isPureSimplex() {
		return simplexNodeCount(b.tags)
	}
	n := 1
	for _, t := range b.tags {
		n *= t.nodesPerChart()
	}
	return n
}

// NumberOfFunctions reports the number of basis (shape) functions,
// which for the variants implemented here equals the node count
// (no non-nodal interior functions).
func (b *Basis) NumberOfFunctions() int {
	return b.NumberOfNodes()
}

func (b *Basis) isPureSimplex() bool {
	for _, t := range b.tags {
		if !t.isSimplex() {
			return false
		}
	}
	return true
}

func simplexNodeCount(tags []FunctionType) int {
	// A d-simplex of linear order has d+1 nodes; quadratic adds the
	// edge midpoints: (d+1)(d+2)/2.
	d := len(tags)
	if tags[0] == QuadraticSimplex {
		return (d + 1) * (d + 2) / 2
	}
	return d + 1
}

// Evaluate computes the value of every basis (shape) function at the
// chart coordinates xi, returning a length-NumberOfFunctions vector.
// Only constant, linear and quadratic Lagrange and linear simplex are
// implemented; anything
// else returns an error rather than a silently wrong value, since the
// spec does not require a full interpolation library.
func (b *Basis) Evaluate(xi []float64) ([]float64, error) {
	if len(xi) != b.dimension {
		return nil, fmt.Errorf("mesh: basis expects %d chart coordinates, got %d", b.dimension, len(xi))
	}
	if b.isPureSimplex() {
		return b.evaluateSimplex(xi)
	}
	return b.evaluateTensorProduct(xi)
}

func (b *Basis) evaluateTensorProduct(xi []float64) ([]float64, error) {
	perChart := make([][]float64, b.dimension)
	for c, t := range b.tags {
		v, err := evaluate1D(t, xi[c])
		if err != nil {
			return nil, err
		}
		perChart[c] = v
	}
	// Tensor product: outer product of per-chart vectors, matrix-vector
	// style via gonum for anything beyond 1-D so the dependency is
	// genuinely exercised rather than decorative.
	result := perChart[0]
	for c := 1; c < len(perChart); c++ {
		result = outerFlatten(result, perChart[c])
	}
	return result, nil
}

// outerFlatten returns the flattened outer product a (x) b using a
// gonum dense matrix as the product's storage.
func outerFlatten(a, b []float64) []float64 {
	m := mat.NewDense(len(a), len(b), nil)
	m.Outer(1, mat.NewVecDense(len(a), a), mat.NewVecDense(len(b), b))
	out := make([]float64, 0, len(a)*len(b))
	for i := 0; i < len(a); i++ {
		out = append(out, mat.Row(nil, i, m)...)
	}
	return out
}

func evaluate1D(t FunctionType, xi float64) ([]float64, error) {
	switch t {
	case Constant:
		return []float64{1}, nil
	case LinearLagrange:
		return []float64{1 - xi, xi}, nil
	case QuadraticLagrange:
		return []float64{
			2 * (xi - 0.5) * (xi - 1),
			4 * xi * (1 - xi),
			2 * xi * (xi - 0.5),
		}, nil
	default:
		return nil, fmt.Errorf("mesh: basis function %s evaluation is not implemented", t)
	}
}

func (b *Basis) evaluateSimplex(xi []float64) ([]float64, error) {
	if b.tags[0] != LinearSimplex {
		return nil, fmt.Errorf("mesh: simplex basis function %s evaluation is not implemented", b.tags[0])
	}
	sum := 0.0
	for _, x := range xi {
		sum += x
	}
	out := make([]float64, 0, len(xi)+1)
	out = append(out, 1-sum)
	out = append(out, xi...)
	return out, nil
}
