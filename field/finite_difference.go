package field

import (
	"gonum.org/v1/gonum/floats"

	"github.com/sarchlab/zincfield/fieldcache"
	"github.com/sarchlab/zincfield/fieldderivative"
	"github.com/sarchlab/zincfield/fieldparams"
	"github.com/sarchlab/zincfield/message"
	"github.com/sarchlab/zincfield/mesh"
)

// meshChartStep is the fixed central-difference step applied to mesh
// chart coordinates (spec.md §4.6); field-parameter derivatives use
// the owning fieldparams.Parameters' own configurable delta instead.
const meshChartStep = 1e-5

// workingCache is the reusable fieldcache.Cache a field's real-vector
// cache stores in its ExtraCache slot so repeated derivative
// evaluations at the same location do not allocate a fresh one every
// time (spec.md §4.6, §9's "reusable working fieldcache" note).
type workingCache struct {
	cache *fieldcache.Cache
}

func workingCacheFor(f *Field, cache *fieldcache.Cache) *fieldcache.Cache {
	vc := cache.RealSlot(f.cacheIndex, f.componentCount)
	work, ok := vc.ExtraCache.(*workingCache)
	if !ok {
		work = &workingCache{cache: fieldcache.New(cache.Region())}
		vc.ExtraCache = work
	}
	// spec.md §4.6 step 3: the working cache's time tracks the source
	// cache's, even though no shipped core reads it yet.
	work.cache.SetTime(cache.Time())
	return work.cache
}

// syncWorkingLocation copies loc onto work, so a core whose Evaluate
// reads the current node/element (e.g. NodeValueCore) sees the same
// location the source cache holds. centralDifferenceMesh overwrites
// this per recursion level via SetElementXi; centralDifferenceParam
// never perturbs xi at all, so this is the only place its working
// cache's location gets set.
func syncWorkingLocation(work *fieldcache.Cache, loc fieldcache.Location) {
	switch loc.Kind {
	case fieldcache.LocationElementXi:
		// Error only on a dimension mismatch, which cannot happen here
		// since loc came from a cache already holding this element.
		_ = work.SetElementXi(loc.Element, loc.Xi)
	case fieldcache.LocationNode:
		if loc.HostElement != nil {
			work.SetNodeWithHostElement(loc.Node, loc.HostElement, loc.HostXi)
		} else {
			work.SetNode(loc.Node)
		}
	}
}

// evaluateDerivativeDefault is the default derivative evaluator used
// when a field's core does not implement AnalyticDerivative: central
// finite differences over fd's chain of directions (spec.md §4.6).
//
// A field derivative's chain differentiates repeatedly with respect to
// the same direction space (a mesh's chart coordinates, or a
// fieldparams.Parameters' parameters); order n produces a tensor with
// n direction indices, laid out row-major with the most recently
// applied direction innermost (scenario S6).
func evaluateDerivativeDefault(f *Field, cache *fieldcache.Cache, fd *fieldderivative.FieldDerivative) error {
	element, xi, err := cache.Location().ResolveElementXi()
	if err != nil {
		return message.New(message.General, "finite difference: %v", err)
	}

	order := fd.Order()
	work := workingCacheFor(f, cache)
	syncWorkingLocation(work, cache.Location())

	var outerCount int
	var result []float64

	if fd.Mesh() != nil {
		outerCount = fd.MeshTermCount()
		result, err = centralDifferenceMesh(f, work, element, xi, order, outerCount)
	} else if fd.Parameters() != nil {
		outerCount = fd.ParameterTermCount(element.Identifier())
		if order > 1 {
			return message.New(message.General, "finite difference: parameter derivatives above first order are not supported; supply an analytic derivative for field %q", f.name)
		}
		result, err = centralDifferenceParam(f, work, fd.Parameters(), element.Identifier(), outerCount)
	} else {
		return message.New(message.General, "finite difference: derivative has neither a mesh nor a parameters direction")
	}
	if err != nil {
		return err
	}

	termCounts := make([]int, order)
	for i := range termCounts {
		termCounts[i] = outerCount
	}
	return f.SetDerivative(cache, fd, termCounts, result)
}

// centralDifferenceMesh computes the order-th mesh-chart derivative
// tensor of f at baseXi by recursing on order: the order-0 case is
// f's own value, and each level differentiates the (order-1)-th
// tensor with respect to one more chart direction, accumulating the
// perturbation into a single combined xi offset.
func centralDifferenceMesh(f *Field, work *fieldcache.Cache, element *mesh.Element, baseXi []float64, order, outerCount int) ([]float64, error) {
	if order == 0 {
		if err := work.SetElementXi(element, baseXi); err != nil {
			return nil, message.New(message.General, "finite difference: %v", err)
		}
		values, err := f.EvaluateReal(work)
		if err != nil {
			return nil, err
		}
		return append([]float64(nil), values...), nil
	}

	lowerSize := f.componentCount
	for i := 0; i < order-1; i++ {
		lowerSize *= outerCount
	}
	out := make([]float64, lowerSize*outerCount)
	diff := make([]float64, lowerSize)

	for d := 0; d < outerCount; d++ {
		plusXi := append([]float64(nil), baseXi...)
		plusXi[d] += meshChartStep
		plus, err := centralDifferenceMesh(f, work, element, plusXi, order-1, outerCount)
		if err != nil {
			return nil, err
		}

		minusXi := append([]float64(nil), baseXi...)
		minusXi[d] -= meshChartStep
		minus, err := centralDifferenceMesh(f, work, element, minusXi, order-1, outerCount)
		if err != nil {
			return nil, err
		}

		floats.SubTo(diff, plus, minus)
		floats.Scale(1/(2*meshChartStep), diff)
		for i := 0; i < lowerSize; i++ {
			out[i*outerCount+d] = diff[i]
		}
	}
	return out, nil
}

// centralDifferenceParam computes the first-order field-parameter
// derivative tensor of f, perturbing one parameter index at a time.
// Because fieldparams.Parameters tracks a single active perturbation,
// a work cache's value-cache slot must be invalidated explicitly
// around each call: the cache's location stamp does not change when
// only a parameter is perturbed.
func centralDifferenceParam(f *Field, work *fieldcache.Cache, params *fieldparams.Parameters, elementID, outerCount int) ([]float64, error) {
	work.SetParameters(params)
	out := make([]float64, f.componentCount*outerCount)
	diff := make([]float64, f.componentCount)
	delta := params.Delta()

	evaluateAt := func(sign float64) ([]float64, error) {
		work.InvalidateSlot(f.cacheIndex)
		values, err := f.EvaluateReal(work)
		if err != nil {
			return nil, err
		}
		return append([]float64(nil), values...), nil
	}

	for d := 0; d < outerCount; d++ {
		if err := params.Perturb(elementID, d, delta); err != nil {
			return nil, message.New(message.General, "finite difference: %v", err)
		}
		plus, err := evaluateAt(1)
		params.Unperturb()
		if err != nil {
			return nil, err
		}

		if err := params.Perturb(elementID, d, -delta); err != nil {
			return nil, message.New(message.General, "finite difference: %v", err)
		}
		minus, err := evaluateAt(-1)
		params.Unperturb()
		if err != nil {
			return nil, err
		}

		floats.SubTo(diff, plus, minus)
		floats.Scale(1/(2*delta), diff)
		for c := 0; c < f.componentCount; c++ {
			out[c*outerCount+d] = diff[c]
		}
	}
	return out, nil
}
