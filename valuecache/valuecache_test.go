package valuecache_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sarchlab/zincfield/fieldderivative"
	"github.com/sarchlab/zincfield/valuecache"
)

func TestRealVectorCacheValidity(t *testing.T) {
	c := valuecache.NewRealVectorCache(2)
	if c.Valid(1) {
		t.Fatal("freshly created cache must be invalid")
	}
	if err := c.SetValue([]float64{1, 2}, 5); err != nil {
		t.Fatal(err)
	}
	if !c.Valid(5) {
		t.Fatal("cache must be valid at the stamp it was set with")
	}
	if c.Valid(6) {
		t.Fatal("cache must be invalid at a different stamp")
	}
	c.Invalidate()
	if c.Valid(5) {
		t.Fatal("cache must be invalid after Invalidate")
	}
}

func TestRealVectorCacheSetValueWrongLength(t *testing.T) {
	c := valuecache.NewRealVectorCache(2)
	if err := c.SetValue([]float64{1}, 1); err == nil {
		t.Fatal("expected an error for a mismatched component count")
	}
}

func TestRealVectorCacheNeverValidAtInvalidStamp(t *testing.T) {
	c := valuecache.NewRealVectorCache(1)
	if err := c.SetValue([]float64{1}, valuecache.Invalid); err != nil {
		t.Fatal(err)
	}
	if c.Valid(valuecache.Invalid) {
		t.Fatal("a cache set at the sentinel stamp must never read valid")
	}
}

func TestRealVectorCacheInvalidatesDerivativeSubCaches(t *testing.T) {
	c := valuecache.NewRealVectorCache(1)
	fd := &fieldderivative.FieldDerivative{}
	dc := c.Derivative(fd, 1, []int{2})
	if err := dc.SetValues([]float64{1, 2}, 3); err != nil {
		t.Fatal(err)
	}
	if !dc.Valid(3) {
		t.Fatal("derivative sub-cache must be valid after SetValues")
	}
	c.Invalidate()
	if dc.Valid(3) {
		t.Fatal("invalidating the owning real-vector cache must invalidate its derivative sub-caches")
	}
}

func TestRealVectorCacheDerivativeIsMemoizedByDescriptor(t *testing.T) {
	c := valuecache.NewRealVectorCache(1)
	fd := &fieldderivative.FieldDerivative{}
	first := c.Derivative(fd, 1, []int{2})
	second := c.Derivative(fd, 1, []int{2})
	if first != second {
		t.Fatal("requesting the same descriptor twice must return the same sub-cache")
	}
}

func TestDerivativeCacheIndexLayout(t *testing.T) {
	// 3 components x 2 x 2, d2 innermost (spec.md's S6 layout).
	c := valuecache.NewRealVectorCache(3)
	dc := c.Derivative(&fieldderivative.FieldDerivative{}, 3, []int{2, 2})
	if dc.Len() != 12 {
		t.Fatalf("Len() = %d, want 12", dc.Len())
	}

	idx, err := dc.Index(2, []int{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := (2*2+1)*2 + 0
	if idx != want {
		t.Fatalf("Index(2, [1,0]) = %d, want %d", idx, want)
	}

	if _, err := dc.Index(0, []int{2, 0}); err == nil {
		t.Fatal("expected an out-of-range term index to error")
	}
	if _, err := dc.Index(0, []int{0}); err == nil {
		t.Fatal("expected a mismatched term-index count to error")
	}
}

func TestStringCacheValidity(t *testing.T) {
	c := valuecache.NewStringCache()
	if c.Valid(1) {
		t.Fatal("freshly created cache must be invalid")
	}
	c.SetValue("hello", 1)
	if c.Value() != "hello" || !c.Valid(1) {
		t.Fatalf("got %q valid=%v, want hello valid=true", c.Value(), c.Valid(1))
	}
	c.Invalidate()
	if c.Valid(1) {
		t.Fatal("cache must be invalid after Invalidate")
	}
}

func TestMeshLocationCacheValidity(t *testing.T) {
	c := valuecache.NewMeshLocationCache()
	loc := valuecache.MeshLocation{ElementIdentifier: 7, ElementDimension: 2, Xi: []float64{0.25, 0.75}}
	c.SetValue(loc, 4)
	if !c.Valid(4) {
		t.Fatal("cache must be valid at the stamp it was set with")
	}
	if diff := cmp.Diff(loc, c.Value()); diff != "" {
		t.Fatalf("Value() mismatch (-want +got):\n%s", diff)
	}
}
