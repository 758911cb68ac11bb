package test

import (
	sparsearr "github.com/clabby/sparse-arr-lib"
)

// CollectValues collects values available in the array, in logical order.
func CollectValues[V comparable](a *sparsearr.Array[V]) []V {
	values := []V{}
	for _, v := range a.Iterator() {
		values = append(values, v)
	}
	return values
}

// CollectIndexes collects logical indexes available in the array.
func CollectIndexes[V comparable](a *sparsearr.Array[V]) []uint64 {
	indexes := []uint64{}
	for i := range a.Iterator() {
		indexes = append(indexes, i)
	}
	return indexes
}
