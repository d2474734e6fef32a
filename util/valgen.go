// Package valgen holds closures that generate per-neuron random seeds.
package valgen

// SeedFunc derives the seed of a neuron's random stream. It must be a pure
// function of its arguments so that nodes can be generated in any order.
type SeedFunc func(nodeID, neuronID int) int64

// MakeOffsetSeed seeds every neuron with base + neuronID, independent of the
// node that generates it.
func MakeOffsetSeed(base int64) SeedFunc {
	return func(_, neuronID int) int64 {
		return base + int64(neuronID)
	}
}

// MakeConstSeed seeds every neuron with the same value.
func MakeConstSeed(constant int64) SeedFunc {
	return func(int, int) int64 {
		return constant
	}
}

// MakeNodeScopedSeed gives the same neuron a different stream in every node
// that stimulates it.
func MakeNodeScopedSeed(base, nodeStride int64) SeedFunc {
	return func(nodeID, neuronID int) int64 {
		return base + int64(nodeID)*nodeStride + int64(neuronID)
	}
}
