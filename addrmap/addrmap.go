// Package addrmap partitions a flat physical address space into equally
// sized, non-overlapping per-node regions.
package addrmap

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned when an allocation cannot be made without
// producing overlapping or negative ranges.
var ErrInvalidArgument = errors.New("invalid address allocation argument")

// AddressMap is the (base, stride, count) triple shared with the consuming
// simulator. Node i owns [Base+i*Stride, Base+(i+1)*Stride).
type AddressMap struct {
	Base   uint64 `yaml:"base"`
	Stride uint64 `yaml:"stride"`
	Count  int    `yaml:"count"`
}

// Range is a half-open address interval.
type Range struct {
	Start uint64
	End   uint64
}

// Allocate creates an address map with count regions of stride bytes each,
// starting at base.
func Allocate(base, stride int64, count int) (AddressMap, error) {
	switch {
	case base < 0:
		return AddressMap{}, fmt.Errorf("%w: base %d is negative",
			ErrInvalidArgument, base)
	case stride <= 0:
		return AddressMap{}, fmt.Errorf("%w: stride %d must be positive",
			ErrInvalidArgument, stride)
	case count < 1:
		return AddressMap{}, fmt.Errorf("%w: count %d must be at least 1",
			ErrInvalidArgument, count)
	}

	span := uint64(stride) * uint64(count)
	if span/uint64(count) != uint64(stride) ||
		uint64(base) > math.MaxUint64-span {
		return AddressMap{}, fmt.Errorf(
			"%w: %d regions of %d bytes from 0x%x overflow the address space",
			ErrInvalidArgument, count, stride, base)
	}

	return AddressMap{
		Base:   uint64(base),
		Stride: uint64(stride),
		Count:  count,
	}, nil
}

// Addr returns the base address of the given node.
func (m AddressMap) Addr(id int) uint64 {
	m.mustContain(id)

	return m.Base + uint64(id)*m.Stride
}

// Range returns the address interval owned by the given node.
func (m AddressMap) Range(id int) Range {
	start := m.Addr(id)

	return Range{Start: start, End: start + m.Stride}
}

// Ranges returns the intervals of all nodes in id order.
func (m AddressMap) Ranges() []Range {
	ranges := make([]Range, m.Count)
	for i := range ranges {
		ranges[i] = m.Range(i)
	}

	return ranges
}

// End returns the first address after the last region.
func (m AddressMap) End() uint64 {
	return m.Base + uint64(m.Count)*m.Stride
}

// Owner returns the node whose region holds addr.
func (m AddressMap) Owner(addr uint64) (int, bool) {
	if m.Stride == 0 || addr < m.Base || addr >= m.End() {
		return -1, false
	}

	return int((addr - m.Base) / m.Stride), true
}

// CheckFootprint reports an error if a region of footprint bytes does not fit
// into one stride. The allocator itself only guarantees spacing.
func (m AddressMap) CheckFootprint(footprint uint64) error {
	if footprint > m.Stride {
		return fmt.Errorf(
			"%w: per-node footprint %d bytes exceeds stride %d bytes",
			ErrInvalidArgument, footprint, m.Stride)
	}

	return nil
}

// Overlaps tells if two half-open ranges share at least one address.
func Overlaps(a, b Range) bool {
	return a.Start < b.End && b.Start < a.End
}

func (m AddressMap) mustContain(id int) {
	if id < 0 || id >= m.Count {
		panic(fmt.Sprintf("node %d out of address map range [0, %d)",
			id, m.Count))
	}
}
