package addrmap_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/meshgen/addrmap"
)

var _ = Describe("Allocate", func() {
	It("should place nodes on an arithmetic progression", func() {
		m, err := addrmap.Allocate(0x10000000, 32768, 16)

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Addr(0)).To(Equal(uint64(0x10000000)))
		Expect(m.Addr(1)).To(Equal(uint64(0x10008000)))
		Expect(m.Addr(15)).To(Equal(uint64(0x10000000 + 15*32768)))
		Expect(m.End()).To(Equal(uint64(0x10000000 + 16*32768)))
	})

	DescribeTable("should keep every pair of ranges disjoint",
		func(base, stride int64, count int) {
			m, err := addrmap.Allocate(base, stride, count)
			Expect(err).NotTo(HaveOccurred())

			ranges := m.Ranges()
			Expect(ranges).To(HaveLen(count))
			for i := range ranges {
				for j := range ranges {
					if i == j {
						continue
					}
					Expect(m.Addr(i)).NotTo(Equal(m.Addr(j)))
					Expect(addrmap.Overlaps(ranges[i], ranges[j])).To(BeFalse())
				}
			}
		},
		Entry("single node", int64(0), int64(1), 1),
		Entry("unit stride", int64(7), int64(1), 9),
		Entry("4x4 weights", int64(0x10000000), int64(32768), 16),
		Entry("odd stride", int64(3), int64(4097), 25),
	)

	DescribeTable("should fail fast on invalid arguments",
		func(base, stride int64, count int) {
			_, err := addrmap.Allocate(base, stride, count)
			Expect(err).To(MatchError(addrmap.ErrInvalidArgument))
		},
		Entry("zero stride", int64(0), int64(0), 4),
		Entry("negative stride", int64(0), int64(-8), 4),
		Entry("zero count", int64(0), int64(8), 0),
		Entry("negative count", int64(0), int64(8), -1),
		Entry("negative base", int64(-1), int64(8), 4),
		Entry("overflow", int64(math.MaxInt64), int64(math.MaxInt64), 4),
	)

	It("should find the owner of an address", func() {
		m, _ := addrmap.Allocate(100, 10, 3)

		id, ok := m.Owner(100)
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(0))

		id, ok = m.Owner(129)
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(2))

		_, ok = m.Owner(99)
		Expect(ok).To(BeFalse())
		_, ok = m.Owner(130)
		Expect(ok).To(BeFalse())
	})

	It("should check the footprint against the stride", func() {
		m, _ := addrmap.Allocate(0, 32768, 16)

		Expect(m.CheckFootprint(16 * 256 * 4)).To(Succeed())
		Expect(m.CheckFootprint(32768)).To(Succeed())
		Expect(m.CheckFootprint(32769)).
			To(MatchError(addrmap.ErrInvalidArgument))
	})

	It("should panic on an out-of-range node", func() {
		m, _ := addrmap.Allocate(0, 8, 2)

		Expect(func() { m.Addr(2) }).To(Panic())
		Expect(func() { m.Addr(-1) }).To(Panic())
	})
})
