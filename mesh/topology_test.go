package mesh_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/meshgen/mesh"
)

var _ = Describe("Topology", func() {
	Context("4x4 mesh", func() {
		var topo *mesh.Topology

		BeforeEach(func() {
			var err error
			topo, err = mesh.Build(4)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should derive coordinates from ids", func() {
			x, y := topo.Coord(5)
			Expect(x).To(Equal(1))
			Expect(y).To(Equal(1))
			Expect(topo.ID(3, 2)).To(Equal(11))
			Expect(topo.ShapeString()).To(Equal("4x4"))
		})

		It("should find all neighbors of an inner node", func() {
			Expect(topo.Neighbors(5)).To(Equal(map[mesh.Direction]int{
				mesh.East:      6,
				mesh.West:      4,
				mesh.South:     9,
				mesh.North:     1,
				mesh.SouthEast: 10,
			}))
		})

		It("should not wire past the right edge", func() {
			_, ok := topo.Neighbor(3, mesh.East)
			Expect(ok).To(BeFalse())
			_, ok = topo.Neighbor(3, mesh.SouthEast)
			Expect(ok).To(BeFalse())

			south, ok := topo.Neighbor(3, mesh.South)
			Expect(ok).To(BeTrue())
			Expect(south).To(Equal(7))
		})

		It("should not wire past the bottom-right corner", func() {
			n := topo.Neighbors(15)
			Expect(n).NotTo(HaveKey(mesh.South))
			Expect(n).NotTo(HaveKey(mesh.East))
			Expect(n).NotTo(HaveKey(mesh.SouthEast))
			Expect(n).To(HaveKeyWithValue(mesh.West, 14))
			Expect(n).To(HaveKeyWithValue(mesh.North, 11))
		})

		It("should not wire past the bottom row", func() {
			_, ok := topo.Neighbor(13, mesh.SouthEast)
			Expect(ok).To(BeFalse())
			east, ok := topo.Neighbor(13, mesh.East)
			Expect(ok).To(BeTrue())
			Expect(east).To(Equal(14))
		})

		It("should order edges horizontal first", func() {
			edges := topo.Edges()

			Expect(edges).To(HaveLen(24))
			Expect(edges[0]).To(Equal(mesh.Edge{
				A: 0, B: 1, Axis: mesh.Horizontal,
				PortA: mesh.PortEast, PortB: mesh.PortWest,
			}))
			Expect(edges[12]).To(Equal(mesh.Edge{
				A: 0, B: 4, Axis: mesh.Vertical,
				PortA: mesh.PortSouth, PortB: mesh.PortNorth,
			}))
			Expect(edges[0].LinkName()).To(Equal("router_east_0_to_1"))
			Expect(edges[12].LinkName()).To(Equal("router_south_0_to_4"))
		})
	})

	DescribeTable("should keep the mesh symmetric",
		func(size int) {
			topo, err := mesh.Build(size)
			Expect(err).NotTo(HaveOccurred())

			for a := 0; a < topo.NumNodes(); a++ {
				if b, ok := topo.Neighbor(a, mesh.East); ok {
					west, ok := topo.Neighbor(b, mesh.West)
					Expect(ok).To(BeTrue())
					Expect(west).To(Equal(a))
				}
				if b, ok := topo.Neighbor(a, mesh.South); ok {
					north, ok := topo.Neighbor(b, mesh.North)
					Expect(ok).To(BeTrue())
					Expect(north).To(Equal(a))
				}
			}

			Expect(topo.Edges()).To(HaveLen(2 * size * (size - 1)))
		},
		Entry("2x2", 2),
		Entry("3x3", 3),
		Entry("4x4", 4),
		Entry("7x7", 7),
	)

	It("should never reuse a port on one router", func() {
		topo, _ := mesh.Build(5)

		used := make(map[[2]int]bool)
		for _, e := range topo.Edges() {
			for _, end := range [][2]int{
				{e.A, int(e.PortA)},
				{e.B, int(e.PortB)},
			} {
				Expect(used).NotTo(HaveKey(end))
				used[end] = true
				Expect(mesh.Port(end[1])).NotTo(Equal(mesh.PortLocal))
			}
		}
	})

	It("should treat a single node as a degenerate mesh", func() {
		topo, err := mesh.Build(1)

		Expect(err).NotTo(HaveOccurred())
		Expect(topo.NumNodes()).To(Equal(1))
		Expect(topo.Edges()).To(BeEmpty())
		Expect(topo.Neighbors(0)).To(BeEmpty())
	})

	It("should reject non-positive sizes", func() {
		_, err := mesh.Build(0)
		Expect(err).To(MatchError(mesh.ErrInvalidSize))

		_, err = mesh.Build(-3)
		Expect(err).To(MatchError(mesh.ErrInvalidSize))
	})

	It("should name ports and directions", func() {
		Expect(mesh.PortEast.Name()).To(Equal("port0"))
		Expect(mesh.PortLocal.Name()).To(Equal("port4"))
		Expect(mesh.PortOf(mesh.North)).To(Equal(mesh.PortNorth))
		Expect(mesh.SouthEast.Name()).To(Equal("SouthEast"))
		Expect(func() { mesh.PortOf(mesh.SouthEast) }).To(Panic())
	})
})
