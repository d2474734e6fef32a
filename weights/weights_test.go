package weights_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/meshgen/weights"
)

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--

	return len(p), nil
}

var _ = Describe("Serialize", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	DescribeTable("should write exactly 4*rows*cols bytes",
		func(rows, cols int, fill float32) {
			path := filepath.Join(dir, "w.bin")

			n, err := weights.Serialize(path, rows, cols, fill)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(4 * rows * cols)))

			info, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Size()).To(Equal(int64(4 * rows * cols)))

			values, err := weights.Read(path, rows, cols)
			Expect(err).NotTo(HaveOccurred())
			Expect(values).To(HaveLen(rows * cols))
			for _, v := range values {
				Expect(v).To(Equal(fill))
			}
		},
		Entry("one element", 1, 1, float32(0.5)),
		Entry("4x4 node", 16, 256, float32(1.0)),
		Entry("negative fill", 3, 7, float32(-2.25)),
	)

	It("should use little-endian IEEE-754 records", func() {
		buf := new(bytes.Buffer)

		n, err := weights.WriteFill(buf, 1, 2, 1.0)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(8)))
		Expect(buf.Bytes()).To(Equal([]byte{
			0x00, 0x00, 0x80, 0x3f,
			0x00, 0x00, 0x80, 0x3f,
		}))
	})

	It("should be byte-identical across runs", func() {
		a := filepath.Join(dir, "a.bin")
		b := filepath.Join(dir, "b.bin")

		_, err := weights.Serialize(a, 4, 9, 0.125)
		Expect(err).NotTo(HaveOccurred())
		_, err = weights.Serialize(b, 4, 9, 0.125)
		Expect(err).NotTo(HaveOccurred())

		da, _ := os.ReadFile(a)
		db, _ := os.ReadFile(b)
		Expect(da).To(Equal(db))
	})

	It("should leave no file behind on an invalid shape", func() {
		path := filepath.Join(dir, "w.bin")

		_, err := weights.Serialize(path, 0, 4, 1)

		Expect(err).To(MatchError(weights.ErrInvalidShape))
		entries, _ := os.ReadDir(dir)
		Expect(entries).To(BeEmpty())
	})

	It("should propagate I/O failures", func() {
		_, err := weights.Serialize(
			filepath.Join(dir, "missing", "w.bin"), 2, 2, 1)
		Expect(err).To(HaveOccurred())

		_, err = weights.WriteFill(&failingWriter{}, 2048, 2048, 1)
		Expect(err).To(MatchError("disk full"))
	})

	It("should reject files of the wrong length", func() {
		path := filepath.Join(dir, "w.bin")
		_, err := weights.Serialize(path, 2, 2, 1)
		Expect(err).NotTo(HaveOccurred())

		_, err = weights.Read(path, 2, 3)
		Expect(err).To(MatchError(weights.ErrLength))

		Expect(os.WriteFile(path, []byte{1, 2, 3}, 0o644)).To(Succeed())
		_, err = weights.Read(path, 1, 1)
		Expect(err).To(MatchError(weights.ErrLength))
	})
})
