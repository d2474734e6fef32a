// Package weights serializes dense weight matrices in the raw binary layout
// the weight loader consumes: rows*cols IEEE-754 single precision values,
// row-major, little-endian, with no header, delimiter or padding.
package weights

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/xid"
)

// ElemSize is the size of one serialized weight in bytes.
const ElemSize = 4

// ByteOrder is the byte order of serialized weights on every platform.
var ByteOrder = binary.LittleEndian

// ErrInvalidShape is returned for matrices with a non-positive dimension.
var ErrInvalidShape = errors.New("invalid weight matrix shape")

// ErrLength is returned when a weight file does not hold exactly the
// expected number of records.
var ErrLength = errors.New("weight file length mismatch")

// Size returns the serialized size of a rows×cols matrix.
func Size(rows, cols int) int64 {
	return int64(rows) * int64(cols) * ElemSize
}

// Serialize writes a rows×cols matrix filled with fill to path and returns
// the number of bytes written. The matrix is written to a temporary file in
// the same directory and renamed over path once complete, so path either
// keeps its previous content or holds the whole matrix.
func Serialize(path string, rows, cols int, fill float32) (int64, error) {
	if rows < 1 || cols < 1 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}

	tmp := filepath.Join(filepath.Dir(path),
		"."+filepath.Base(path)+".tmp-"+xid.New().String())

	n, err := writeFill(tmp, rows, cols, fill)
	if err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, err
	}

	return n, nil
}

func writeFill(path string, rows, cols int, fill float32) (n int64, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	n, err = WriteFill(f, rows, cols, fill)
	if err != nil {
		return n, err
	}

	return n, f.Sync()
}

// WriteFill streams a rows×cols matrix filled with fill to w.
func WriteFill(w io.Writer, rows, cols int, fill float32) (int64, error) {
	if rows < 1 || cols < 1 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}

	var rec [ElemSize]byte
	ByteOrder.PutUint32(rec[:], math.Float32bits(fill))

	bw := bufio.NewWriter(w)

	var n int64
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m, err := bw.Write(rec[:])
			n += int64(m)
			if err != nil {
				return n, err
			}
		}
	}

	return n, bw.Flush()
}

// Read loads a rows×cols matrix from path the way the weight loader derives
// it: shape comes from the configured dimensions, and the file length must
// match them exactly.
func Read(path string, rows, cols int) ([]float32, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(data)%ElemSize != 0 {
		return nil, fmt.Errorf("%w: %s holds %d bytes, not a whole number of records",
			ErrLength, path, len(data))
	}

	if int64(len(data)) != Size(rows, cols) {
		return nil, fmt.Errorf("%w: %s holds %d bytes, expected %d for %dx%d",
			ErrLength, path, len(data), Size(rows, cols), rows, cols)
	}

	out := make([]float32, rows*cols)
	for i := range out {
		out[i] = math.Float32frombits(ByteOrder.Uint32(data[i*ElemSize:]))
	}

	return out, nil
}
