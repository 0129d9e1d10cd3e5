package iometa

import (
	"io"

	"github.com/davejbax/align"
)

// CountingWriter tracks the offset of the next byte written through it,
// so that callers can pad their output to alignment boundaries.
type CountingWriter struct {
	Writer io.Writer

	offset int64
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	c.offset += int64(n)

	return n, err
}

// BytesWritten is the number of bytes successfully passed to Writer.
func (c *CountingWriter) BytesWritten() int64 {
	return c.offset
}

// PadTo writes zeros until the byte count is a multiple of alignment, which
// must be a power of two.
func (c *CountingWriter) PadTo(alignment uint64) error {
	padding := align.Padding(uint64(c.offset), alignment)
	if padding == 0 {
		return nil
	}

	return WriteZeros(c, int64(padding))
}
