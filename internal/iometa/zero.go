package iometa

import (
	"errors"
	"fmt"
	"io"
)

var (
	errInvalidWhence  = errors.New("invalid whence argument")
	errNegativeOffset = errors.New("negative seek offset")
)

// ZeroReader yields Size zero bytes and then io.EOF.
type ZeroReader struct {
	Size int64

	offset int64
}

func (r *ZeroReader) Read(buff []byte) (int, error) {
	if r.offset >= r.Size {
		return 0, io.EOF
	}

	bytesToWrite := int(min(int64(len(buff)), r.Size-r.offset))
	clear(buff[:bytesToWrite])

	r.offset += int64(bytesToWrite)

	if r.offset == r.Size {
		return bytesToWrite, io.EOF
	}

	return bytesToWrite, nil
}

func (r *ZeroReader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekCurrent:
		offset += r.offset
	case io.SeekEnd:
		offset += r.Size
	case io.SeekStart:
	default:
		return -1, errInvalidWhence
	}

	if offset < 0 {
		return -1, errNegativeOffset
	}
	r.offset = offset

	return r.offset, nil
}

func WriteZeros(w io.Writer, count int64) error {
	r := &ZeroReader{Size: count}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("failed to write zeros: %w", err)
	}

	return nil
}
