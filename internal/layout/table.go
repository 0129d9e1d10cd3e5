package layout

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/davejbax/align"
	"github.com/davejbax/align/internal/iometa"
	"github.com/lunixbochs/struc"
)

const (
	tableVersion = 1

	// Longest section name that fits in a table entry
	MaxTableNameLength = 24

	// The table as a whole is padded to this
	tableAlignment = 16
)

var (
	// ALGN
	tableMagic = []byte{0x41, 0x4C, 0x47, 0x4E}

	errNameTooLong       = errors.New("section name too long for section table")
	errTooManySections   = errors.New("too many sections for section table")
	errBadTableMagic     = errors.New("not a section table")
	errBadTableVersion   = errors.New("unsupported section table version")
	errTableShortPadding = errors.New("section table padding is truncated")
	errEntriesOverlap    = errors.New("section table entries overlap")
)

type tableHeader struct {
	Magic   []byte `struc:"[4]uint8"`
	Version uint16
	Count   uint16
	Base    uint64
	End     uint64
}

type tableEntry struct {
	Name      []byte `struc:"[24]uint8"`
	Offset    uint64
	Size      uint64
	Alignment uint64
}

var structOptions = &struc.Options{Order: binary.LittleEndian}

// WriteTo encodes the plan as a little-endian section table: a header
// followed by one fixed-size entry per placement, zero padded to a 16 byte
// boundary.
func (p *Plan) WriteTo(w io.Writer) (int64, error) {
	if len(p.Placements) > math.MaxUint16 {
		return 0, errTooManySections
	}

	cw := &iometa.CountingWriter{Writer: w}

	header := &tableHeader{
		Magic:   tableMagic,
		Version: tableVersion,
		Count:   uint16(len(p.Placements)),
		Base:    p.Base,
		End:     p.End,
	}

	if err := struc.PackWithOptions(cw, header, structOptions); err != nil {
		return cw.BytesWritten(), fmt.Errorf("failed to write section table header: %w", err)
	}

	for _, placement := range p.Placements {
		if len(placement.Name) > MaxTableNameLength {
			return cw.BytesWritten(), fmt.Errorf("section '%s': %w", placement.Name, errNameTooLong)
		}

		name := make([]byte, MaxTableNameLength)
		copy(name, placement.Name)

		entry := &tableEntry{
			Name:      name,
			Offset:    placement.Offset,
			Size:      placement.Size,
			Alignment: placement.Alignment,
		}

		if err := struc.PackWithOptions(cw, entry, structOptions); err != nil {
			return cw.BytesWritten(), fmt.Errorf("failed to write entry for section '%s': %w", placement.Name, err)
		}
	}

	if err := cw.PadTo(tableAlignment); err != nil {
		return cw.BytesWritten(), fmt.Errorf("failed to pad section table: %w", err)
	}

	return cw.BytesWritten(), nil
}

// ReadTable decodes a section table written by [Plan.WriteTo]. Padding is
// not recorded in the table and is recomputed from consecutive entries.
func ReadTable(r io.Reader) (*Plan, error) {
	cr := &countingReader{reader: r}

	header := &tableHeader{}
	if err := struc.UnpackWithOptions(cr, header, structOptions); err != nil {
		return nil, fmt.Errorf("failed to read section table header: %w", err)
	}

	if !bytes.Equal(header.Magic, tableMagic) {
		return nil, errBadTableMagic
	}

	if header.Version != tableVersion {
		return nil, fmt.Errorf("version %d: %w", header.Version, errBadTableVersion)
	}

	plan := &Plan{
		Base:       header.Base,
		End:        header.End,
		Placements: make([]Placement, 0, header.Count),
	}

	cursor := header.Base

	for i := 0; i < int(header.Count); i++ {
		entry := &tableEntry{}
		if err := struc.UnpackWithOptions(cr, entry, structOptions); err != nil {
			return nil, fmt.Errorf("failed to read section table entry %d: %w", i, err)
		}

		name := string(bytes.TrimRight(entry.Name, "\x00"))

		if entry.Offset < cursor {
			return nil, fmt.Errorf("entry %d '%s' at %#x starts before %#x: %w", i, name, entry.Offset, cursor, errEntriesOverlap)
		}

		if entry.Offset+entry.Size < entry.Offset {
			return nil, fmt.Errorf("entry %d '%s': %w", i, name, ErrAddressOverflow)
		}

		plan.Placements = append(plan.Placements, Placement{
			Name:      name,
			Offset:    entry.Offset,
			Size:      entry.Size,
			Alignment: entry.Alignment,
			Padding:   entry.Offset - cursor,
		})

		cursor = entry.Offset + entry.Size
	}

	if padding := align.Padding(uint64(cr.read), tableAlignment); padding > 0 {
		if _, err := io.CopyN(io.Discard, cr, int64(padding)); err != nil {
			return nil, fmt.Errorf("%w: %w", errTableShortPadding, err)
		}
	}

	return plan, nil
}

type countingReader struct {
	reader io.Reader
	read   int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.read += int64(n)

	return n, err
}
