package layout

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTableRoundTrip(t *testing.T) {
	plan := testPlan()
	buff := &bytes.Buffer{}

	written, err := plan.WriteTo(buff)
	if err != nil {
		t.Fatal(err)
	}

	// 24 byte header, 4 entries of 48 bytes, padded to 16
	if written != 224 || buff.Len() != 224 {
		t.Fatalf("WriteTo() wrote %d (buffer %d) bytes, want 224", written, buff.Len())
	}

	raw := buff.Bytes()
	if !bytes.Equal(raw[:4], []byte("ALGN")) {
		t.Errorf("magic = %q, want ALGN", raw[:4])
	}

	if count := binary.LittleEndian.Uint16(raw[6:8]); count != 4 {
		t.Errorf("count = %d, want 4", count)
	}

	if offset := binary.LittleEndian.Uint64(raw[24+48+24 : 24+48+32]); offset != 0x3350 {
		t.Errorf("second entry offset = %#x, want 0x3350", offset)
	}

	decoded, err := ReadTable(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(plan, decoded); diff != "" {
		t.Errorf("decoded plan mismatch (-want +got):\n%s", diff)
	}
}

func TestTableNameTooLong(t *testing.T) {
	plan := &Plan{Placements: []Placement{{Name: strings.Repeat("x", MaxTableNameLength+1)}}}

	if _, err := plan.WriteTo(&bytes.Buffer{}); !errors.Is(err, errNameTooLong) {
		t.Errorf("WriteTo() error = %v, want %v", err, errNameTooLong)
	}
}

func TestReadTableBadMagic(t *testing.T) {
	raw := make([]byte, 32)
	copy(raw, "ELF!")

	if _, err := ReadTable(bytes.NewReader(raw)); !errors.Is(err, errBadTableMagic) {
		t.Errorf("ReadTable() error = %v, want %v", err, errBadTableMagic)
	}
}

func TestReadTableTruncatedPadding(t *testing.T) {
	buff := &bytes.Buffer{}
	if _, err := testPlan().WriteTo(buff); err != nil {
		t.Fatal(err)
	}

	truncated := buff.Bytes()[:buff.Len()-4]
	if _, err := ReadTable(bytes.NewReader(truncated)); !errors.Is(err, errTableShortPadding) {
		t.Errorf("ReadTable() error = %v, want %v", err, errTableShortPadding)
	}
}

func TestReadTableRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name       string
		placements []Placement
		expected   error
	}{
		{
			name: "overlapping entries",
			placements: []Placement{
				{Name: "a", Offset: 0x1000, Size: 0x100},
				{Name: "b", Offset: 0x1080, Size: 0x10},
			},
			expected: errEntriesOverlap,
		},
		{
			name: "entries out of order",
			placements: []Placement{
				{Name: "a", Offset: 0x2000, Size: 0x10},
				{Name: "b", Offset: 0x1000, Size: 0x10},
			},
			expected: errEntriesOverlap,
		},
		{
			name: "entry before base",
			placements: []Placement{
				{Name: "a", Offset: 0x800, Size: 0x10},
			},
			expected: errEntriesOverlap,
		},
		{
			name: "entry wraps address space",
			placements: []Placement{
				{Name: "a", Offset: math.MaxUint64 - 0xf, Size: 0x20},
			},
			expected: ErrAddressOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buff := &bytes.Buffer{}
			plan := &Plan{Base: 0x1000, End: 0x3000, Placements: tt.placements}

			if _, err := plan.WriteTo(buff); err != nil {
				t.Fatal(err)
			}

			if _, err := ReadTable(buff); !errors.Is(err, tt.expected) {
				t.Errorf("ReadTable() error = %v, want %v", err, tt.expected)
			}
		})
	}
}

func TestReadTableZeroSizeEntries(t *testing.T) {
	plan := &Plan{
		Base: 0x1000,
		End:  0x1000,
		Placements: []Placement{
			{Name: "a", Offset: 0x1000, Alignment: 16},
			{Name: "b", Offset: 0x1000, Alignment: 16},
		},
	}

	buff := &bytes.Buffer{}
	if _, err := plan.WriteTo(buff); err != nil {
		t.Fatal(err)
	}

	decoded, err := ReadTable(buff)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(plan, decoded); diff != "" {
		t.Errorf("decoded plan mismatch (-want +got):\n%s", diff)
	}
}
