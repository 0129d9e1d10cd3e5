// Package layout places named sections one after another in an address
// space, honouring each section's alignment, the way a linker or image
// builder lays out an executable.
package layout

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/davejbax/align"
)

var (
	ErrAddressOverflow = errors.New("layout exceeds the 64-bit address space")

	errNotPowerOfTwo    = errors.New("alignment is not a power of two")
	errEmptySectionName = errors.New("section name is empty")
	errDuplicateSection = errors.New("duplicate section name")
)

type Section struct {
	Name string `mapstructure:"name"`
	Size uint64 `mapstructure:"size"`

	// Zero means the layout's SectionAlignment
	Alignment uint64 `mapstructure:"alignment"`
}

type Layout struct {
	// Address of the first byte of the image
	Base uint64 `mapstructure:"base"`

	// The end of the image is rounded up to this
	Alignment uint64 `mapstructure:"alignment" default:"4096"`

	SectionAlignment uint64 `mapstructure:"section_alignment" default:"16"`

	Sections []Section `mapstructure:"sections"`
}

// Placement is where a single section ended up.
type Placement struct {
	Name      string
	Offset    uint64
	Size      uint64
	Alignment uint64

	// Bytes inserted between the previous section and this one
	Padding uint64
}

func (p *Placement) End() uint64 {
	return p.Offset + p.Size
}

type Plan struct {
	Base       uint64
	End        uint64
	Placements []Placement
}

// Size of the whole image, including trailing padding.
func (p *Plan) Size() uint64 {
	return p.End - p.Base
}

func (l *Layout) Validate() error {
	if !align.IsPowerOfTwo(l.Alignment) {
		return fmt.Errorf("image alignment %d: %w", l.Alignment, errNotPowerOfTwo)
	}

	if !align.IsPowerOfTwo(l.SectionAlignment) {
		return fmt.Errorf("default section alignment %d: %w", l.SectionAlignment, errNotPowerOfTwo)
	}

	seen := make(map[string]struct{}, len(l.Sections))

	for i, section := range l.Sections {
		if section.Name == "" {
			return fmt.Errorf("section %d: %w", i, errEmptySectionName)
		}

		if _, ok := seen[section.Name]; ok {
			return fmt.Errorf("section '%s': %w", section.Name, errDuplicateSection)
		}
		seen[section.Name] = struct{}{}

		if section.Alignment != 0 && !align.IsPowerOfTwo(section.Alignment) {
			return fmt.Errorf("section '%s' alignment %d: %w", section.Name, section.Alignment, errNotPowerOfTwo)
		}
	}

	return nil
}

// Plan validates the layout and assigns an offset to every section, in the
// order they are listed.
func (l *Layout) Plan(logger *slog.Logger) (*Plan, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{
		Base:       l.Base,
		Placements: make([]Placement, 0, len(l.Sections)),
	}

	cursor := l.Base

	for _, section := range l.Sections {
		alignment := section.Alignment
		if alignment == 0 {
			alignment = l.SectionAlignment
		}

		offset, ok := align.UpChecked(cursor, alignment)
		if !ok {
			return nil, fmt.Errorf("aligning section '%s' to %d: %w", section.Name, alignment, ErrAddressOverflow)
		}

		end := offset + section.Size
		if end < offset {
			return nil, fmt.Errorf("section '%s' of size %d at %#x: %w", section.Name, section.Size, offset, ErrAddressOverflow)
		}

		placement := Placement{
			Name:      section.Name,
			Offset:    offset,
			Size:      section.Size,
			Alignment: alignment,
			Padding:   offset - cursor,
		}

		logger.Debug("placed section",
			"name", placement.Name,
			"offset", placement.Offset,
			"size", placement.Size,
			"padding", placement.Padding,
		)

		plan.Placements = append(plan.Placements, placement)
		cursor = end
	}

	end, ok := align.UpChecked(cursor, l.Alignment)
	if !ok {
		return nil, fmt.Errorf("aligning image end to %d: %w", l.Alignment, ErrAddressOverflow)
	}
	plan.End = end

	return plan, nil
}
