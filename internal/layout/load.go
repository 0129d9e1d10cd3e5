package layout

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var (
	errNegativeSize   = errors.New("size must not be negative")
	errSizeOverflow   = errors.New("size overflows 64 bits")
	errNotWholeNumber = errors.New("size is not a whole number of bytes")
)

// Binary size suffixes, longest first so that "KiB" wins over "K"
var sizeSuffixes = []struct {
	suffix     string
	multiplier uint64
}{
	{"KiB", 1 << 10},
	{"MiB", 1 << 20},
	{"GiB", 1 << 30},
	{"K", 1 << 10},
	{"M", 1 << 20},
	{"G", 1 << 30},
}

// Load reads a layout from a file in any format viper understands.
func Load(path string) (*Layout, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read layout from '%s': %w", path, err)
	}

	return Decode(v.AllSettings())
}

// Decode builds a layout from a generic map, such as one produced by a
// config parser. Missing fields take their struct tag defaults.
func Decode(input map[string]interface{}) (*Layout, error) {
	layout := &Layout{}

	if err := defaults.Set(layout); err != nil {
		return nil, fmt.Errorf("failed to set layout defaults: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       sizeHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           layout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create layout decoder: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}

	return layout, nil
}

// sizeHook lets uint64 fields be written as "0x1000", "4KiB" or "2M", and
// rejects negative or fractional numbers that weak typing would otherwise
// wrap or truncate.
func sizeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.Uint64 {
		return data, nil
	}

	switch from.Kind() {
	case reflect.String:
		return ParseSize(data.(string))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if reflect.ValueOf(data).Int() < 0 {
			return nil, fmt.Errorf("%v: %w", data, errNegativeSize)
		}
	case reflect.Float32, reflect.Float64:
		f := reflect.ValueOf(data).Float()
		if f < 0 {
			return nil, fmt.Errorf("%v: %w", data, errNegativeSize)
		}

		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%v: %w", data, errNotWholeNumber)
		}

		if f >= math.MaxUint64 {
			return nil, fmt.Errorf("%v: %w", data, errSizeOverflow)
		}
	}

	return data, nil
}

// ParseSize parses an unsigned integer written with an optional base prefix
// and an optional binary suffix.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	multiplier := uint64(1)

	for _, suffix := range sizeSuffixes {
		if trimmed, ok := strings.CutSuffix(s, suffix.suffix); ok {
			s = strings.TrimSpace(trimmed)
			multiplier = suffix.multiplier
			break
		}
	}

	value, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size '%s': %w", s, err)
	}

	if value > (1<<64-1)/multiplier {
		return 0, fmt.Errorf("size '%s' x %d: %w", s, multiplier, errSizeOverflow)
	}

	return value * multiplier, nil
}
