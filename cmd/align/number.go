package main

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	"strconv"

	"github.com/davejbax/align"
	"lukechampine.com/uint128"
)

type operation int

const (
	opDown operation = iota
	opUp
	opCheck
)

var (
	errNotPowerOfTwo    = errors.New("alignment is not a power of two")
	errUnsupportedWidth = errors.New("unsupported width")
	errWraparound       = errors.New("rounding up wraps around")
	errOutOfRange       = errors.New("value out of range")
)

type request struct {
	op      operation
	address string
	align   string
	width   uint
	strict  bool
}

type result struct {
	value   *big.Int
	aligned bool
	wrapped bool
}

func (r *result) format(op operation, format string) string {
	if op == opCheck {
		return strconv.FormatBool(r.aligned)
	}

	if format == formatDec {
		return r.value.Text(10)
	}

	return "0x" + r.value.Text(16)
}

func evaluate(req *request) (*result, error) {
	switch req.width {
	case 0:
		return evaluateWidth[uint](req, bits.UintSize)
	case 8:
		return evaluateWidth[uint8](req, 8)
	case 16:
		return evaluateWidth[uint16](req, 16)
	case 32:
		return evaluateWidth[uint32](req, 32)
	case 64:
		return evaluateWidth[uint64](req, 64)
	case 128:
		return evaluate128(req)
	default:
		return nil, fmt.Errorf("%d: %w", req.width, errUnsupportedWidth)
	}
}

func evaluateWidth[T align.Unsigned](req *request, bitSize int) (*result, error) {
	addr, err := parseUint[T](req.address, bitSize)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	alignment, err := parseUint[T](req.align, bitSize)
	if err != nil {
		return nil, fmt.Errorf("invalid alignment: %w", err)
	}

	if !align.IsPowerOfTwo(alignment) {
		return nil, fmt.Errorf("%s: %w", req.align, errNotPowerOfTwo)
	}

	var res result

	switch req.op {
	case opDown:
		res.value = new(big.Int).SetUint64(uint64(align.Down(addr, alignment)))
	case opUp:
		value, ok := align.UpChecked(addr, alignment)
		res.value = new(big.Int).SetUint64(uint64(value))
		res.wrapped = !ok
	case opCheck:
		res.aligned = align.IsAligned(addr, alignment)
	}

	if res.wrapped && req.strict {
		return nil, fmt.Errorf("%s to %s at width %d: %w", req.address, req.align, bitSize, errWraparound)
	}

	return &res, nil
}

func evaluate128(req *request) (*result, error) {
	addr, err := parseUint128(req.address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	alignment, err := parseUint128(req.align)
	if err != nil {
		return nil, fmt.Errorf("invalid alignment: %w", err)
	}

	if !align.IsPowerOfTwo128(alignment) {
		return nil, fmt.Errorf("%s: %w", req.align, errNotPowerOfTwo)
	}

	var res result

	switch req.op {
	case opDown:
		res.value = align.Down128(addr, alignment).Big()
	case opUp:
		value, ok := align.UpChecked128(addr, alignment)
		res.value = value.Big()
		res.wrapped = !ok
	case opCheck:
		res.aligned = align.IsAligned128(addr, alignment)
	}

	if res.wrapped && req.strict {
		return nil, fmt.Errorf("%s to %s at width 128: %w", req.address, req.align, errWraparound)
	}

	return &res, nil
}

func parseUint[T align.Unsigned](s string, bitSize int) (T, error) {
	value, err := strconv.ParseUint(s, 0, bitSize)
	if err != nil {
		return 0, err
	}

	return T(value), nil
}

func parseUint128(s string) (uint128.Uint128, error) {
	value, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return uint128.Zero, fmt.Errorf("'%s': %w", s, strconv.ErrSyntax)
	}

	if value.Sign() < 0 || value.BitLen() > 128 {
		return uint128.Zero, fmt.Errorf("'%s': %w", s, errOutOfRange)
	}

	return uint128.FromBig(value), nil
}
