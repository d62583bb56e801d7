// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package pipeview

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseSize parses a human-readable size (e.g. "4096", "32MiB", "1.5GB") to
// a number of units. SI suffixes (KB, MB, GB, TB) are powers of 1000; IEC
// suffixes (KiB, MiB, GiB, TiB) and the bare pv-style suffixes (K, M, G, T)
// are powers of 1024. An empty string returns def.
func ParseSize(s string, def uint64) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}

	// split number and unit
	i := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.')
	})
	num, unit := s, ""
	if i >= 0 {
		num, unit = s[:i], strings.TrimSpace(s[i:])
	}
	if num == "" {
		return 0, fmt.Errorf("%w %q", ErrInvalidSize, s)
	}

	mult, ok := sizeUnits[strings.ToUpper(unit)]
	if !ok {
		return 0, fmt.Errorf("%w %q: unknown unit %q", ErrInvalidSize, s, unit)
	}

	if n, err := strconv.ParseUint(num, 10, 64); err == nil {
		if n > math.MaxUint64/mult {
			return 0, fmt.Errorf("%w %q: overflows", ErrInvalidSize, s)
		}
		return n * mult, nil
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidSize, s)
	}
	v := f * float64(mult)
	if v >= math.MaxUint64 {
		return 0, fmt.Errorf("%w %q: overflows", ErrInvalidSize, s)
	}
	return uint64(v), nil
}

var sizeUnits = map[string]uint64{
	"":    1,
	"B":   1,
	"KB":  1000,
	"MB":  1000 * 1000,
	"GB":  1000 * 1000 * 1000,
	"TB":  1000 * 1000 * 1000 * 1000,
	"K":   1 << 10,
	"M":   1 << 20,
	"G":   1 << 30,
	"T":   1 << 40,
	"KIB": 1 << 10,
	"MIB": 1 << 20,
	"GIB": 1 << 30,
	"TIB": 1 << 40,
}
