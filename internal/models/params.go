package models

import (
	"strconv"
	"strings"
)

const (
	DefaultProductLimit = 20
	MaxProductLimit     = 100

	DefaultOrderLimit = 50
	MaxOrderLimit     = 200

	DefaultRunLimit = 20

	DefaultQty = 1
	MinQty     = 1
	MaxQty     = 50
)

// Clamp constrains v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseInt returns def when s is not an integer.
func ParseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// ParseInt64 returns def when s is not an integer.
func ParseInt64(s string, def int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return def
	}
	return v
}

// NormalizeMode trims and lowercases a bad-query mode.
func NormalizeMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}
