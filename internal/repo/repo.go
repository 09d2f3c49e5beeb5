package repo

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by delete paths when the row is gone.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is the store-level uniqueness violation. With
	// TranslateError enabled the database unique index is the
	// authoritative source of this error; application pre-checks are
	// only the fast path.
	ErrDuplicate = errors.New("duplicate natural key")
)

// Natural keys are compared case-insensitively. Instead of wrapping
// every query in UPPER()/LOWER() the stores normalize on the way in,
// which lets the plain unique index do the enforcement.

func NormalizePlate(s string) string   { return strings.ToUpper(strings.TrimSpace(s)) }
func NormalizeChassis(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
func NormalizeEmail(s string) string   { return strings.ToLower(strings.TrimSpace(s)) }
