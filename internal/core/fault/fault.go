// Package fault defines the hard-fault taxonomy. Hard faults abort the
// current unit of work (one team's sync, one view's scan) and are logged;
// they never abort sibling units. Soft edit rejections are not faults and
// live on the edit outcome instead.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreAccess marks a missing required view or template.
	ErrStoreAccess = errors.New("store access fault")
	// ErrStateParse marks malformed persisted state. Callers recover by
	// resetting to an empty default; this error is logged, not propagated.
	ErrStateParse = errors.New("state parse fault")
)

// StoreAccessf wraps a formatted message as a store-access fault.
func StoreAccessf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStoreAccess, fmt.Sprintf(format, args...))
}

// StateParsef wraps a formatted message as a state-parse fault.
func StateParsef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStateParse, fmt.Sprintf(format, args...))
}

// IsStoreAccess reports whether err is a store-access fault.
func IsStoreAccess(err error) bool {
	return errors.Is(err, ErrStoreAccess)
}

// IsStateParse reports whether err is a state-parse fault.
func IsStateParse(err error) bool {
	return errors.Is(err, ErrStateParse)
}
