// Package simerr defines the distinct error kinds surfaced by construction-time
// and I/O validation across the simulation packages (spec §7).
package simerr

import "errors"

// Kind identifies which class of error a sentinel represents, so callers can
// switch on it after unwrapping with errors.Is/errors.As.
type Kind int

const (
	// InvalidDimension: row/column/fire-cell count not positive.
	InvalidDimension Kind = iota
	// OutOfBounds: populated, path, or custom-fire cell outside the grid.
	OutOfBounds
	// InvalidPathMap: a path index in paths_to_pops is not a valid path, or a
	// referenced populated cell is not declared.
	InvalidPathMap
	// InvalidWind: wind speed or angle provided without the other.
	InvalidWind
	// InvalidGeneratorParam: generator inputs violate their stated bounds.
	InvalidGeneratorParam
	// PersistenceError: I/O failure reading or writing a map directory.
	PersistenceError
)

func (k Kind) String() string {
	switch k {
	case InvalidDimension:
		return "InvalidDimension"
	case OutOfBounds:
		return "OutOfBounds"
	case InvalidPathMap:
		return "InvalidPathMap"
	case InvalidWind:
		return "InvalidWind"
	case InvalidGeneratorParam:
		return "InvalidGeneratorParam"
	case PersistenceError:
		return "PersistenceError"
	default:
		return "Unknown"
	}
}

// Error is a typed error carrying one of the Kind sentinels plus a message.
// Wrap with fmt.Errorf("...: %w", err) at call sites that want to add context;
// errors.Is(err, simerr.ErrInvalidDimension) (via Is below) still resolves.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

// Is lets errors.Is(err, simerr.New(SomeKind, "")) match any *Error of the same Kind,
// regardless of message, by comparing Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// sentinel kind markers usable with errors.Is, e.g. errors.Is(err, ErrOutOfBounds).
var (
	ErrInvalidDimension      = &Error{Kind: InvalidDimension}
	ErrOutOfBounds           = &Error{Kind: OutOfBounds}
	ErrInvalidPathMap        = &Error{Kind: InvalidPathMap}
	ErrInvalidWind           = &Error{Kind: InvalidWind}
	ErrInvalidGeneratorParam = &Error{Kind: InvalidGeneratorParam}
	ErrPersistenceError      = &Error{Kind: PersistenceError}
)

// As is a thin convenience wrapper over errors.As for *Error.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}
