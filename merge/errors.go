package merge

import "errors"

var (
	// ErrNotStructPointer is returned by NewEngine when the mergeable type
	// is not a pointer to a struct.
	ErrNotStructPointer = errors.New("mergeable type must be a pointer to struct")

	// ErrUnknownField is returned by SetRule when the named field is absent,
	// ignored, or the clock carrier.
	ErrUnknownField = errors.New("unknown mergeable field")

	// ErrUnknownRule is returned when a merge tag names a rule that was
	// never registered.
	ErrUnknownRule = errors.New("unknown merge rule")

	// ErrTypeMismatch is returned when a rule's value type disagrees with
	// the field's declared type.
	ErrTypeMismatch = errors.New("merge rule type mismatch")

	// ErrNilRule is returned by SetRule when no rule is supplied.
	ErrNilRule = errors.New("nil merge rule")

	// ErrEmptyNodeID is returned by Update when the originating node ID is
	// empty.
	ErrEmptyNodeID = errors.New("empty node ID")

	// ErrNilUpdate is returned by Update when no mutation is supplied.
	ErrNilUpdate = errors.New("nil update action")
)
