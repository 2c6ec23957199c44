package model

import (
	"errors"
	"strings"
)

// ErrorKind classifies failures surfaced by the block store and tree builder.
type ErrorKind uint8

const (
	UnknownError ErrorKind = iota
	StoreUnavailable
	ConstraintViolation
	NotFound
	RootMissing
	RootNotAPage
	MalformedProperties
	MalformedRecord
	CycleDetected
)

func (k ErrorKind) String() string {
	switch k {
	case StoreUnavailable:
		return "store unavailable"
	case ConstraintViolation:
		return "constraint violation"
	case NotFound:
		return "not found"
	case RootMissing:
		return "root missing"
	case RootNotAPage:
		return "root is not a page"
	case MalformedProperties:
		return "malformed properties"
	case MalformedRecord:
		return "malformed record"
	case CycleDetected:
		return "cycle detected"
	default:
		return "unknown error"
	}
}

// Error is a classified failure. Op names the operation that failed and ID
// the block it concerned, when there is one.
type Error struct {
	Kind ErrorKind
	Op   string
	ID   string
	Err  error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrStoreUnavailable    = &Error{Kind: StoreUnavailable}
	ErrConstraintViolation = &Error{Kind: ConstraintViolation}
	ErrNotFound            = &Error{Kind: NotFound}
	ErrRootMissing         = &Error{Kind: RootMissing}
	ErrRootNotAPage        = &Error{Kind: RootNotAPage}
	ErrMalformedProperties = &Error{Kind: MalformedProperties}
	ErrMalformedRecord     = &Error{Kind: MalformedRecord}
	ErrCycleDetected       = &Error{Kind: CycleDetected}
)

// NewError builds a classified error.
func NewError(kind ErrorKind, op, id string, err error) *Error {
	return &Error{Kind: kind, Op: op, ID: id, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.ID != "" {
		b.WriteString(" (block ")
		b.WriteString(e.ID)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.ID == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnknownError
}
