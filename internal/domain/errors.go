package domain

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	}
	return "unknown"
}

// Error 业务错误，Msg 可直接返回给调用方
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is 同 Kind 即相等，便于 errors.Is(err, domain.ErrConflict)
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrValidation   = &Error{Kind: KindValidation}
)

func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Kind: KindForbidden, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: KindConflict, Msg: msg} }
func Validation(msg string) error   { return &Error{Kind: KindValidation, Msg: msg} }

// KindOf 非业务错误返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
