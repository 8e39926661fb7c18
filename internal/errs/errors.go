package errs

// Error is a Kind carrying extra message context and, optionally, a wrapped
// cause. It implements error and supports errors.Is/errors.As against both
// the Kind and the cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func (e *Error) Error() string {
	return e.message
}

// Kind returns the error kind this Error was built from.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is reports whether target is the same Kind this Error carries, so that
// errors.Is(err, errs.NoSuchPath) works after WithMessage/Wrap.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a bare Error from a Kind, with no extra message.
func New(kind Kind) *Error {
	return &Error{kind: kind, message: string(kind)}
}
