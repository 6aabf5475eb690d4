package annotate

import "fmt"

// ErrorKind classifies why a single request could not be planned.
type ErrorKind uint8

const (
	InvalidRequest ErrorKind = iota
	BlockNotFound
	NotFunction
	NoSignature
	ParamNotFound
	AlreadyAnnotated
	DuplicateParam
	NameConflict
)

var kindNames = [...]string{
	InvalidRequest:   "invalid request",
	BlockNotFound:    "block not found",
	NotFunction:      "not a function",
	NoSignature:      "no signature",
	ParamNotFound:    "parameter not found",
	AlreadyAnnotated: "already annotated",
	DuplicateParam:   "duplicate parameter",
	NameConflict:     "name conflict",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// RequestError is a failure of one request. Other requests of the same file
// are not affected. Index is the token the failure was detected at, or -1.
type RequestError struct {
	Request Request
	Kind    ErrorKind
	Index   int
	Msg     string
}

func (e *RequestError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Request, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Request, e.Kind, e.Msg)
}

// Is matches sentinel errors by kind, so errors.Is(err, ErrAlreadyAnnotated) works.
func (e *RequestError) Is(target error) bool {
	t, ok := target.(*RequestError)
	return ok && t.Request == (Request{}) && t.Kind == e.Kind
}

var (
	ErrInvalidRequest   = &RequestError{Kind: InvalidRequest, Index: -1}
	ErrBlockNotFound    = &RequestError{Kind: BlockNotFound, Index: -1}
	ErrNotFunction      = &RequestError{Kind: NotFunction, Index: -1}
	ErrNoSignature      = &RequestError{Kind: NoSignature, Index: -1}
	ErrParamNotFound    = &RequestError{Kind: ParamNotFound, Index: -1}
	ErrAlreadyAnnotated = &RequestError{Kind: AlreadyAnnotated, Index: -1}
	ErrDuplicateParam   = &RequestError{Kind: DuplicateParam, Index: -1}
	ErrNameConflict     = &RequestError{Kind: NameConflict, Index: -1}
)

func failf(req Request, kind ErrorKind, index int, format string, args ...any) *RequestError {
	return &RequestError{Request: req, Kind: kind, Index: index, Msg: fmt.Sprintf(format, args...)}
}
