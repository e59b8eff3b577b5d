package errs

import (
	stderr "errors"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CodeError is the wire- and API-facing error shape. Code identifies the
// failure class, Msg is the stable human message, Detail carries per-instance
// context appended via WithDetail/WrapMsg.
type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) CodeError {
	return CodeError{Code: code, Msg: msg}
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

func (e *CodeError) WithDetail(detail string) *CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return &CodeError{Code: e.Code, Msg: e.Msg, Detail: d}
}

// Wrap attaches a stack to the error.
func (e *CodeError) Wrap() error {
	return errors.WithStack(e)
}

// WrapMsg clones the error, appends msg to the detail and attaches a stack.
func (e *CodeError) WrapMsg(msg string) error {
	return errors.WithStack(e.WithDetail(msg))
}

// Is reports whether err carries the same code, unwrapping as needed.
func (e *CodeError) Is(err error) bool {
	var ce *CodeError
	if !stderr.As(err, &ce) {
		return false
	}
	return ce.Code == e.Code
}

// Code extracts the CodeError code from err, or 0 when err carries none.
func Code(err error) int {
	var ce *CodeError
	if stderr.As(err, &ce) {
		return ce.Code
	}
	return 0
}

// Wrap attaches a stack to an arbitrary error, preserving nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(err)
}

// WrapMsg annotates err with msg and a stack, preserving nil.
func WrapMsg(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
