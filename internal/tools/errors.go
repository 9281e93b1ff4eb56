package tools

import (
	"errors"
	"fmt"

	"github.com/sehatlink/sehat-mcp/pkg/protocol"
)

// Error is a classified tool failure. The dispatcher maps it onto the
// error side of the response envelope; any other error value escaping a
// tool is treated as an internal failure.
type Error struct {
	Kind    protocol.ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewInvalidArguments(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    protocol.KindInvalidArguments,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewPersistenceFailure(msg string, err error) *Error {
	return &Error{
		Kind:    protocol.KindPersistenceFailure,
		Message: msg,
		Err:     err,
	}
}

func NewInternalFailure(msg string, err error) *Error {
	return &Error{
		Kind:    protocol.KindInternalFailure,
		Message: msg,
		Err:     err,
	}
}

// Classify converts an execution error into envelope error info.
func Classify(err error) *protocol.ErrorInfo {
	var te *Error
	if errors.As(err, &te) {
		return &protocol.ErrorInfo{Kind: te.Kind, Message: te.Error()}
	}
	return &protocol.ErrorInfo{Kind: protocol.KindInternalFailure, Message: err.Error()}
}
