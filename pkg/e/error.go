package e

import (
	"net/http"

	"github.com/caiflower/http-stream/pkg/tools"
)

type StreamError interface {
	error
	GetCode() int
	GetType() string
	GetMessage() string
	GetCause() error
}

type streamError struct {
	Code    int    `json:"-"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *streamError) GetCode() int {
	return e.Code
}

func (e *streamError) GetType() string {
	return e.Type
}

func (e *streamError) GetMessage() string {
	return e.Message
}

func (e *streamError) GetCause() error {
	return e.Cause
}

func (e *streamError) Error() string {
	return tools.ToJson(e)
}

type ErrorCode struct {
	Code int
	Type string
}

var (
	NotFound       = &ErrorCode{Code: http.StatusNotFound, Type: "NotFound"}
	Internal       = &ErrorCode{Code: http.StatusInternalServerError, Type: "InternalError"}
	IOFailure      = &ErrorCode{Code: http.StatusInternalServerError, Type: "IOFailure"}
	CompressInit   = &ErrorCode{Code: http.StatusInternalServerError, Type: "CompressInitFailure"}
	CompressStream = &ErrorCode{Code: http.StatusInternalServerError, Type: "CompressStreamFailure"}
)

func NewStreamError(errCode *ErrorCode, msg string, err error) StreamError {
	return &streamError{
		Code:    errCode.Code,
		Type:    errCode.Type,
		Message: msg,
		Cause:   err,
	}
}
