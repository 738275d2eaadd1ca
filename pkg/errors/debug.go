package errors

import (
	"errors"
	"fmt"
)

// ErrorDump is the log-side view of an error: the public code it maps to and
// every layer of the wrap chain.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	HTTPStatus int    `json:"http_status,omitempty"`
	Retryable  bool   `json:"retryable"`

	Chain []string `json:"chain,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	code := CodeInternal
	if te := As(err); te != nil {
		code = te.Code()
	}
	meta := MetadataFor(code)
	d.Code = code
	d.HTTPStatus = meta.HTTPStatus
	d.Retryable = meta.Retryable

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	return d
}
