package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	HTTPStatus   int      `json:"http_status,omitempty"`
	ServerErrors []string `json:"server_errors,omitempty"`
}

// ServerDetails is attached to errors decoded from a backend response.
type ServerDetails struct {
	Status int      `json:"status"`
	Errors []string `json:"errors,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
		if sd, ok := te.Details().(ServerDetails); ok {
			d.HTTPStatus = sd.Status
			d.ServerErrors = sd.Errors
		}
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	return d
}
