package agent

import (
	"errors"
	"fmt"

	"quill/pkg/utils"
)

var ErrResponseFormat = errors.New("response format error")

// ResponseFormatError reports a reply that carried no usable JSON object.
type ResponseFormatError struct {
	Agent   string
	Session string
	Reply   string
	Err     error
}

func (e *ResponseFormatError) Error() string {
	msg := fmt.Sprintf("agent %s returned no usable JSON", e.Agent)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Reply != "" {
		msg += fmt.Sprintf(" (reply: %q)", utils.LimitStr(e.Reply, 120))
	}
	return msg
}

func (e *ResponseFormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResponseFormat}
	}
	return []error{ErrResponseFormat, e.Err}
}
