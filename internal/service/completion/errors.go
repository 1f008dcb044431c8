package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// UpstreamError reports that the endpoint answered with a non-success status or
// could not be reached at all (StatusCode == 0).
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream returned status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: upstream unavailable: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Timeout reports whether the call was aborted by its deadline.
func (e *UpstreamError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// ParseError reports a reply that did not have the expected shape.
type ParseError struct {
	Op      string
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unexpected reply shape: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newUpstreamError(op string, err error) *UpstreamError {
	upstream := &UpstreamError{Op: op, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		upstream.StatusCode = apiErr.HTTPStatusCode
		upstream.Body = apiErr.Message
	case errors.As(err, &reqErr):
		upstream.StatusCode = reqErr.HTTPStatusCode
		upstream.Body = string(reqErr.Body)
	}
	return upstream
}

// classifyError maps a transport failure to UpstreamError, and a success
// status whose body does not decode to ParseError.
func classifyError(op string, err error) error {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	if errors.As(err, &apiErr) || errors.As(err, &reqErr) {
		return newUpstreamError(op, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &ParseError{Op: op, Err: err}
	}
	return newUpstreamError(op, err)
}
