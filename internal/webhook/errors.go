package webhook

import (
	"errors"
	"fmt"
)

// Kind classifies a failed webhook request.
type Kind int

const (
	KindConfig Kind = iota + 1
	KindTimeout
	KindNetwork
	KindHTTP
	KindMalformed
	KindBusiness
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindMalformed:
		return "malformed"
	case KindBusiness:
		return "business"
	}

	return "unknown"
}

var (
	ErrNotConfigured     = errors.New("endpoint not configured")
	ErrTimeout           = errors.New("request timed out")
	ErrNetwork           = errors.New("network error")
	ErrHTTPStatus        = errors.New("unexpected http status")
	ErrMalformedResponse = errors.New("invalid server response")
	ErrBusiness          = errors.New("request rejected")
)

func (k Kind) sentinel() error {
	switch k {
	case KindConfig:
		return ErrNotConfigured
	case KindTimeout:
		return ErrTimeout
	case KindNetwork:
		return ErrNetwork
	case KindHTTP:
		return ErrHTTPStatus
	case KindMalformed:
		return ErrMalformedResponse
	case KindBusiness:
		return ErrBusiness
	}

	return nil
}

// Error is returned for every failed request. Message is safe to show to
// users; Err holds the transport cause, if any.
type Error struct {
	Kind     Kind
	Status   int
	Message  string
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind, so callers can write
// errors.Is(err, webhook.ErrTimeout).
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Message reduces err to the single line shown to users.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var we *Error
	if errors.As(err, &we) {
		return we.Message
	}

	return err.Error()
}

// NotConfigured is the error for an endpoint without a URL.
func NotConfigured(ep Endpoint) *Error {
	return &Error{
		Kind:     KindConfig,
		Message:  fmt.Sprintf("%s endpoint is not configured", ep.label()),
		Endpoint: ep.Name,
	}
}
