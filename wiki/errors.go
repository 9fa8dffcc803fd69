package wiki

import (
	"errors"
	"fmt"
)

// Sentinel errors for fetch outcomes that carry no extra data.
var (
	// ErrNotFound indicates the page returned HTTP 404.
	ErrNotFound = errors.New("page not found")

	// ErrTooManyRedirects indicates the redirect budget was exhausted
	// before a terminal response arrived.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrTimeout indicates no terminal outcome arrived within the
	// configured timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrNoBody indicates a 2xx response whose body was empty or unreadable.
	ErrNoBody = errors.New("response has no body")
)

// BackendError is a transport-level failure (DNS, TCP, TLS, connection reset).
type BackendError struct {
	Reason string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("http backend error: %s", e.Reason)
}

// UnknownStatusError is any response status that is not 2xx, 3xx-with-Location,
// or 404.
type UnknownStatusError struct {
	Code int
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown response status %d", e.Code)
}

// LanguageUnsupportedError indicates a language code with no usable
// Wikipedia domain mapping.
type LanguageUnsupportedError struct {
	Code string
}

func (e *LanguageUnsupportedError) Error() string {
	return fmt.Sprintf("language %q has no Wikipedia domain mapping", e.Code)
}

// HeaderError indicates an invalid or duplicate request header. It is
// reported at configuration time, before any request is sent.
type HeaderError struct {
	Name   string
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid header %q: %s", e.Name, e.Reason)
}

// DeserializationError indicates a response body that could not be parsed
// into the structured payload its request kind requires.
type DeserializationError struct {
	Kind   string
	Reason string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("cannot deserialize %s response: %s", e.Kind, e.Reason)
}

// PathinfoParseError indicates a parsed payload that carries no canonical
// page identity (for example a page that does not exist upstream). Callers
// recover by keeping the page's current identity.
type PathinfoParseError struct {
	Kind   string
	Reason string
}

func (e *PathinfoParseError) Error() string {
	return fmt.Sprintf("cannot extract pathinfo from %s payload: %s", e.Kind, e.Reason)
}

// PageURLError indicates a URL or path that does not identify a Wikipedia page.
type PageURLError struct {
	Input  string
	Reason string
}

func (e *PageURLError) Error() string {
	return fmt.Sprintf("invalid page URL %q: %s", e.Input, e.Reason)
}

// Retryable reports whether the error may succeed on retry with unchanged
// inputs. Only timeouts and exhausted redirect budgets qualify; everything
// else needs different inputs or upstream changes.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrTooManyRedirects)
}
