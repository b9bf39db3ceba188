package kroki

import "fmt"

// ConfigError reports an unusable backend configuration. It is fatal:
// nothing is rendered when construction fails.
type ConfigError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid kroki %s %q: %s", e.Key, e.Value, e.Reason)
}

// ContentTypeError reports a 2xx response whose Content-Type is not the
// SVG media type, e.g. an HTML error page or a JSON error body that
// must not be embedded as an image. It is never retried.
type ContentTypeError struct {
	Expected string
	Received string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("unexpected content type: expected %q, received %q", e.Expected, e.Received)
}

// TransportError reports a request that failed at the HTTP level after
// the retry budget was spent.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
