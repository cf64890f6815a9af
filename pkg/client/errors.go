package client

import "fmt"

// The error taxonomy mirrors the protocol phases, so callers can tell which
// phase failed with errors.As instead of parsing message text.

// ConfigError reports missing or invalid client configuration or key
// material, detected before any request is sent.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Reason
}

// EncodeError reports a failure to canonically encode a field map.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return "encode error: " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error { return e.Err }

// EncryptError reports a failure to encrypt the business body.
type EncryptError struct {
	Err error
}

func (e *EncryptError) Error() string {
	return "encrypt error: " + e.Err.Error()
}

func (e *EncryptError) Unwrap() error { return e.Err }

// DecryptError reports a cipher, padding or post-decrypt parse failure on
// the response bizContent.
type DecryptError struct {
	Err error
}

func (e *DecryptError) Error() string {
	return "decrypt error: " + e.Err.Error()
}

func (e *DecryptError) Unwrap() error { return e.Err }

// SignatureError reports a request signing failure, a malformed signature
// encoding, or a response signature that failed verification.
type SignatureError struct {
	Reason string
	Err    error
}

func (e *SignatureError) Error() string {
	if e.Err != nil {
		return "signature error: " + e.Reason + ": " + e.Err.Error()
	}
	return "signature error: " + e.Reason
}

func (e *SignatureError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx gateway status, carrying the status code and
// the raw response body for diagnosis. The body is never decrypted.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}
