package interfaces

import (
	"context"
	"errors"
	"net/http"
)

// ErrFingerprintRejected is returned by a SpoofSender when the remote host
// refused the TLS handshake for the supplied fingerprint. The transport
// layer reacts by falling back to the next configured fingerprint.
var ErrFingerprintRejected = errors.New("tls fingerprint rejected by remote host")

// SpoofRequest is a replayable outbound request. The body is held as bytes
// so the same request can be retried with a different fingerprint.
type SpoofRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// SpoofSender sends HTTP requests through a TLS-fingerprinting engine so
// that the handshake resembles the given browser fingerprint.
type SpoofSender interface {
	SendSpoofed(ctx context.Context, req *SpoofRequest, fingerprint string) (*http.Response, error)
}
