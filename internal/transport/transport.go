package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"kicklive/internal/fingerprint"
	"kicklive/internal/interfaces"
	"kicklive/internal/metrics"
	"kicklive/internal/session"
)

// Transport sends authenticated API requests through the fingerprint-
// spoofing engine. It attaches the session tokens and a realistic identity
// to every request, classifies failures per the module's error taxonomy,
// and falls back through backup fingerprints when the primary is rejected.
type Transport struct {
	store  *session.CredentialStore
	fp     *fingerprint.Provider
	sender interfaces.SpoofSender
	logger zerolog.Logger
}

// New creates a transport reading credentials from store and identity from fp.
func New(store *session.CredentialStore, fp *fingerprint.Provider, sender interfaces.SpoofSender, logger zerolog.Logger) *Transport {
	return &Transport{
		store:  store,
		fp:     fp,
		sender: sender,
		logger: logger.With().Str("component", "transport").Logger(),
	}
}

// Do sends one authenticated request. It fails fast with
// session.ErrNotAuthenticated when no valid session is held, before any
// network activity. On success the caller owns the response body.
func (t *Transport) Do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	creds, ok := t.store.Snapshot()
	if !ok {
		return nil, session.ErrNotAuthenticated
	}

	req := &interfaces.SpoofRequest{
		Method: method,
		URL:    url,
		Header: http.Header{},
		Body:   body,
	}
	req.Header.Set("Authorization", "Bearer "+creds.Bearer)
	req.Header.Set("X-XSRF-TOKEN", creds.Xsrf)
	req.Header.Set("User-Agent", t.fp.UserAgent())
	req.Header.Set("Accept", "application/json")
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.send(ctx, req)
	if err != nil {
		metrics.TransportRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	return t.classify(resp)
}

// DoJSON sends a request with an optional JSON body and decodes a 2xx
// response into out. A nil out discards the body.
func (t *Transport) DoJSON(ctx context.Context, method, url string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	resp, err := t.Do(ctx, method, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// send tries the fingerprint chain in order, each fingerprint at most once
// per request, until one is accepted by the remote host.
func (t *Transport) send(ctx context.Context, req *interfaces.SpoofRequest) (*http.Response, error) {
	var lastErr error
	for i, fp := range t.fp.Chain() {
		if i > 0 {
			metrics.FingerprintFallbacks.Inc()
			t.logger.Warn().Int("attempt", i+1).Msg("retrying request on backup fingerprint")
		}
		resp, err := t.sender.SendSpoofed(ctx, req, fp)
		if errors.Is(err, interfaces.ErrFingerprintRejected) {
			lastErr = err
			continue
		}
		return resp, err
	}
	return nil, fmt.Errorf("all fingerprints rejected: %w", lastErr)
}

// classify maps the response status onto the error taxonomy. Authentication
// rejections invalidate the credential store so later calls fail fast.
func (t *Transport) classify(resp *http.Response) (*http.Response, error) {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		metrics.TransportRequests.WithLabelValues("ok").Inc()
		return resp, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		drain(resp)
		t.store.Invalidate()
		metrics.TransportRequests.WithLabelValues("auth_rejected").Inc()
		t.logger.Warn().Int("status", resp.StatusCode).Msg("session rejected by server")
		return nil, fmt.Errorf("%w: status %d", ErrAuthRejected, resp.StatusCode)

	case resp.StatusCode >= 500:
		drain(resp)
		metrics.TransportRequests.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		metrics.TransportRequests.WithLabelValues("error").Inc()
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}

// DefaultSender is a plain net/http-backed SpoofSender used when no real
// TLS-fingerprinting engine is wired in. The fingerprint is forwarded as a
// header hint only; handshake-level spoofing needs an external engine.
type DefaultSender struct {
	Client *http.Client
}

func (s *DefaultSender) SendSpoofed(ctx context.Context, req *interfaces.SpoofRequest, fp string) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(httpReq)
}
