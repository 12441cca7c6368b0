package lastfm

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxResponseSize caps the response body. Larger bodies fail with
// ErrResponseTooLarge.
const maxResponseSize = 8 << 20

// Send performs a single Last.fm API call and returns the decoded payload.
//
// It handles:
// - Query construction (format, api_key and method, then the request's params)
// - The User-Agent header
// - Optional client-side rate limiting
// - Response decoding (JSON or plain text)
// - API error classification
//
// Exactly one HTTP request is made; nothing is retried. API errors are
// returned as *Error, network failures as *TransportError, and
// cancellation as the context's error.
func (c *Client) Send(ctx context.Context, req *Request) (*Payload, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrInvalidArgument)
	}
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	q, err := req.query(c.apiKey)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("lastfm: %s: %w", req.Method, ctxErr)
			}
			return nil, fmt.Errorf("lastfm: %s: rate limiter: %w", req.Method, err)
		}
	}

	httpMethod := req.HTTPMethod
	if httpMethod == "" {
		httpMethod = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, httpMethod, c.baseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("lastfm: failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	hc := c.httpDoer()
	if hc == nil {
		return nil, ErrClientClosed
	}

	c.logger.Debug().Str("method", req.Method).Msg("lastfm: sending request")

	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, c.wrapTransportErr(ctx, req.Method, err)
	}

	// Read one byte past the cap so an oversized body is an error rather
	// than a silently truncated payload
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	_ = resp.Body.Close()
	if err != nil {
		return nil, c.wrapTransportErr(ctx, req.Method, fmt.Errorf("failed to read response: %w", err))
	}
	if len(body) > maxResponseSize {
		return nil, &TransportError{
			Method: req.Method,
			Err:    fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxResponseSize),
		}
	}

	payload, err := decodeResponse(resp.StatusCode, resp.Header.Get("Content-Type"), body)

	event := c.logger.Debug().
		Str("method", req.Method).
		Int("status", resp.StatusCode)
	if payload != nil {
		event = event.Interface("payload", payload.Value)
	}
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("lastfm: response")

	if err != nil {
		return nil, err
	}
	return payload, nil
}

// wrapTransportErr reports cancellation as the context's error and every
// other failure as a *TransportError.
func (c *Client) wrapTransportErr(ctx context.Context, method string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("lastfm: %s: %w", method, ctxErr)
	}
	return &TransportError{Method: method, Err: err}
}
