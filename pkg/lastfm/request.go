package lastfm

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Params holds per-call query parameters.
//
// Values may be strings, integers, floats, booleans, time.Time (sent as
// unix seconds) or anything implementing fmt.Stringer. Booleans are sent
// as "1" and "0".
type Params map[string]any

// Request describes a single Last.fm API call.
//
// A Request is built once per call and never modified afterwards.
type Request struct {
	HTTPMethod string // HTTP method, always GET for read calls
	Method     string // Last.fm API method, e.g. "user.getRecentTracks"
	Params     Params // Caller-supplied parameters
}

// NewRequest builds a GET request for the given API method.
//
// The params map is copied, so later changes by the caller do not affect
// the request.
func NewRequest(method string, params Params) *Request {
	p := make(Params, len(params))
	for k, v := range params {
		p[k] = v
	}
	return &Request{
		HTTPMethod: http.MethodGet,
		Method:     method,
		Params:     p,
	}
}

// query builds the URL query for the request.
//
// The implicit format, api_key and method values are set first and the
// caller's parameters are layered on top, so a caller key with the same
// name wins.
func (r *Request) query(apiKey string) (url.Values, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("api_key", apiKey)
	q.Set("method", r.Method)

	for k, v := range r.Params {
		s, err := formatParam(v)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", ErrInvalidArgument, k, err)
		}
		q.Set(k, s)
	}
	return q, nil
}

// formatParam renders a parameter value the way Last.fm expects it.
func formatParam(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		if val {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(val), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case time.Time:
		return strconv.FormatInt(val.Unix(), 10), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}
