package lastfm

import (
	"mime"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Payload is a decoded Last.fm response body.
type Payload struct {
	// Value is the decoded JSON value (map[string]any, []any, string,
	// float64, bool or nil), or the raw body as a string when the response
	// was not JSON.
	Value any

	// Raw is the undecoded response body.
	Raw []byte

	// ContentType is the response Content-Type header.
	ContentType string
}

// Object returns the payload as a JSON object, if it is one.
func (p *Payload) Object() (map[string]any, bool) {
	obj, ok := p.Value.(map[string]any)
	return obj, ok
}

// Text returns the payload as a bare string, if it is one.
func (p *Payload) Text() (string, bool) {
	s, ok := p.Value.(string)
	return s, ok
}

// isJSONContentType reports whether a Content-Type header names JSON,
// ignoring parameters such as charset.
func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	return strings.EqualFold(mediaType, "application/json")
}

// decodeResponse interprets a raw HTTP response.
//
// A 2xx status always returns the payload, whatever its shape. Otherwise a
// bare string payload is an unexpected-response error, an object carrying
// an "error" key is classified, and anything else is passed through.
func decodeResponse(status int, contentType string, body []byte) (*Payload, error) {
	p := &Payload{Raw: body, ContentType: contentType}

	if isJSONContentType(contentType) {
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, Classify(ErrCodeUnexpectedResponse, strings.TrimSpace(string(body)))
		}
		p.Value = v
	} else {
		p.Value = string(body)
	}

	if status >= 200 && status < 300 {
		return p, nil
	}

	if text, ok := p.Text(); ok {
		return nil, Classify(ErrCodeUnexpectedResponse, text)
	}

	obj, ok := p.Object()
	if !ok {
		return p, nil
	}
	rawCode, ok := obj["error"]
	if !ok || rawCode == nil {
		return p, nil
	}
	code, ok := toInt(rawCode)
	if !ok {
		return p, nil
	}
	message, _ := obj["message"].(string)
	return nil, Classify(code, message)
}

// toInt converts a JSON number or numeric string to an int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return i, true
	default:
		return 0, false
	}
}
