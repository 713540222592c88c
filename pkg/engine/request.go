package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/localmock/localmock/pkg/util"
)

// MaxRequestBodySize is the largest JSON body read for parameter merging.
const MaxRequestBodySize = 1 << 20 // 1MB

var errBodyNotObject = errors.New("request body is not a JSON object")

// request is the parsed form of an incoming request.
type request struct {
	method string
	path   string
	// params holds query parameters, overridden by top-level body fields.
	params map[string][]string
	// body is the decoded JSON object body, or nil.
	body map[string]any
}

func (r *request) param(name string) string {
	if vals := r.params[name]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func (h *Handler) parseRequest(r *http.Request) *request {
	req := &request{
		method: r.Method,
		path:   r.URL.Path,
		params: r.URL.Query(),
	}

	if r.Method != http.MethodPost && r.Method != http.MethodPatch {
		return req
	}

	body, raw, err := readJSONObject(r)
	if err != nil {
		h.log.Warn("failed to parse request body",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"body", util.TruncateBody(string(raw), util.MaxLogBodySize),
		)
		return req
	}
	if body == nil {
		return req
	}

	req.body = body
	for k, v := range body {
		req.params[k] = []string{paramString(v)}
	}
	return req
}

// readJSONObject reads a JSON object body. An empty body yields nil, nil.
func readJSONObject(r *http.Request) (map[string]any, []byte, error) {
	if r.Body == nil {
		return nil, nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		return nil, raw, fmt.Errorf("read body: %w", err)
	}
	if len(raw) > MaxRequestBodySize {
		return nil, raw, fmt.Errorf("body exceeds %d bytes", MaxRequestBodySize)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, raw, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, raw, errors.New("trailing data after JSON value")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, raw, errBodyNotObject
	}
	return obj, raw, nil
}

// paramString converts a body field into a parameter value: strings as-is,
// everything else as compact JSON.
func paramString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
