package utils

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tailwind-converter/pkg/logger"

	"github.com/sirupsen/logrus"
)

var sensitiveHeaders = []string{
	"authorization",
	"x-api-key",
	"x-goog-api-key",
	"x-auth-token",
	"cookie",
}

// DebugTransport 记录出站请求（凭证头已脱敏）
type DebugTransport struct {
	base http.RoundTripper
}

func NewDebugTransport(base http.RoundTripper) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DebugTransport{base: base}
}

func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	fields := logrus.Fields{
		"method":  req.Method,
		"url":     RedactURL(req.URL.String()),
		"headers": RedactHeaders(req.Header),
	}

	if req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			data, _ := io.ReadAll(body)
			body.Close()
			fields["body_bytes"] = len(data)
			fields["body"] = string(data)
		}
	} else if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(data))
		fields["body_bytes"] = len(data)
		fields["body"] = string(data)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	fields["elapsed"] = time.Since(start).String()
	if err != nil {
		logger.WithFields(fields).WithError(err).Debug("outbound request failed")
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.WithFields(fields).Debug("outbound request")
	return resp, nil
}

// RedactHeaders flattens headers and hides credential values.
func RedactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if isSensitiveHeader(name) {
			out[name] = "[REDACTED]"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// RedactURL hides a key query parameter.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if !q.Has("key") {
		return raw
	}
	q.Set("key", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}

func isSensitiveHeader(name string) bool {
	for _, sensitive := range sensitiveHeaders {
		if strings.EqualFold(name, sensitive) {
			return true
		}
	}
	return false
}
