package api

import (
	"net/http"
	"slices"
	"time"
)

// request is the per-request view the routes work on.
type request struct {
	*http.Request

	// target is the raw request target, path plus query string.
	target string
	// count is the counter value produced by this request's own increment.
	count int64
	start time.Time
}

type route struct {
	match  func(req *request) bool
	handle func(w http.ResponseWriter, req *request)
}

// targetIn matches the raw target exactly, so /health?x=1 is not /health.
func targetIn(targets ...string) func(*request) bool {
	return func(req *request) bool {
		return slices.Contains(targets, req.target)
	}
}

func methodIs(method string) func(*request) bool {
	return func(req *request) bool {
		return req.Method == method
	}
}

func all(preds ...func(*request) bool) func(*request) bool {
	return func(req *request) bool {
		for _, p := range preds {
			if !p(req) {
				return false
			}
		}
		return true
	}
}

// RequestTarget returns the target as sent on the request line, path plus query string.
func RequestTarget(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}
