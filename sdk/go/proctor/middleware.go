package proctor

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

// Middleware returns an http.Handler that records each request as an
// "http" tool call before passing to the next handler. With enforcement
// on, flagged requests receive a 403 with a JSON body.
func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fresh := c.Observe(callFromRequest(r))

		if c.cfg.enforce && len(fresh) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)

			items := make([]map[string]any, len(fresh))
			for i, v := range fresh {
				items[i] = map[string]any{
					"constraint_id": v.ConstraintID,
					"kind":          v.Kind,
					"message":       v.Message,
					"penalty":       v.Penalty,
				}
			}
			json.NewEncoder(w).Encode(map[string]any{
				"blocked":    true,
				"violations": items,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// callFromRequest maps an HTTP request to an SDK Call.
func callFromRequest(r *http.Request) Call {
	url := r.URL.String()
	if r.URL.Host == "" && r.Host != "" {
		url = r.Host + r.URL.RequestURI()
	}

	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	return Call{
		Tool: "http",
		Args: map[string]any{
			"method": strings.ToLower(r.Method),
			"url":    url,
			"host":   host,
		},
	}
}
