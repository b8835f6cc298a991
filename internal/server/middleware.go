package server

import (
	"net/http"
)

// setHeadersMiddleware sets predefined headers to response.
func setHeadersMiddleware(handler http.Handler) http.Handler {
	fn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		handler.ServeHTTP(w, r)
	})

	return http.Handler(fn)
}
