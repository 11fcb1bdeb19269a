package middleware

import (
	"errors"
	"net/http"
)

// LimitForm caps the body of unsafe requests at limit bytes and parses the form up front,
// so later middleware (CSRF) and handlers read r.PostForm without touching the body again.
func LimitForm(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			if err := r.ParseForm(); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
					return
				}
				writeError(w, r, http.StatusBadRequest, "invalid form")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
