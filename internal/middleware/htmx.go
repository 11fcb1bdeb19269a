package middleware

import (
	"encoding/json"
	"net/http"
)

// HTMX marks requests coming from htmx so handlers can answer with fragments.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := r.Header.Get("HX-Request") == "true"
		w.Header().Add("Vary", "HX-Request")
		next.ServeHTTP(w, r.WithContext(WithHTMX(r.Context(), is)))
	})
}

// PushURL makes htmx update the address bar to url.
func PushURL(w http.ResponseWriter, url string) {
	w.Header().Set("HX-Push-Url", url)
}

// Trigger fires a client-side event with an optional detail payload.
func Trigger(w http.ResponseWriter, event string, detail any) {
	payload := map[string]any{event: detail}
	if detail == nil {
		payload[event] = true
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}

// DropResponse answers 204 and tells htmx not to swap anything.
func DropResponse(w http.ResponseWriter) {
	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(http.StatusNoContent)
}

// Retarget swaps the response into selector instead of the requesting element's target.
func Retarget(w http.ResponseWriter, selector, swap string) {
	w.Header().Set("HX-Retarget", selector)
	if swap != "" {
		w.Header().Set("HX-Reswap", swap)
	}
}
