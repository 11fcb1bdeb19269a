package middleware

import (
	"context"
	"net/http"
	"strings"

	"autohub.ng/autohub-web/internal/i18n"
)

const localeCookieName = "hl"

// Locale resolves the preferred language once per session: ?hl= override, then the hl
// cookie, then Accept-Language.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	supported := map[string]bool{}
	for _, l := range bundle.Supported() {
		supported[l] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(context.WithValue(r.Context(), ctxKeyLocaleFB, bundle.Fallback()))
			s := GetSession(r)
			if q := strings.ToLower(r.URL.Query().Get("hl")); q != "" && supported[q] {
				if s.Locale != q {
					s.Locale = q
					s.MarkDirty()
				}
				http.SetCookie(w, &http.Cookie{Name: localeCookieName, Value: q, Path: "/", SameSite: http.SameSiteLaxMode})
			} else if s.Locale == "" || !supported[s.Locale] {
				if c, err := r.Cookie(localeCookieName); err == nil && supported[strings.ToLower(c.Value)] {
					s.Locale = strings.ToLower(c.Value)
				} else {
					s.Locale = bundle.Resolve(r.Header.Get("Accept-Language"))
				}
				s.MarkDirty()
			}
			w.Header().Set("Content-Language", s.Locale)
			w.Header().Add("Vary", "Accept-Language")
			next.ServeHTTP(w, r)
		})
	}
}

// Lang returns the request language, falling back to the bundle default and then "en".
func Lang(r *http.Request) string {
	if s := GetSession(r); s.Locale != "" {
		return s.Locale
	}
	if fb, ok := r.Context().Value(ctxKeyLocaleFB).(string); ok && fb != "" {
		return fb
	}
	return "en"
}
