package middleware

import (
	"net/http"

	"autohub.ng/autohub-web/internal/uistate"
)

// UIState resolves the session theme into the request context.
func UIState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		state := uistate.State{Theme: uistate.Normalize(s.Theme)}
		next.ServeHTTP(w, r.WithContext(uistate.WithState(r.Context(), state)))
	})
}

// SetUIState persists state in the session and announces the change to htmx listeners.
func SetUIState(w http.ResponseWriter, r *http.Request, state uistate.State) {
	s := GetSession(r)
	if s.Theme != state.Theme {
		s.Theme = state.Theme
		s.MarkDirty()
	}
	Trigger(w, uistate.ChangedEvent, map[string]string{"theme": state.Theme})
}
