// Package uistate is the single source of presentation state (currently the colour
// theme). Middleware resolves it once per request; templates and fragments read it from
// the context and never from cookies or storage of their own.
package uistate

import "context"

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ChangedEvent is the htmx event fired when the state changes. Fragments subscribe with
// hx-trigger="ui:theme from:body".
const ChangedEvent = "ui:theme"

// State is the resolved UI state of a request.
type State struct {
	Theme string
}

// Dark reports whether the dark theme is active.
func (s State) Dark() bool { return s.Theme == ThemeDark }

// Toggled returns the state with the other theme.
func (s State) Toggled() State {
	if s.Dark() {
		return State{Theme: ThemeLight}
	}
	return State{Theme: ThemeDark}
}

// Normalize maps a stored value to a known theme, defaulting to light.
func Normalize(theme string) string {
	if theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

type ctxKey struct{}

// WithState stores s on ctx.
func WithState(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request state, or the default light state.
func FromContext(ctx context.Context) State {
	if s, ok := ctx.Value(ctxKey{}).(State); ok {
		return s
	}
	return State{Theme: ThemeLight}
}
