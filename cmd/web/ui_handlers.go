package main

import (
	"net/http"
	"net/url"
	"strings"

	mw "autohub.ng/autohub-web/internal/middleware"
	"autohub.ng/autohub-web/internal/uistate"
)

// ToggleThemeHandler flips the theme stored in the session and broadcasts ui:theme so every
// subscribed fragment re-renders. Plain posts are sent back to the referring page.
func (a *app) ToggleThemeHandler(w http.ResponseWriter, r *http.Request) {
	state := uistate.FromContext(r.Context()).Toggled()
	mw.SetUIState(w, r, state)
	if mw.IsHTMX(r.Context()) {
		a.views.renderFragment(w, r, "frag_theme_toggle", http.StatusOK, map[string]any{
			"Lang":      mw.Lang(r),
			"UI":        state,
			"CSRFToken": mw.CSRFToken(r),
		})
		return
	}
	http.Redirect(w, r, sameSiteReferer(r), http.StatusSeeOther)
}

// sameSiteReferer reduces the Referer to a local path so the redirect cannot leave the site.
func sameSiteReferer(r *http.Request) string {
	u, err := url.Parse(r.Referer())
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
