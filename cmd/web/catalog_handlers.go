package main

import (
	"net/http"

	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/catalog"
	"autohub.ng/autohub-web/internal/metrics"
	mw "autohub.ng/autohub-web/internal/middleware"
	"autohub.ng/autohub-web/internal/observability"
)

// listingPage renders a full catalog page (/cars, /loans).
func (a *app) listingPage(profile catalog.Profile, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := mw.Lang(r)
		q := catalog.Parse(r.URL.Query(), profile)
		view := newListingView(lang, path, q)

		status := http.StatusOK
		res, err := a.catalog.Fetch(r.Context(), q)
		if err != nil {
			observability.FromContext(r.Context()).Warn("catalog fetch failed", zap.String("listing", profile.Name), zap.Error(err))
			view.Error = a.bundle.T(lang, "catalog.error")
			status = http.StatusBadGateway
		} else {
			view = view.withResult(res)
		}

		title := a.bundle.T(lang, "catalog."+profile.Name+".title")
		desc := a.bundle.T(lang, "catalog."+profile.Name+".description")
		vm := a.layout.Page(r, title, desc, "", view)
		if res.Clamped {
			vm.SEO.Canonical = a.cfg.Server.PublicURL + res.Query.URL(path)
		}
		a.views.renderPage(w, r, "listing", status, vm)
	}
}

// listingFrag renders only the results region. Each call starts a new generation for the
// client; if a newer one starts before this fetch returns, the response is dropped so the
// older result can never overwrite the newer one.
func (a *app) listingFrag(profile catalog.Profile, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		lang := mw.Lang(r)
		q := catalog.Parse(r.URL.Query(), profile)
		view := newListingView(lang, path, q)

		ticket, err := a.fence.Begin(ctx, mw.GetSession(r).ID+":"+profile.Name)
		if err != nil {
			observability.FromContext(ctx).Warn("fence unavailable", zap.Error(err))
		}

		res, err := a.catalog.Fetch(ctx, q)
		if a.fence.Stale(ctx, ticket) {
			metrics.FencedResponses.WithLabelValues(profile.Name).Inc()
			mw.DropResponse(w)
			return
		}
		if err != nil {
			observability.FromContext(ctx).Warn("catalog fetch failed", zap.String("listing", profile.Name), zap.Error(err))
			view.Error = a.bundle.T(lang, "catalog.error")
		} else {
			view = view.withResult(res)
		}
		mw.PushURL(w, view.Query.URL(path))
		a.views.renderFragment(w, r, "frag_listing", http.StatusOK, view)
	}
}
