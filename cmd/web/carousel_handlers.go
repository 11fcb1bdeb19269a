package main

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	mw "autohub.ng/autohub-web/internal/middleware"
	"autohub.ng/autohub-web/internal/observability"
)

// carouselView builds the view from the poller snapshot, polling once when nothing has been
// loaded yet (for example right after start-up).
func (a *app) carouselView(r *http.Request, slide int) CarouselView {
	snap, ok := a.carousel.Snapshot()
	if !ok {
		if _, err := a.carousel.Refresh(r.Context()); err != nil {
			observability.FromContext(r.Context()).Warn("carousel refresh failed", zap.Error(err))
		}
		snap, ok = a.carousel.Snapshot()
	}
	return newCarouselView(mw.Lang(r), snap, ok, slide, a.cfg.Carousel.Autoplay, a.cfg.Carousel.PollInterval)
}

// CarouselFrag serves the polling fragment. When the client already shows the current
// version it answers 204 and htmx leaves the DOM untouched, so the slides never flicker.
func (a *app) CarouselFrag(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	slide, _ := strconv.Atoi(q.Get("slide"))
	view := a.carouselView(r, slide)
	if !view.Loaded {
		mw.DropResponse(w)
		return
	}
	if v, err := strconv.ParseInt(q.Get("v"), 10, 64); err == nil && v == view.Deck.Version && q.Get("slide") == "" {
		mw.DropResponse(w)
		return
	}
	a.views.renderFragment(w, r, "frag_carousel", http.StatusOK, view)
}
