package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/api"
	mw "autohub.ng/autohub-web/internal/middleware"
	"autohub.ng/autohub-web/internal/observability"
	"autohub.ng/autohub-web/internal/seo"
)

const metaDescriptionLimit = 160

// loadCar fetches the car named by the {id} route parameter, answering 404/502 itself when
// it cannot.
func (a *app) loadCar(w http.ResponseWriter, r *http.Request) (api.Car, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		a.NotFoundHandler(w, r)
		return api.Car{}, false
	}
	car, err := a.api.GetCar(r.Context(), id)
	switch {
	case errors.Is(err, api.ErrNotFound):
		a.NotFoundHandler(w, r)
		return api.Car{}, false
	case err != nil:
		observability.FromContext(r.Context()).Warn("car fetch failed", zap.Int64("car_id", id), zap.Error(err))
		a.errorPage(w, r, http.StatusBadGateway)
		return api.Car{}, false
	}
	return car, true
}

// CarDetailHandler renders /cars/{id}.
func (a *app) CarDetailHandler(w http.ResponseWriter, r *http.Request) {
	car, ok := a.loadCar(w, r)
	if !ok {
		return
	}
	lang := mw.Lang(r)
	desc := a.content.Sanitize(car.Description)
	view := newCarDetailView(lang, car, r.URL.Query().Get("tenure"), desc)
	view.WhatsAppURL = a.settings.WhatsAppLink(r.Context(), a.bundle.T(lang, "car.whatsapp", car.Title()))

	metaDesc := seo.Description(string(desc), metaDescriptionLimit)
	if metaDesc == "" {
		metaDesc = a.bundle.T(lang, "car.description", car.Title(), view.Card.Price)
	}
	vm := a.layout.Page(r, car.Title(), metaDesc, car.Title(), view)
	vm.SEO.OG.Type = "product"
	vm.SEO.OG.Image = view.Card.Image
	vm.SEO.Twitter.Image = view.Card.Image
	vm.AddJSONLD(seo.Car(car, vm.SEO.Canonical, metaDesc))
	vm.AddJSONLD(seo.BreadcrumbList(vm.Crumbs(a.cfg.Server.PublicURL, func(key string) string { return a.bundle.T(lang, key) })))
	a.views.renderPage(w, r, "car", http.StatusOK, vm)
}

// CarLoanFrag re-renders the financing breakdown for another tenure. Figures always come from
// the API response; nothing is recomputed from a previous render.
func (a *app) CarLoanFrag(w http.ResponseWriter, r *http.Request) {
	car, ok := a.loadCar(w, r)
	if !ok {
		return
	}
	panel, ok := newLoanPanel(mw.Lang(r), car, r.URL.Query().Get("tenure"))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	a.views.renderFragment(w, r, "frag_loan", http.StatusOK, panel)
}
