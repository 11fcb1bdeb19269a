package main

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/leads"
	mw "autohub.ng/autohub-web/internal/middleware"
	"autohub.ng/autohub-web/internal/observability"
)

const maxFormBytes = 64 << 10

func (a *app) formPageTitle(lang string, f leadForm) (string, string) {
	return a.bundle.T(lang, "form."+f.Kind+".title"), a.bundle.T(lang, "form."+f.Kind+".description")
}

// attachCar shows the car the form refers to (car_id), when it can be loaded.
func (a *app) attachCar(r *http.Request, view *FormView) {
	id, err := strconv.ParseInt(view.Value("car_id"), 10, 64)
	if err != nil || id <= 0 {
		return
	}
	car, err := a.api.GetCar(r.Context(), id)
	if err != nil {
		observability.FromContext(r.Context()).Debug("form car lookup failed", zap.Int64("car_id", id), zap.Error(err))
		return
	}
	card := newCarCard(car)
	view.Car = &card
}

// leadFormPage renders an empty form, prefilled from the query string (car_id, loan_term).
func (a *app) leadFormPage(f leadForm) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := mw.Lang(r)
		view := newFormView(lang, f, r.URL.Query())
		view.CSRFToken = mw.CSRFToken(r)
		a.attachCar(r, &view)
		title, desc := a.formPageTitle(lang, f)
		a.views.renderPage(w, r, "form", http.StatusOK, a.layout.Page(r, title, desc, "", view))
	}
}

// leadFormSubmit validates and forwards a form. htmx requests get the errors in a blocking
// modal; plain browser posts get the page re-rendered with the same messages.
func (a *app) leadFormSubmit(f leadForm) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := mw.Lang(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		form, err := leads.Parse(f.Kind, r.PostForm)
		if err != nil {
			http.Error(w, "unknown form", http.StatusNotFound)
			return
		}

		view := newFormView(lang, f, r.PostForm)
		view.CSRFToken = mw.CSRFToken(r)
		htmx := mw.IsHTMX(r.Context())

		out, err := a.leads.Submit(r.Context(), form)
		if err != nil {
			view = view.withError(err)
			if htmx {
				mw.Retarget(w, "#modal-root", "innerHTML")
				a.views.renderFragment(w, r, "frag_form_errors", http.StatusOK, view)
				return
			}
			a.attachCar(r, &view)
			title, desc := a.formPageTitle(lang, f)
			a.views.renderPage(w, r, "form", http.StatusUnprocessableEntity, a.layout.Page(r, title, desc, "", view))
			return
		}

		view.FollowUpURL = followUpURL(out.FollowUpURL)
		view.Success = strings.TrimSpace(out.Message)
		if view.Success == "" {
			view.Success = a.bundle.T(lang, "form.success")
		}
		if htmx {
			a.views.renderFragment(w, r, "frag_form_success", http.StatusOK, view)
			return
		}
		title, desc := a.formPageTitle(lang, f)
		a.views.renderPage(w, r, "form", http.StatusOK, a.layout.Page(r, title, desc, "", view))
	}
}
