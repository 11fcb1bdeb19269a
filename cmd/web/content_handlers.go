package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/content"
	mw "autohub.ng/autohub-web/internal/middleware"
	"autohub.ng/autohub-web/internal/observability"
)

// contentPage renders a static markdown page.
func (a *app) contentPage(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := mw.Lang(r)
		page, err := a.content.Page(r.Context(), slug, lang)
		if errors.Is(err, content.ErrNotFound) {
			a.NotFoundHandler(w, r)
			return
		}
		if err != nil {
			observability.FromContext(r.Context()).Error("content page failed", zap.String("slug", slug), zap.Error(err))
			a.errorPage(w, r, http.StatusInternalServerError)
			return
		}
		vm := a.layout.Page(r, page.Title, page.Description, page.Title, page)
		vm.SEO.OG.Type = "article"
		a.views.renderPage(w, r, "content", http.StatusOK, vm)
	}
}

// ErrorView is the body of error pages.
type ErrorView struct {
	Status  int
	Message string
}

// NotFoundHandler renders the 404 page.
func (a *app) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	a.errorPage(w, r, http.StatusNotFound)
}

func (a *app) errorPage(w http.ResponseWriter, r *http.Request, status int) {
	lang := mw.Lang(r)
	key := "error.generic"
	if status == http.StatusNotFound {
		key = "error.not_found"
	}
	msg := a.bundle.T(lang, key)
	vm := a.layout.Page(r, msg, msg, "", ErrorView{Status: status, Message: msg})
	a.views.renderPage(w, r, "error", status, vm)
}
