package handlers

import (
	"html/template"
	"net/http"
	"time"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/i18n"
	mw "autohub.ng/autohub-web/internal/middleware"
	"autohub.ng/autohub-web/internal/nav"
	"autohub.ng/autohub-web/internal/seo"
	"autohub.ng/autohub-web/internal/settings"
	"autohub.ng/autohub-web/internal/uistate"
)

// PageData is the view model of every full page rendered with the shared layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       seo.Meta
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	Settings    api.SiteSettings
	UI          uistate.State
	CSRFToken   string
	WhatsAppURL string
	Year        int
	JSONLD      []template.JS

	// Per-page payload.
	Body any
}

// Layout fills the parts of PageData shared by all pages.
type Layout struct {
	Settings  *settings.Service
	Bundle    *i18n.Bundle
	Analytics Analytics
	SiteURL   string
	Now       func() time.Time
}

// Page builds the layout model for r. leaf overrides the last breadcrumb label.
func (l *Layout) Page(r *http.Request, title, description, leaf string, body any) PageData {
	ctx := r.Context()
	st := l.Settings.Get(ctx)
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	lang := mw.Lang(r)
	brand := st.CompanyName

	vm := PageData{
		Title:       title,
		Lang:        lang,
		Analytics:   l.Analytics,
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path, leaf),
		Settings:    st,
		UI:          uistate.FromContext(ctx),
		CSRFToken:   mw.CSRFToken(r),
		WhatsAppURL: l.Settings.WhatsAppLink(ctx, l.T(lang, "whatsapp.greeting")),
		Year:        now().Year(),
		Body:        body,
	}

	vm.SEO.Title = title
	if brand != "" && title != brand {
		vm.SEO.Title = title + " | " + brand
	}
	vm.SEO.Description = description
	vm.SEO.Canonical = l.SiteURL + r.URL.RequestURI()
	vm.SEO.OG = seo.OpenGraph{Title: vm.SEO.Title, Description: description, Type: "website"}
	vm.SEO.Twitter.Card = "summary_large_image"
	return vm
}

// T translates key, returning the key itself when no bundle is configured.
func (l *Layout) T(lang, key string, args ...any) string {
	if l.Bundle == nil {
		return key
	}
	return l.Bundle.T(lang, key, args...)
}

// AddJSONLD appends a schema.org payload.
func (p *PageData) AddJSONLD(v any) {
	p.JSONLD = append(p.JSONLD, seo.JSON(v))
}

// Crumbs converts the breadcrumbs into the schema.org list, resolving labels with t.
func (p *PageData) Crumbs(siteURL string, t func(key string) string) []seo.BreadcrumbItem {
	items := make([]seo.BreadcrumbItem, 0, len(p.Breadcrumbs))
	for _, c := range p.Breadcrumbs {
		name := c.Label
		if c.LabelKey != "" {
			name = t(c.LabelKey)
		}
		items = append(items, seo.BreadcrumbItem{Name: name, Item: siteURL + c.Href})
	}
	return items
}
