package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/config"
	"autohub.ng/autohub-web/internal/seo"
	"autohub.ng/autohub-web/internal/settings"
)

type stubSettings struct {
	st  api.SiteSettings
	err error
}

func (s stubSettings) SiteSettings(context.Context) (api.SiteSettings, error) { return s.st, s.err }

func newLayout(f settings.Fetcher) *Layout {
	return &Layout{
		Settings: settings.NewService(f, nil, time.Minute),
		SiteURL:  "https://autohub.ng",
		Now:      func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestPageFillsLayout(t *testing.T) {
	t.Parallel()

	l := newLayout(stubSettings{st: api.SiteSettings{CompanyName: "AutoHub", WhatsAppNumber: "0803 000 0000"}})
	r := httptest.NewRequest("GET", "/cars/42?tenure=m_12", nil)

	vm := l.Page(r, "2019 Toyota Camry", "Clean Camry", "2019 Toyota Camry", "body")

	require.Equal(t, "en", vm.Lang)
	require.Equal(t, "2019 Toyota Camry | AutoHub", vm.SEO.Title)
	require.Equal(t, "https://autohub.ng/cars/42?tenure=m_12", vm.SEO.Canonical)
	require.Equal(t, "website", vm.SEO.OG.Type)
	require.Equal(t, "summary_large_image", vm.SEO.Twitter.Card)
	require.Equal(t, 2026, vm.Year)
	require.Equal(t, "body", vm.Body)
	require.Equal(t, "light", vm.UI.Theme)
	// Without a bundle the greeting key itself is the prefilled text.
	require.Equal(t, "https://wa.me/2348030000000?text=whatsapp.greeting", vm.WhatsAppURL)

	require.Len(t, vm.Breadcrumbs, 3)
	require.Equal(t, "2019 Toyota Camry", vm.Breadcrumbs[2].Label)
	for _, it := range vm.Nav {
		require.Equal(t, it.Href == "/cars", it.Active, it.Href)
	}
}

func TestPageTitleNotDuplicatedForBrand(t *testing.T) {
	t.Parallel()

	l := newLayout(stubSettings{st: api.SiteSettings{CompanyName: "AutoHub"}})
	vm := l.Page(httptest.NewRequest("GET", "/", nil), "AutoHub", "", "", nil)
	require.Equal(t, "AutoHub", vm.SEO.Title)
}

func TestPageFallsBackToDefaultSettings(t *testing.T) {
	t.Parallel()

	l := newLayout(stubSettings{err: errors.New("api down")})
	vm := l.Page(httptest.NewRequest("GET", "/contact", nil), "Contact", "", "", nil)
	require.Equal(t, settings.Defaults.CompanyName, vm.Settings.CompanyName)
	require.Equal(t, "Contact | "+settings.Defaults.CompanyName, vm.SEO.Title)
	require.NotEmpty(t, vm.WhatsAppURL)
}

func TestCrumbsResolveLabels(t *testing.T) {
	t.Parallel()

	l := newLayout(stubSettings{st: api.SiteSettings{CompanyName: "AutoHub"}})
	vm := l.Page(httptest.NewRequest("GET", "/cars/42", nil), "Camry", "", "Camry", nil)

	items := vm.Crumbs("https://autohub.ng", func(key string) string { return "[" + key + "]" })
	require.Equal(t, []seo.BreadcrumbItem{
		{Name: "[nav.home]", Item: "https://autohub.ng/"},
		{Name: "[nav.cars]", Item: "https://autohub.ng/cars"},
		{Name: "Camry", Item: "https://autohub.ng/cars/42"},
	}, items)

	vm.AddJSONLD(map[string]string{"@type": "Car"})
	require.Len(t, vm.JSONLD, 1)
}

func TestAnalyticsFromConfig(t *testing.T) {
	t.Parallel()

	require.False(t, AnalyticsFromConfig(config.AnalyticsConfig{}).Enabled())
	a := AnalyticsFromConfig(config.AnalyticsConfig{GA4MeasurementID: "G-TEST", Debug: true})
	require.True(t, a.Enabled())
	require.True(t, a.Debug)
}
