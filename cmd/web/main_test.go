package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/config"
)

// fakeAPI is an in-process marketplace API recording what the web tier asks for.
type fakeAPI struct {
	t *testing.T

	mu        sync.Mutex
	listCalls []url.Values
	leads     []recordedLead

	carouselVersion int64
	lastPage        int
	leadResponse    map[string]any

	slowArrived chan struct{}
	slowGate    chan struct{}
}

type recordedLead struct {
	Path    string
	Payload map[string]any
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	f := &fakeAPI{
		t:               t,
		carouselVersion: 3,
		lastPage:        3,
		leadResponse:    map[string]any{"success": true},
		slowArrived:     make(chan struct{}),
		slowGate:        make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/cars", f.listCars)
	mux.HandleFunc("/api/v1/cars/featured-cars", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{financedCar(), plainCar()}})
	})
	mux.HandleFunc("/api/v1/cars/", func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/api/v1/cars/") {
		case "42":
			writeJSON(w, http.StatusOK, map[string]any{"data": financedCar()})
		case "7":
			writeJSON(w, http.StatusOK, map[string]any{"data": plainCar()})
		default:
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Car not found"})
		}
	})
	mux.HandleFunc("/api/v1/site-settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"company_name":    "AutoHub",
			"phone":           "+234 803 000 0000",
			"email":           "sales@autohub.ng",
			"whatsapp_number": "08030000000",
		}})
	})
	mux.HandleFunc("/api/v1/carousel", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		v := f.carouselVersion
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"version": v,
			"data": []any{
				map[string]any{"image": "https://cdn.autohub.ng/slides/1.jpg"},
				map[string]any{"image": "https://cdn.autohub.ng/slides/2.jpg", "link": "/loans"},
				map[string]any{"image": ""},
			},
		})
	})
	for _, p := range []string{"/pre-orders", "/loan-applications", "/sell-swap", "/contact"} {
		path := p
		mux.HandleFunc("/api/v1"+path, func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.NotEmpty(t, r.Header.Get("Idempotency-Key"))
			f.mu.Lock()
			f.leads = append(f.leads, recordedLead{Path: path, Payload: payload})
			resp := f.leadResponse
			f.mu.Unlock()
			writeJSON(w, http.StatusCreated, resp)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) listCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.listCalls = append(f.listCalls, q)
	last := f.lastPage
	f.mu.Unlock()

	switch q.Get("search") {
	case "slow":
		close(f.slowArrived)
		<-f.slowGate
	case "nothing":
		last = 0
	}

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	data := []any{}
	if last > 0 && page <= last {
		data = append(data, financedCar(), plainCar())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"meta": map[string]any{"current_page": page, "last_page": last, "per_page": 12, "total": last * 2},
	})
}

func (f *fakeAPI) calls() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.listCalls...)
}

func (f *fakeAPI) submitted() []recordedLead {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedLead(nil), f.leads...)
}

func financedCar() map[string]any {
	return map[string]any{
		"id": 42, "brand": map[string]any{"name": "Toyota"}, "model": "Camry", "year": 2019, "trim": "SE",
		"price": 10000000, "mileage": 54000, "condition": "foreign_used", "fuel_type": "petrol",
		"transmission": "automatic", "location": "Lagos",
		"featured_image": "https://cdn.autohub.ng/cars/42/front.jpg",
		"images":         []string{"https://cdn.autohub.ng/cars/42/front.jpg", "https://cdn.autohub.ng/cars/42/side.jpg"},
		"features":       []string{"Reverse camera", "Leather seats"},
		"description":    `<p>Clean <strong>Camry</strong> with full service history.</p><script>alert(1)</script>`,
		"loan": map[string]any{
			"available": true,
			"precomputed": map[string]any{
				"down_payment_percent": 30,
				"tenures": map[string]any{
					"m_12": map[string]any{"loan_amount": 7000000, "monthly_payment": "680000", "total_interest": 1160000, "total_payable": 8160000},
					"m_24": map[string]any{"loan_amount": 7000000, "monthly_payment": 372500, "total_interest": 1940000, "total_payable": 8940000},
					"m_6":  map[string]any{"loan_amount": 7000000, "monthly_payment": 1250000, "total_interest": 500000, "total_payable": 7500000},
				},
			},
		},
	}
}

func plainCar() map[string]any {
	return map[string]any{
		"id": 7, "brand": map[string]any{"name": "Honda"}, "model": "Accord", "year": 2015,
		"price": "6500000", "mileage": 98000, "location": "Abuja",
		"featured_image": "https://cdn.autohub.ng/cars/7/front.jpg",
		"loan":           map[string]any{"available": false},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// testSite is the web tier under test, served over HTTP with a cookie-aware client.
type testSite struct {
	t      *testing.T
	api    *fakeAPI
	srv    *httptest.Server
	client *http.Client
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	fake, apiSrv := newFakeAPI(t)
	cfg, err := config.Load(context.Background(),
		config.WithoutSystemEnv(),
		config.WithEnvFile(""),
		config.WithEnvMap(map[string]string{
			"AUTOHUB_WEB_ENV":       "test",
			"AUTOHUB_API_BASE_URL":  apiSrv.URL + "/api/v1",
			"AUTOHUB_API_TIMEOUT":   "5s",
			"AUTOHUB_TEMPLATES_DIR": "../../templates",
			"AUTOHUB_PUBLIC_DIR":    "../../public",
			"AUTOHUB_CONTENT_DIR":   "../../content",
			"AUTOHUB_LOCALES_DIR":   "../../locales",
		}),
	)
	require.NoError(t, err)

	web, err := newApp(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	srv := httptest.NewServer(web.routes())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testSite{t: t, api: fake, srv: srv, client: client}
}

func (s *testSite) do(method, path string, form url.Values, htmx bool) *http.Response {
	s.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, s.srv.URL+path, body)
	require.NoError(s.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	if method != http.MethodGet {
		req.Header.Set("X-CSRF-Token", s.csrfToken())
	}
	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	s.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *testSite) get(path string) *http.Response { return s.do(http.MethodGet, path, nil, false) }

func (s *testSite) csrfToken() string {
	s.t.Helper()
	u, err := url.Parse(s.srv.URL)
	require.NoError(s.t, err)
	for _, c := range s.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	s.t.Fatal("csrf cookie missing: load a page before posting")
	return ""
}

func parseHTML(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func TestHealthzOK(t *testing.T) {
	site := newTestSite(t)
	resp := site.get("/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	require.Equal(t, "ok", strings.TrimSpace(string(b)))
}

func TestReadinessReportsDependencies(t *testing.T) {
	site := newTestSite(t)
	resp := site.get("/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		State      string `json:"state"`
		Components []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"components"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	// The poller is not running in tests, so the carousel has nothing loaded yet.
	require.Equal(t, "degraded", body.State)
	require.Len(t, body.Components, 2)
	require.Equal(t, "api", body.Components[0].Name)
	require.Equal(t, "operational", body.Components[0].Status)
}

func TestHomeRendersFeaturedCarsAndCarousel(t *testing.T) {
	site := newTestSite(t)
	resp := site.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := parseHTML(t, resp)

	require.Equal(t, 2, doc.Find("#featured .car-card").Length())
	carousel := doc.Find("#hero-carousel")
	require.Equal(t, "3", carousel.AttrOr("data-version", ""))
	require.Equal(t, "40", carousel.AttrOr("data-swipe-threshold", ""))
	require.Equal(t, 2, carousel.Find(".carousel-slide").Length(), "slides without an image are dropped")
	require.Equal(t, "https://cdn.autohub.ng/slides/2.jpg", carousel.AttrOr("data-preload-next", ""))
	require.GreaterOrEqual(t, doc.Find(`script[type="application/ld+json"]`).Length(), 2)
	require.Contains(t, doc.Find(".whatsapp-fab").AttrOr("href", ""), "https://wa.me/2348030000000?text=")

	calls := site.api.calls()
	require.Len(t, calls, 1)
	require.Equal(t, "1", calls[0].Get("loan_available"))
}

func TestHomeSlideQueryNavigatesWithoutScript(t *testing.T) {
	site := newTestSite(t)
	doc := parseHTML(t, site.get("/?slide=1"))
	require.Equal(t, "1", doc.Find("#hero-carousel").AttrOr("data-current", ""))
	require.Equal(t, "/?slide=0", doc.Find(".carousel-next").AttrOr("href", ""))
}

func TestListingFragmentPushesFilterState(t *testing.T) {
	site := newTestSite(t)
	resp := site.do(http.MethodGet, "/cars/results?price_max=5%2C000%2C000", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/cars?price_max=5000000", resp.Header.Get("HX-Push-Url"))

	calls := site.api.calls()
	require.Len(t, calls, 1)
	require.Equal(t, "5000000", calls[0].Get("price_max"))
	require.NotContains(t, calls[0], "price_min")

	doc := parseHTML(t, resp)
	require.Equal(t, 2, doc.Find(".car-card").Length())
}

func TestListingClampsPastLastPageWithOneRefetch(t *testing.T) {
	site := newTestSite(t)
	resp := site.do(http.MethodGet, "/cars/results?page=9&search=camry", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/cars?page=3&search=camry", resp.Header.Get("HX-Push-Url"))

	calls := site.api.calls()
	require.Len(t, calls, 2)
	require.Equal(t, "9", calls[0].Get("page"))
	require.Equal(t, "3", calls[1].Get("page"))

	doc := parseHTML(t, resp)
	require.Equal(t, "3", strings.TrimSpace(doc.Find(".pager-current").Text()))
}

func TestLoansListingForcesFinancing(t *testing.T) {
	site := newTestSite(t)
	resp := site.get("/loans?year_min=2015&location=Lagos")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	calls := site.api.calls()
	require.Len(t, calls, 1)
	require.Equal(t, "1", calls[0].Get("loan_available"))
	require.Equal(t, "Lagos", calls[0].Get("location"))
	require.Empty(t, calls[0].Get("year_min"), "the loans page does not expose a year filter")

	doc := parseHTML(t, resp)
	require.Equal(t, 0, doc.Find(`input[name="year_min"]`).Length())
}

func TestEmptyListingShowsEmptyState(t *testing.T) {
	site := newTestSite(t)
	doc := parseHTML(t, site.get("/cars?search=nothing"))
	require.Equal(t, 1, doc.Find(".empty-state").Length())
	require.Equal(t, 0, doc.Find(".pager").Length())
}

func TestStaleListingResponseIsDropped(t *testing.T) {
	site := newTestSite(t)
	site.get("/cars") // establishes the session both requests share

	slow := make(chan *http.Response, 1)
	go func() {
		slow <- site.do(http.MethodGet, "/cars/results?search=slow", nil, true)
	}()
	<-site.api.slowArrived

	fresh := site.do(http.MethodGet, "/cars/results?search=fast", nil, true)
	require.Equal(t, http.StatusOK, fresh.StatusCode)
	require.Equal(t, "/cars?search=fast", fresh.Header.Get("HX-Push-Url"))

	close(site.api.slowGate)
	stale := <-slow
	require.Equal(t, http.StatusNoContent, stale.StatusCode)
	require.Equal(t, "none", stale.Header.Get("HX-Reswap"))
	require.Empty(t, stale.Header.Get("HX-Push-Url"))
}

func TestCarDetailDefaultsToShortestTenure(t *testing.T) {
	site := newTestSite(t)
	resp := site.get("/cars/42")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := parseHTML(t, resp)

	panel := doc.Find("#loan-panel")
	require.Equal(t, 1, panel.Length())
	require.Equal(t, "m_6", panel.AttrOr("data-tenure", ""))
	require.Equal(t, "₦3,000,000", strings.TrimSpace(panel.Find(".down-payment").Text()))
	require.Equal(t, "₦1,250,000", strings.TrimSpace(panel.Find(".monthly").Text()))
	require.Equal(t, []string{"6 months", "12 months", "24 months"}, panel.Find(".tenure-tabs a").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	}))

	desc, err := doc.Find(".car-description").Html()
	require.NoError(t, err)
	require.Contains(t, desc, "<strong>Camry</strong>")
	require.NotContains(t, desc, "<script>")
	require.Contains(t, doc.Find(`meta[name="description"]`).AttrOr("content", ""), "Clean Camry with full service history.")
}

func TestCarWithoutFinancingHasNoLoanSection(t *testing.T) {
	site := newTestSite(t)
	doc := parseHTML(t, site.get("/cars/7"))
	require.Equal(t, 0, doc.Find("#loan-panel").Length())
	require.Equal(t, "2015 Honda Accord", strings.TrimSpace(doc.Find("h1").First().Text()))
}

func TestLoanFragmentSwitchesTenure(t *testing.T) {
	site := newTestSite(t)
	resp := site.do(http.MethodGet, "/cars/42/loan?tenure=m_24", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := parseHTML(t, resp)
	require.Equal(t, "m_24", doc.Find("#loan-panel").AttrOr("data-tenure", ""))
	require.Equal(t, "₦372,500", strings.TrimSpace(doc.Find(".monthly").Text()))
	require.Equal(t, "/loan-application?car_id=42&loan_term=24", doc.Find("#loan-panel a.button").AttrOr("href", ""))
}

func TestUnknownCarIs404(t *testing.T) {
	site := newTestSite(t)
	require.Equal(t, http.StatusNotFound, site.get("/cars/999").StatusCode)
	require.Equal(t, http.StatusNotFound, site.get("/cars/not-a-number").StatusCode)
}

func TestPreOrderBudgetErrorsShowModalWithoutUpstreamCall(t *testing.T) {
	site := newTestSite(t)
	site.get("/pre-order")

	resp := site.do(http.MethodPost, "/pre-order", url.Values{
		"first_name":          {"Ada"},
		"last_name":           {"Eze"},
		"email":               {"ada@example.com"},
		"phone":               {"08031234567"},
		"vehicle_type":        {"electric_scooter"},
		"budget_min":          {"900000"},
		"budget_max":          {"300000"},
		"destination_country": {"Nigeria"},
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "#modal-root", resp.Header.Get("HX-Retarget"))
	doc := parseHTML(t, resp)
	require.Equal(t, "Minimum budget cannot be greater than maximum budget", strings.TrimSpace(doc.Find(".form-errors li").First().Text()))
	require.Empty(t, site.api.submitted())
}

func TestPreOrderElectricBikeSubmitsAndOffersFollowUp(t *testing.T) {
	site := newTestSite(t)
	site.api.leadResponse = map[string]any{"success": true, "message": "Pre-order received", "whatsapp_url": "https://wa.me/2348030000000?text=Pre-order"}
	site.get("/pre-order")

	resp := site.do(http.MethodPost, "/pre-order", url.Values{
		"first_name":          {"Ada"},
		"last_name":           {"Eze"},
		"email":               {"ada@example.com"},
		"phone":               {"+234 803 123 4567"},
		"vehicle_type":        {"electric_bike"},
		"brand":               {""},
		"model":               {""},
		"budget_min":          {"300000"},
		"budget_max":          {"900000"},
		"destination_country": {"Nigeria"},
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, resp.Header.Get("HX-Redirect"))
	doc := parseHTML(t, resp)
	require.Contains(t, doc.Find(".form-success p").Text(), "Pre-order received")
	require.Equal(t, "https://wa.me/2348030000000?text=Pre-order", doc.Find(".form-success a.follow-up").AttrOr("href", ""))

	leads := site.api.submitted()
	require.Len(t, leads, 1)
	require.Equal(t, "/pre-orders", leads[0].Path)
	require.NotContains(t, leads[0].Payload, "brand")
	require.NotContains(t, leads[0].Payload, "model")
	require.Equal(t, "electric_bike", leads[0].Payload["vehicle_type"])
}

func TestLeadFollowUpDropsUnsafeScheme(t *testing.T) {
	site := newTestSite(t)
	site.api.leadResponse = map[string]any{"success": true, "message": "Thanks", "redirect": "javascript:alert(1)"}
	site.get("/contact")

	resp := site.do(http.MethodPost, "/contact", url.Values{
		"first_name": {"Ada"},
		"last_name":  {"Eze"},
		"email":      {"ada@example.com"},
		"phone":      {"08031234567"},
		"message":    {"Is the Camry still available?"},
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, resp.Header.Get("HX-Redirect"))
	doc := parseHTML(t, resp)
	require.Contains(t, doc.Find(".form-success p").Text(), "Thanks")
	require.Zero(t, doc.Find(".form-success a").Length())
	require.Len(t, site.api.submitted(), 1)
}

func TestContactPlainPostRerendersWithErrors(t *testing.T) {
	site := newTestSite(t)
	site.get("/contact?car_id=42")

	resp := site.do(http.MethodPost, "/contact", url.Values{"first_name": {"Ada"}, "car_id": {"42"}}, false)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	doc := parseHTML(t, resp)
	require.GreaterOrEqual(t, doc.Find(".notice-error .form-errors li").Length(), 3)
	require.Equal(t, "Ada", doc.Find(`input[name="first_name"]`).AttrOr("value", ""))
	require.Equal(t, 1, doc.Find(".form-car .car-card").Length())
}

func TestFormPostWithoutCSRFIsRejected(t *testing.T) {
	site := newTestSite(t)
	site.get("/contact")
	req, err := http.NewRequest(http.MethodPost, site.srv.URL+"/contact", strings.NewReader("message=hi"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := site.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Empty(t, site.api.submitted())
}

func TestCarouselFragmentUnchangedVersionIs204(t *testing.T) {
	site := newTestSite(t)
	same := site.do(http.MethodGet, "/carousel?v=3", nil, true)
	require.Equal(t, http.StatusNoContent, same.StatusCode)
	require.Equal(t, "none", same.Header.Get("HX-Reswap"))

	older := site.do(http.MethodGet, "/carousel?v=2", nil, true)
	require.Equal(t, http.StatusOK, older.StatusCode)
	doc := parseHTML(t, older)
	require.Equal(t, "3", doc.Find("#hero-carousel").AttrOr("data-version", ""))
}

func TestContentPages(t *testing.T) {
	site := newTestSite(t)
	resp := site.get("/about")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := parseHTML(t, resp)
	require.Equal(t, "About AutoHub", strings.TrimSpace(doc.Find("article.prose h1").Text()))
	require.Equal(t, 1, doc.Find(`article.prose a[href="/contact"]`).Length())

	for _, p := range []string{"/terms", "/privacy", "/faq"} {
		require.Equal(t, http.StatusOK, site.get(p).StatusCode, p)
	}
	require.Equal(t, http.StatusNotFound, site.get("/careers").StatusCode)
}

func TestThemeToggleBroadcastsAndPersists(t *testing.T) {
	site := newTestSite(t)
	doc := parseHTML(t, site.get("/"))
	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))

	resp := site.do(http.MethodPost, "/ui/theme", url.Values{}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"ui:theme":{"theme":"dark"}}`, resp.Header.Get("HX-Trigger"))

	doc = parseHTML(t, site.get("/cars"))
	require.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))
	require.Equal(t, "true", doc.Find(".theme-toggle").AttrOr("aria-pressed", ""))
}

func TestMetricsExposed(t *testing.T) {
	site := newTestSite(t)
	site.get("/cars")
	resp := site.get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(b), "autohub_api_requests_total")
}
