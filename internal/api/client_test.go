package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"autohub.ng/autohub-web/internal/api"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := api.NewClient(ts.URL + "/api/v1")
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsRelativeBase(t *testing.T) {
	t.Parallel()

	_, err := api.NewClient("")
	require.Error(t, err)
	_, err = api.NewClient("api/v1")
	require.Error(t, err)
}

func TestDoMergesDefaultHeaders(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/cars", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "yes", r.Header.Get("X-Extra"))
		_, _ = io.WriteString(w, `{"data":[],"meta":{"current_page":1,"last_page":1}}`)
	})

	var out api.CarPage
	_, err := c.Do(context.Background(), api.Request{
		Path:   "/cars",
		Header: http.Header{"X-Extra": {"yes"}},
	}, &out)
	require.NoError(t, err)
	require.Equal(t, 1, out.Meta.LastPage)
}

func TestDoRejectsRedirects(t *testing.T) {
	t.Parallel()

	var followed bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/elsewhere" {
			followed = true
			_, _ = io.WriteString(w, `{}`)
			return
		}
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	})

	_, err := c.Do(context.Background(), api.Request{Path: "/cars"}, nil)
	require.ErrorIs(t, err, api.ErrUnexpectedRedirect)
	require.False(t, followed, "redirect must not be followed")
}

func TestDoNon2xxUsesBodyText(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, "  phone is invalid \n")
	})

	_, err := c.Do(context.Background(), api.Request{Path: "/contact", Method: http.MethodPost, Body: map[string]string{}}, nil)
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnprocessableEntity, se.Status)
	require.Equal(t, "phone is invalid", se.Message)
}

func TestDoNon2xxPrefersJSONMessage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"database unavailable"}`)
	})

	_, err := c.Do(context.Background(), api.Request{Path: "/cars"}, nil)
	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "database unavailable", se.Message)
}

func TestDoTransportError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := ts.URL
	ts.Close()

	c, err := api.NewClient(base)
	require.NoError(t, err)
	_, err = c.Do(context.Background(), api.Request{Path: "/cars"}, nil)
	var te *api.TransportError
	require.ErrorAs(t, err, &te)
}

func TestGetCarNotFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such car", http.StatusNotFound)
	})

	_, err := c.GetCar(context.Background(), 99)
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestGetCarDecodesLoanBlock(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/cars/7", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":{
			"id":7,"brand":{"name":"Toyota"},"model":"Camry","year":2019,"trim":"SE",
			"price":"12500000.00","mileage":54000,
			"loan":{"available":true,"precomputed":{"down_payment_percent":30,
				"tenures":{"m_12":{"loan_amount":8750000,"monthly_payment":"850000.50","total_interest":1456006,"total_payable":10206006}}}}}}`)
	})

	car, err := c.GetCar(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "2019 Toyota Camry SE", car.Title())
	require.True(t, car.Price.Equal(decimal.NewFromInt(12500000)))
	require.True(t, car.Loan.Available)
	require.NotNil(t, car.Loan.Precomputed)
	require.Equal(t, "850000.5", car.Loan.Precomputed.Tenures["m_12"].MonthlyPayment.String())
}

func TestListCarsSendsQuery(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "5000000", r.URL.Query().Get("price_max"))
		_, has := r.URL.Query()["price_min"]
		require.False(t, has)
		_, _ = io.WriteString(w, `{"data":[{"id":1}],"meta":{"current_page":2,"last_page":3}}`)
	})

	page, err := c.ListCars(context.Background(), url.Values{"page": {"2"}, "price_max": {"5000000"}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.Equal(t, 3, page.Meta.LastPage)
}

func TestListCarsAcceptsNumericStrings(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[
			{"id":"9","brand":{"name":"Lexus"},"model":"RX 350","year":"2018","mileage":"72,500","price":"21000000"},
			{"id":10,"year":2020,"mileage":null,"price":15000000}],
			"meta":{"current_page":"1","last_page":"4","per_page":"12","total":"40"}}`)
	})

	page, err := c.ListCars(context.Background(), url.Values{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	require.EqualValues(t, 9, page.Data[0].ID)
	require.Equal(t, 2018, page.Data[0].Year)
	require.EqualValues(t, 72500, page.Data[0].Mileage)
	require.Equal(t, "2018 Lexus RX 350", page.Data[0].Title())
	require.EqualValues(t, 10, page.Data[1].ID)
	require.Zero(t, page.Data[1].Mileage)
	require.Equal(t, api.PageMeta{CurrentPage: 1, LastPage: 4, PerPage: 12, Total: 40}, page.Meta)
}

func TestListCarsRejectsNonNumericCounters(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[],"meta":{"current_page":1,"last_page":"many"}}`)
	})

	_, err := c.ListCars(context.Background(), url.Values{})
	require.Error(t, err)
}

func TestCarouselConditionalFetch(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v3"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v3"`)
		_ = json.NewEncoder(w).Encode(api.CarouselResponse{Success: true, Version: 3, Data: []api.Slide{{Image: "a.jpg"}}})
	})

	first, err := c.Carousel(context.Background(), "")
	require.NoError(t, err)
	require.False(t, first.NotModified)
	require.Equal(t, `"v3"`, first.ETag)
	require.EqualValues(t, 3, first.Response.Version)

	second, err := c.Carousel(context.Background(), first.ETag)
	require.NoError(t, err)
	require.True(t, second.NotModified)
	require.Equal(t, `"v3"`, second.ETag)
}

func TestSiteSettingsAcceptsEnvelopeAndFlat(t *testing.T) {
	t.Parallel()

	enveloped := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"company_name":"AutoHub","whatsapp_number":"08030000000"}}`)
	})
	s, err := enveloped.SiteSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, "AutoHub", s.CompanyName)

	flat := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"company_name":"AutoHub Flat"}`)
	})
	s, err = flat.SiteSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, "AutoHub Flat", s.CompanyName)
}

func TestSubmitLeadSendsIdempotencyKey(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/pre-orders", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		_, _ = io.WriteString(w, `{"success":true,"whatsapp_url":"https://wa.me/2348030000000"}`)
	})

	resp, err := c.SubmitLead(context.Background(), api.PathPreOrders, map[string]string{"first_name": "Ada"})
	require.NoError(t, err)
	require.Equal(t, "https://wa.me/2348030000000", resp.FollowUpURL())

	_, err = c.SubmitLead(context.Background(), "/admin", nil)
	require.Error(t, err)
}
