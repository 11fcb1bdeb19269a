package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Lead submission paths.
const (
	PathPreOrders        = "/pre-orders"
	PathLoanApplications = "/loan-applications"
	PathSellSwap         = "/sell-swap"
	PathContact          = "/contact"
)

const idempotencyHeader = "Idempotency-Key"

// ListCars fetches one page of the catalog. The query is sent verbatim.
func (c *Client) ListCars(ctx context.Context, query url.Values) (CarPage, error) {
	var page CarPage
	if _, err := c.Do(ctx, Request{Endpoint: "cars.list", Path: "/cars", Query: query}, &page); err != nil {
		return CarPage{}, err
	}
	if page.Data == nil {
		page.Data = []Car{}
	}
	return page, nil
}

// GetCar fetches one listing. Unknown ids yield ErrNotFound.
func (c *Client) GetCar(ctx context.Context, id int64) (Car, error) {
	if id <= 0 {
		return Car{}, ErrNotFound
	}
	var payload struct {
		Data *Car `json:"data"`
	}
	path := "/cars/" + url.PathEscape(strconv.FormatInt(id, 10))
	if _, err := c.Do(ctx, Request{Endpoint: "cars.get", Path: path}, &payload); err != nil {
		return Car{}, err
	}
	if payload.Data == nil {
		return Car{}, ErrNotFound
	}
	return *payload.Data, nil
}

// FeaturedCars fetches the curated home page selection.
func (c *Client) FeaturedCars(ctx context.Context) ([]Car, error) {
	var payload struct {
		Data []Car `json:"data"`
	}
	if _, err := c.Do(ctx, Request{Endpoint: "cars.featured", Path: "/cars/featured-cars"}, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return []Car{}, nil
	}
	return payload.Data, nil
}

// SiteSettings fetches company metadata. Both enveloped ({"data": {...}}) and flat bodies are accepted.
func (c *Client) SiteSettings(ctx context.Context) (SiteSettings, error) {
	var raw json.RawMessage
	if _, err := c.Do(ctx, Request{Endpoint: "site_settings", Path: "/site-settings"}, &raw); err != nil {
		return SiteSettings{}, err
	}
	var env struct {
		Data *SiteSettings `json:"data"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
			return *env.Data, nil
		}
	}
	var flat SiteSettings
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &flat); err != nil {
			return SiteSettings{}, fmt.Errorf("api: decode site settings: %w", err)
		}
	}
	return flat, nil
}

// CarouselResult is the outcome of a conditional carousel fetch.
type CarouselResult struct {
	Response    CarouselResponse
	ETag        string
	NotModified bool
}

// Carousel fetches the slide set, sending If-None-Match when etag is known.
// A 304 answer is reported through NotModified rather than as an error.
func (c *Client) Carousel(ctx context.Context, etag string) (CarouselResult, error) {
	req := Request{Endpoint: "carousel", Path: "/carousel"}
	if etag = strings.TrimSpace(etag); etag != "" {
		req.Header = http.Header{"If-None-Match": {etag}}
	}
	var body CarouselResponse
	meta, err := c.Do(ctx, req, &body)
	if errors.Is(err, ErrNotModified) {
		return CarouselResult{ETag: etag, NotModified: true}, nil
	}
	if err != nil {
		return CarouselResult{}, err
	}
	next := ""
	if meta.Header != nil {
		next = meta.Header.Get("ETag")
	}
	return CarouselResult{Response: body, ETag: next}, nil
}

// SubmitLead posts a lead payload to one of the lead endpoints.
func (c *Client) SubmitLead(ctx context.Context, path string, payload any) (LeadResponse, error) {
	switch path {
	case PathPreOrders, PathLoanApplications, PathSellSwap, PathContact:
	default:
		return LeadResponse{}, fmt.Errorf("api: unknown lead endpoint %q", path)
	}
	var resp LeadResponse
	req := Request{
		Endpoint: "leads" + strings.ReplaceAll(path, "/", "."),
		Method:   http.MethodPost,
		Path:     path,
		Header:   http.Header{idempotencyHeader: {uuid.NewString()}},
		Body:     payload,
	}
	if _, err := c.Do(ctx, req, &resp); err != nil {
		return LeadResponse{}, err
	}
	return resp, nil
}
