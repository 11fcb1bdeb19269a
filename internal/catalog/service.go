package catalog

import (
	"context"
	"net/url"

	"autohub.ng/autohub-web/internal/api"
)

// Lister is the subset of api.Client the service needs.
type Lister interface {
	ListCars(ctx context.Context, query url.Values) (api.CarPage, error)
}

// Result is the outcome of a listing fetch.
type Result struct {
	// Query is the final query after clamping; the page URL must mirror it.
	Query   Query
	Cars    []api.Car
	Meta    api.PageMeta
	Pages   []PageLink
	Clamped bool
}

// Empty reports whether the listing has no cars.
func (r Result) Empty() bool { return len(r.Cars) == 0 }

// Service fetches catalog pages. It is shared by every listing page.
type Service struct {
	lister Lister
}

// NewService wires a Service on top of the API.
func NewService(l Lister) *Service {
	return &Service{lister: l}
}

// Fetch loads the page described by q. The server's pagination metadata is authoritative:
// if q.Page is past the last page the query is clamped and refetched once.
func (s *Service) Fetch(ctx context.Context, q Query) (Result, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	page, err := s.lister.ListCars(ctx, q.APIValues())
	if err != nil {
		return Result{}, err
	}

	clamped := false
	if last := page.Meta.LastPage; last > 0 && q.Page > last {
		q.Page = last
		clamped = true
		page, err = s.lister.ListCars(ctx, q.APIValues())
		if err != nil {
			return Result{}, err
		}
	}

	if page.Meta.CurrentPage <= 0 {
		page.Meta.CurrentPage = q.Page
	}
	return Result{
		Query:   q,
		Cars:    page.Data,
		Meta:    page.Meta,
		Pages:   Pages(q, page.Meta.LastPage),
		Clamped: clamped,
	}, nil
}
