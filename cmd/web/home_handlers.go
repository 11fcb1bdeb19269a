package main

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/catalog"
	mw "autohub.ng/autohub-web/internal/middleware"
	"autohub.ng/autohub-web/internal/observability"
	"autohub.ng/autohub-web/internal/seo"
)

const homeLoanCars = 4

// HomeHandler renders the landing page. Featured and financeable cars are fetched
// concurrently; a failing section renders empty instead of failing the page.
func (a *app) HomeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := mw.Lang(r)
	logger := observability.FromContext(ctx)
	slide, _ := strconv.Atoi(r.URL.Query().Get("slide"))

	var (
		featured []api.Car
		loanCars []api.Car
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cars, err := a.api.FeaturedCars(gctx)
		if err != nil {
			logger.Warn("featured cars unavailable", zap.Error(err))
			return nil
		}
		featured = cars
		return nil
	})
	g.Go(func() error {
		q := catalog.Parse(nil, a.loansProfile)
		q.PerPage = homeLoanCars
		res, err := a.catalog.Fetch(gctx, q)
		if err != nil {
			logger.Warn("loan cars unavailable", zap.Error(err))
			return nil
		}
		loanCars = res.Cars
		return nil
	})
	g.Go(func() error {
		// Warms the settings cache for the layout.
		a.settings.Get(gctx)
		return nil
	})
	_ = g.Wait()

	view := HomeView{
		Lang:     lang,
		Carousel: a.carouselView(r, slide),
		Featured: newCarCards(featured),
		LoanCars: newCarCards(loanCars),
	}

	st := a.settings.Get(ctx)
	vm := a.layout.Page(r, st.CompanyName, a.bundle.T(lang, "home.description"), "", view)
	vm.SEO.Title = st.CompanyName + " | " + a.bundle.T(lang, "home.tagline")
	vm.SEO.OG.Title = vm.SEO.Title
	vm.AddJSONLD(seo.WebSite(st.CompanyName, a.cfg.Server.PublicURL))
	vm.AddJSONLD(seo.AutoDealer(st, a.cfg.Server.PublicURL))
	a.views.renderPage(w, r, "home", http.StatusOK, vm)
}
