package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/cache"
	"autohub.ng/autohub-web/internal/carousel"
	"autohub.ng/autohub-web/internal/catalog"
	"autohub.ng/autohub-web/internal/config"
	"autohub.ng/autohub-web/internal/content"
	"autohub.ng/autohub-web/internal/fence"
	handlersPkg "autohub.ng/autohub-web/internal/handlers"
	"autohub.ng/autohub-web/internal/i18n"
	"autohub.ng/autohub-web/internal/leads"
	mw "autohub.ng/autohub-web/internal/middleware"
	"autohub.ng/autohub-web/internal/settings"
	"autohub.ng/autohub-web/internal/status"
)

const (
	contentTTL     = 10 * time.Minute
	requestTimeout = 30 * time.Second
	readinessTTL   = 15 * time.Second
)

var errCarouselNotLoaded = errors.New("carousel: no slides loaded yet")

// app wires the services behind every handler.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	api      *api.Client
	catalog  *catalog.Service
	fence    *fence.Fence
	leads    *leads.Submitter
	carousel *carousel.Poller
	settings *settings.Service
	content  *content.Library
	bundle   *i18n.Bundle
	layout   *handlersPkg.Layout
	views    *renderer
	sessions *mw.Sessions
	status   *status.Checker

	carsProfile  catalog.Profile
	loansProfile catalog.Profile
}

// newApp builds the application from configuration. rdb may be nil, in which case caches
// and request fences stay in process memory.
func newApp(cfg config.Config, logger *zap.Logger, rdb redis.UniversalClient) (*app, error) {
	client, err := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))
	if err != nil {
		return nil, err
	}
	bundle, err := i18n.Load(cfg.Paths.Locales, "en", []string{"en"})
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	views, err := newRenderer(cfg.Paths.Templates, cfg.Server.Dev, bundle)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	var (
		settingsStore cache.Store
		fenceStore    fence.Store
	)
	if rdb != nil {
		settingsStore = cache.NewRedisStore(rdb)
		fenceStore = fence.NewRedisStore(rdb, 0)
	}

	st := settings.NewService(client, settingsStore, cfg.Settings.TTL)
	a := &app{
		cfg:      cfg,
		logger:   logger,
		api:      client,
		catalog:  catalog.NewService(client),
		fence:    fence.New(fenceStore),
		leads:    leads.NewSubmitter(client),
		carousel: carousel.NewPoller(client, carousel.WithInterval(cfg.Carousel.PollInterval), carousel.WithLogger(logger.Named("carousel"))),
		settings: st,
		content:  content.NewLibrary(cfg.Paths.Content, bundle.Fallback(), contentTTL),
		bundle:   bundle,
		views:    views,
		sessions: mw.NewSessions(cfg.Session.SigningKey, cfg.Server.Production(), logger),

		carsProfile:  withPerPage(catalog.CarsProfile, cfg.Catalog.PerPage),
		loansProfile: withPerPage(catalog.LoansProfile, cfg.Catalog.PerPage),
	}
	a.layout = &handlersPkg.Layout{
		Settings:  st,
		Bundle:    bundle,
		Analytics: handlersPkg.AnalyticsFromConfig(cfg.Analytics),
		SiteURL:   cfg.Server.PublicURL,
	}

	probes := []status.Probe{
		{Name: "api", Check: func(ctx context.Context) error {
			_, err := client.SiteSettings(ctx)
			return err
		}},
		{Name: "carousel", Optional: true, Check: func(context.Context) error {
			if _, loaded := a.carousel.Snapshot(); !loaded {
				return errCarouselNotLoaded
			}
			return nil
		}},
	}
	if rdb != nil {
		probes = append(probes, status.Probe{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	a.status = status.NewChecker(readinessTTL, probes...)
	return a, nil
}

func withPerPage(p catalog.Profile, perPage int) catalog.Profile {
	if perPage > 0 {
		p.PerPage = perPage
	}
	return p
}

// runBackground starts the carousel poller. It returns when ctx is cancelled.
func (a *app) runBackground(ctx context.Context) {
	if err := a.carousel.Run(ctx); err != nil && ctx.Err() == nil {
		a.logger.Error("carousel poller stopped", zap.Error(err))
	}
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; only deploy behind a proxy that sets it.
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(a.logger))
	r.Use(mw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/readyz", a.status.Handler())
	r.Handle("/metrics", promhttp.Handler())
	assets := filepath.Join(a.cfg.Paths.Public, "assets")
	if a.cfg.Server.Dev {
		r.Handle("/assets/*", http.StripPrefix("/assets", http.FileServer(http.Dir(assets))))
	} else {
		r.Handle("/assets/*", mw.AssetsWithCache("/assets", assets))
	}

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.Timeout(requestTimeout))
		r.Use(mw.HTMX)
		r.Use(a.sessions.Middleware)
		r.Use(mw.Locale(a.bundle))
		r.Use(mw.LimitForm(maxFormBytes))
		r.Use(mw.CSRF(a.sessions.Secure()))
		r.Use(mw.UIState)

		r.Get("/", a.HomeHandler)
		r.Get("/carousel", a.CarouselFrag)

		r.Get("/cars", a.listingPage(a.carsProfile, "/cars"))
		r.Get("/cars/results", a.listingFrag(a.carsProfile, "/cars"))
		r.Get("/cars/{id}", a.CarDetailHandler)
		r.Get("/cars/{id}/loan", a.CarLoanFrag)
		r.Get("/loans", a.listingPage(a.loansProfile, "/loans"))
		r.Get("/loans/results", a.listingFrag(a.loansProfile, "/loans"))

		for _, f := range leadForms {
			r.Get(f.Path, a.leadFormPage(f))
			r.Post(f.Path, a.leadFormSubmit(f))
		}

		for _, slug := range content.Slugs {
			r.Get("/"+slug, a.contentPage(slug))
		}

		r.Post("/ui/theme", a.ToggleThemeHandler)
		r.NotFound(a.NotFoundHandler)
	})
	return r
}
