// Package settings serves the company metadata shown on every page.
package settings

import (
	"context"
	"time"

	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/cache"
	"autohub.ng/autohub-web/internal/observability"
	"autohub.ng/autohub-web/internal/whatsapp"
)

const (
	cacheName  = "site_settings"
	cacheKey   = "current"
	defaultTTL = 5 * time.Minute
)

// Fetcher is the subset of api.Client used here.
type Fetcher interface {
	SiteSettings(ctx context.Context) (api.SiteSettings, error)
}

// Defaults are shown when the API cannot be reached.
var Defaults = api.SiteSettings{
	CompanyName:    "AutoHub",
	Tagline:        "Buy, swap and finance cars across Nigeria",
	Address:        "Lagos, Nigeria",
	Phone:          "+234 800 000 0000",
	Email:          "hello@autohub.ng",
	Logo:           "/assets/img/logo.svg",
	WhatsAppNumber: "+234 800 000 0000",
}

// Service returns cached site settings.
type Service struct {
	fetcher Fetcher
	cache   *cache.Cache[api.SiteSettings]
}

// NewService builds a Service. store may be nil for a process-local cache; ttl <= 0
// uses five minutes.
func NewService(f Fetcher, store cache.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{
		fetcher: f,
		cache:   cache.New[api.SiteSettings](cacheName, store, ttl),
	}
}

// Get never fails: API errors are logged and Defaults are returned without being cached.
func (s *Service) Get(ctx context.Context) api.SiteSettings {
	out, err := s.cache.Get(ctx, cacheKey, func(ctx context.Context) (api.SiteSettings, error) {
		return s.fetcher.SiteSettings(ctx)
	})
	if err != nil {
		observability.FromContext(ctx).Warn("site settings unavailable, using defaults", zap.Error(err))
		return Defaults
	}
	return merge(out, Defaults)
}

// WhatsAppLink links to the admin WhatsApp number with text prefilled.
func (s *Service) WhatsAppLink(ctx context.Context, text string) string {
	st := s.Get(ctx)
	number := st.WhatsAppNumber
	if number == "" {
		number = st.AdminPhone
	}
	return whatsapp.Link(number, text)
}

func merge(got, def api.SiteSettings) api.SiteSettings {
	pick := func(v, d string) string {
		if v != "" {
			return v
		}
		return d
	}
	got.CompanyName = pick(got.CompanyName, def.CompanyName)
	got.Logo = pick(got.Logo, def.Logo)
	got.Email = pick(got.Email, def.Email)
	got.Phone = pick(got.Phone, def.Phone)
	return got
}
