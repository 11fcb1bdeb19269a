package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"autohub.ng/autohub-web/internal/api"
)

type fakeFetcher struct {
	calls int
	out   api.SiteSettings
	err   error
}

func (f *fakeFetcher) SiteSettings(context.Context) (api.SiteSettings, error) {
	f.calls++
	return f.out, f.err
}

func TestGetCachesRemoteSettings(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{out: api.SiteSettings{CompanyName: "AutoHub Motors", WhatsAppNumber: "08030000001"}}
	svc := NewService(f, nil, time.Minute)

	first := svc.Get(context.Background())
	second := svc.Get(context.Background())
	require.Equal(t, "AutoHub Motors", first.CompanyName)
	require.Equal(t, first, second)
	require.Equal(t, 1, f.calls)
	require.Equal(t, Defaults.Logo, first.Logo, "blank fields fall back to defaults")
	require.Equal(t, "https://wa.me/2348030000001?text=Hello", svc.WhatsAppLink(context.Background(), "Hello"))
}

func TestGetFallsBackWithoutCaching(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{err: errors.New("connection refused")}
	svc := NewService(f, nil, time.Minute)

	require.Equal(t, Defaults, svc.Get(context.Background()))

	f.err = nil
	f.out = api.SiteSettings{CompanyName: "Recovered"}
	require.Equal(t, "Recovered", svc.Get(context.Background()).CompanyName)
	require.Equal(t, 2, f.calls)
}
