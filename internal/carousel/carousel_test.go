package carousel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"autohub.ng/autohub-web/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scriptedFetcher struct {
	mu        sync.Mutex
	responses []api.CarouselResult
	errs      []error
	etags     []string
}

func (f *scriptedFetcher) Carousel(_ context.Context, etag string) (api.CarouselResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.etags = append(f.etags, etag)
	i := len(f.etags) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return api.CarouselResult{}, f.errs[i]
	}
	if i >= len(f.responses) {
		return api.CarouselResult{NotModified: true, ETag: etag}, nil
	}
	return f.responses[i], nil
}

func result(version int64, etag string, images ...string) api.CarouselResult {
	slides := make([]api.Slide, 0, len(images))
	for _, img := range images {
		slides = append(slides, api.Slide{Image: img})
	}
	return api.CarouselResult{
		ETag:     etag,
		Response: api.CarouselResponse{Success: true, Version: version, Data: slides},
	}
}

func TestRefreshReplacesOnlyOnVersionChange(t *testing.T) {
	f := &scriptedFetcher{responses: []api.CarouselResult{
		result(1, `"a"`, "one.jpg", "two.jpg"),
		result(1, `"b"`, "different.jpg"),
		{NotModified: true, ETag: `"b"`},
		result(2, `"c"`, "three.jpg"),
	}}
	p := NewPoller(f)
	ch, cancel := p.Subscribe()
	defer cancel()

	changed, err := p.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, changed)
	first := <-ch
	require.EqualValues(t, 1, first.Version)

	changed, err = p.Refresh(context.Background())
	require.NoError(t, err)
	require.False(t, changed, "same version must not replace slides")
	snap, ok := p.Snapshot()
	require.True(t, ok)
	require.Len(t, snap.Slides, 2)
	require.Equal(t, "one.jpg", snap.Slides[0].Image)

	changed, err = p.Refresh(context.Background())
	require.NoError(t, err)
	require.False(t, changed)

	select {
	case s := <-ch:
		t.Fatalf("unexpected notification for version %d", s.Version)
	default:
	}

	changed, err = p.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, changed)
	require.EqualValues(t, 2, (<-ch).Version)

	require.Equal(t, []string{"", `"a"`, `"b"`, `"b"`}, f.etags)
}

func TestRefreshErrorKeepsSnapshot(t *testing.T) {
	f := &scriptedFetcher{
		responses: []api.CarouselResult{result(4, "", "x.jpg"), {}},
		errs:      []error{nil, errors.New("offline")},
	}
	p := NewPoller(f)

	_, err := p.Refresh(context.Background())
	require.NoError(t, err)
	_, err = p.Refresh(context.Background())
	require.Error(t, err)

	snap, ok := p.Snapshot()
	require.True(t, ok)
	require.EqualValues(t, 4, snap.Version)
}

func TestRunStopsOnCancel(t *testing.T) {
	f := &scriptedFetcher{responses: []api.CarouselResult{result(1, "", "a.jpg")}}
	p := NewPoller(f, WithInterval(5*time.Millisecond))
	ch, _ := p.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.EqualValues(t, 1, (<-ch).Version)
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.etags) >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	_, open := <-ch
	require.False(t, open, "subscribers are closed on shutdown")
}

func TestDeckNavigation(t *testing.T) {
	t.Parallel()

	snap := Snapshot{Version: 9, Slides: []api.Slide{{Image: "a"}, {Image: "b"}, {Image: "c"}}}
	d := NewDeck(snap, 0, 0)
	require.Equal(t, DefaultAutoplay, d.Autoplay)
	require.Equal(t, "b", d.PreloadNext())

	require.Equal(t, 2, d.Prev().Current)
	require.Equal(t, 0, d.Next().Next().Next().Current)
	require.Equal(t, 2, d.Jump(99).Current)
	require.Equal(t, 0, d.Jump(-1).Current)
	require.Equal(t, "a", d.Jump(2).PreloadNext())

	require.Equal(t, 0, d.Swipe(-39).Current, "short travel is not a swipe")
	require.Equal(t, 1, d.Swipe(-40).Current)
	require.Equal(t, 2, d.Swipe(75).Current)

	dots := d.Jump(1).Dots()
	require.Len(t, dots, 3)
	require.True(t, dots[1].Active)
	require.False(t, dots[0].Active)
}

func TestDeckEmptyAndSingle(t *testing.T) {
	t.Parallel()

	empty := NewDeck(Snapshot{}, 3, time.Second)
	_, ok := empty.Slide()
	require.False(t, ok)
	require.Equal(t, 0, empty.Next().Current)
	require.Empty(t, empty.PreloadNext())

	single := NewDeck(Snapshot{Slides: []api.Slide{{Image: "only"}}}, 0, time.Second)
	require.Empty(t, single.PreloadNext())
	require.Equal(t, 0, single.Next().Current)
}

func TestIsSwipe(t *testing.T) {
	t.Parallel()

	require.False(t, IsSwipe(0))
	require.False(t, IsSwipe(39.9))
	require.True(t, IsSwipe(-40))
	require.True(t, IsSwipe(120))
}
