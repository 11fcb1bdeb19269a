package main

import (
	"strconv"
	"time"

	"autohub.ng/autohub-web/internal/carousel"
)

// CarouselView renders the hero carousel with the data attributes read by carousel.js.
type CarouselView struct {
	Lang           string
	Deck           carousel.Deck
	Loaded         bool
	PreloadNext    string
	AutoplayMillis int64
	SwipeThreshold int
	PollSeconds    int
	RefreshURL     string
}

func newCarouselView(lang string, snap carousel.Snapshot, loaded bool, slide int, autoplay, poll time.Duration) CarouselView {
	deck := carousel.NewDeck(snap, slide, autoplay)
	return CarouselView{
		Lang:           lang,
		Deck:           deck,
		Loaded:         loaded,
		PreloadNext:    deck.PreloadNext(),
		AutoplayMillis: deck.AutoplayMillis(),
		SwipeThreshold: carousel.SwipeThreshold,
		PollSeconds:    int(poll / time.Second),
		RefreshURL:     "/carousel?v=" + strconv.FormatInt(snap.Version, 10),
	}
}

// SlideHref is the non-script link to slide i.
func (v CarouselView) SlideHref(i int) string { return "/?slide=" + strconv.Itoa(i) }
