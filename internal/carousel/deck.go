package carousel

import (
	"math"
	"time"

	"autohub.ng/autohub-web/internal/api"
)

// SwipeThreshold is the minimum horizontal travel, in CSS pixels, counted as a swipe.
const SwipeThreshold = 40

// DefaultAutoplay is the slide advance interval.
const DefaultAutoplay = 5 * time.Second

// Deck is the navigation state of a rendered carousel.
type Deck struct {
	Slides   []api.Slide
	Current  int
	Version  int64
	Autoplay time.Duration
}

// NewDeck positions a deck on slide current (clamped).
func NewDeck(s Snapshot, current int, autoplay time.Duration) Deck {
	if autoplay <= 0 {
		autoplay = DefaultAutoplay
	}
	d := Deck{Slides: s.Slides, Version: s.Version, Autoplay: autoplay}
	return d.Jump(current)
}

// Len is the number of slides.
func (d Deck) Len() int { return len(d.Slides) }

// Slide returns the visible slide.
func (d Deck) Slide() (api.Slide, bool) {
	if len(d.Slides) == 0 {
		return api.Slide{}, false
	}
	return d.Slides[d.Current], true
}

// Next advances one slide, wrapping at the end.
func (d Deck) Next() Deck {
	if n := len(d.Slides); n > 0 {
		d.Current = (d.Current + 1) % n
	}
	return d
}

// Prev goes back one slide, wrapping at the start.
func (d Deck) Prev() Deck {
	if n := len(d.Slides); n > 0 {
		d.Current = (d.Current - 1 + n) % n
	}
	return d
}

// Jump moves to slide i, clamped to the valid range.
func (d Deck) Jump(i int) Deck {
	switch {
	case len(d.Slides) == 0 || i < 0:
		d.Current = 0
	case i >= len(d.Slides):
		d.Current = len(d.Slides) - 1
	default:
		d.Current = i
	}
	return d
}

// PreloadNext is the image of the following slide, or "" when there is nothing to preload.
func (d Deck) PreloadNext() string {
	if len(d.Slides) < 2 {
		return ""
	}
	next := d.Next()
	return next.Slides[next.Current].Image
}

// Swipe applies a horizontal gesture: left advances, right goes back. Movements below
// SwipeThreshold are ignored.
func (d Deck) Swipe(dx float64) Deck {
	if !IsSwipe(dx) {
		return d
	}
	if dx < 0 {
		return d.Next()
	}
	return d.Prev()
}

// IsSwipe reports whether a horizontal travel of dx pixels counts as navigation.
func IsSwipe(dx float64) bool {
	return math.Abs(dx) >= SwipeThreshold
}

// AutoplayMillis is the autoplay interval for the client script.
func (d Deck) AutoplayMillis() int64 { return d.Autoplay.Milliseconds() }

// Dot is one position indicator.
type Dot struct {
	Index  int
	Active bool
}

// Dots lists the position indicators.
func (d Deck) Dots() []Dot {
	dots := make([]Dot, len(d.Slides))
	for i := range d.Slides {
		dots[i] = Dot{Index: i, Active: i == d.Current}
	}
	return dots
}

// NextIndex and PrevIndex give the neighbouring positions for non-script links.
func (d Deck) NextIndex() int { return d.Next().Current }
func (d Deck) PrevIndex() int { return d.Prev().Current }
