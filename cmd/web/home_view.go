package main

// HomeView is the landing page body.
type HomeView struct {
	Lang     string
	Carousel CarouselView
	Featured []CarCard
	LoanCars []CarCard
}
