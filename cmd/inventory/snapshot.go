package main

import (
	"fmt"
	"strconv"

	"github.com/julvo/htmlgo"
	a "github.com/julvo/htmlgo/attributes"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/format"
)

// snapshotPage renders a static HTML inventory report linking each car to its page.
func snapshotPage(snap Snapshot) htmlgo.HTML {
	rows := make([]htmlgo.HTML, 0, len(snap.Cars))
	for _, car := range snap.Cars {
		rows = append(rows, carRow(snap.SiteURL, car))
	}

	generated := snap.GeneratedAt.Format("2 Jan 2006 15:04 MST")
	return htmlgo.Html5_(
		htmlgo.Head_(
			htmlgo.Title_(htmlgo.Text("AutoHub inventory")),
		),
		htmlgo.Body_(
			htmlgo.H1_(htmlgo.Text("AutoHub inventory")),
			htmlgo.P_(htmlgo.Text(fmt.Sprintf("%d cars, %d on loan. Generated %s.", snap.Summary.Cars, snap.Summary.Financed, generated))),
			htmlgo.Div_(
				htmlgo.H2_(htmlgo.Text("Brands")),
				list(snap.Summary.Brands),
				htmlgo.H2_(htmlgo.Text("Locations")),
				list(snap.Summary.Locations),
			),
			htmlgo.Table_(
				htmlgo.Thead_(
					htmlgo.Tr_(
						htmlgo.Th_(htmlgo.Text("Car")),
						htmlgo.Th_(htmlgo.Text("Price")),
						htmlgo.Th_(htmlgo.Text("Mileage")),
						htmlgo.Th_(htmlgo.Text("Location")),
						htmlgo.Th_(htmlgo.Text("Monthly from")),
					),
				),
				htmlgo.Tbody_(rows...),
			),
		),
	)
}

func carRow(siteURL string, car api.Car) htmlgo.HTML {
	href := siteURL + "/cars/" + strconv.FormatInt(car.ID, 10)
	return htmlgo.Tr_(
		htmlgo.Td_(htmlgo.A([]a.Attribute{a.Href_(href)}, htmlgo.Text(car.Title()))),
		htmlgo.Td_(htmlgo.Text(format.Naira(car.Price))),
		htmlgo.Td_(htmlgo.Text(format.Mileage(car.Mileage))),
		htmlgo.Td_(htmlgo.Text(car.Location)),
		htmlgo.Td_(htmlgo.Text(monthlyFrom(car))),
	)
}

func list(items []string) htmlgo.HTML {
	lis := make([]htmlgo.HTML, 0, len(items))
	for _, it := range items {
		lis = append(lis, htmlgo.Li_(htmlgo.Text(it)))
	}
	return htmlgo.Ul_(lis...)
}
