package main

import (
	"net/url"
	"strconv"

	"github.com/urfave/cli/v2"

	"autohub.ng/autohub-web/internal/catalog"
)

// inventoryProfile exposes every catalog filter on the command line.
var inventoryProfile = catalog.Profile{
	Name: "inventory",
	Filters: []string{
		catalog.ParamSearch,
		catalog.ParamPriceMin,
		catalog.ParamPriceMax,
		catalog.ParamYearMin,
		catalog.ParamYearMax,
		catalog.ParamLocation,
	},
	PerPage: catalog.DefaultPerPage,
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "search", Usage: "free text matched against brand and model"},
		&cli.Int64Flag{Name: "price-min", Usage: "minimum price in naira"},
		&cli.Int64Flag{Name: "price-max", Usage: "maximum price in naira"},
		&cli.IntFlag{Name: "year-min", Usage: "oldest model year"},
		&cli.IntFlag{Name: "year-max", Usage: "newest model year"},
		&cli.StringFlag{Name: "location", Usage: "city or state"},
		&cli.BoolFlag{Name: "loans", Usage: "only cars available on loan"},
	}
}

// queryFromFlags runs the flags through catalog.Parse so the CLI normalises filters
// exactly like the listing pages.
func queryFromFlags(c *cli.Context, perPage int) catalog.Query {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	num := func(key string, n int64) {
		if n > 0 {
			v.Set(key, strconv.FormatInt(n, 10))
		}
	}
	set(catalog.ParamSearch, c.String("search"))
	set(catalog.ParamLocation, c.String("location"))
	num(catalog.ParamPriceMin, c.Int64("price-min"))
	num(catalog.ParamPriceMax, c.Int64("price-max"))
	num(catalog.ParamYearMin, int64(c.Int("year-min")))
	num(catalog.ParamYearMax, int64(c.Int("year-max")))

	p := inventoryProfile
	p.LoanOnly = c.Bool("loans")
	if perPage > 0 {
		p.PerPage = perPage
	}
	return catalog.Parse(v, p)
}
