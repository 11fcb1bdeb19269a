package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/format"
	"autohub.ng/autohub-web/internal/loan"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "print one page of the catalog",
		Flags: append(filterFlags(),
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "per-page", Value: 12},
		),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			q := queryFromFlags(c, c.Int("per-page")).WithPage(c.Int("page"))
			page, err := e.client.ListCars(c.Context, q.APIValues())
			if err != nil {
				return err
			}
			return printPage(c.App.Writer, page)
		},
	}
}

func printPage(w io.Writer, page api.CarPage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCAR\tPRICE\tMILEAGE\tLOCATION\tMONTHLY FROM")
	for _, car := range page.Data {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			car.ID, car.Title(), format.Naira(car.Price), format.Mileage(car.Mileage), car.Location, monthlyFrom(car))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d, %d cars\n", page.Meta.CurrentPage, page.Meta.LastPage, page.Meta.Total)
	return err
}

// monthlyFrom is the lowest monthly repayment on offer, or "-" without financing.
func monthlyFrom(car api.Car) string {
	if !loan.Available(car.Loan) {
		return "-"
	}
	m, ok := loan.LowestMonthly(car.Loan)
	if !ok {
		return "-"
	}
	return format.Naira(m)
}
