package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/sets"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/catalog"
	"autohub.ng/autohub-web/internal/loan"
)

const (
	defaultWorkers  = 4
	defaultMaxPages = 50
)

// catalogAPI is the subset of api.Client the exporter uses.
type catalogAPI interface {
	ListCars(ctx context.Context, query url.Values) (api.CarPage, error)
	GetCar(ctx context.Context, id int64) (api.Car, error)
}

// Summary aggregates an export.
type Summary struct {
	Cars      int      `json:"cars"`
	Financed  int      `json:"financed"`
	Brands    []string `json:"brands"`
	Locations []string `json:"locations"`
}

// Snapshot is the JSON export document.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	SiteURL     string    `json:"site_url"`
	Summary     Summary   `json:"summary"`
	Cars        []api.Car `json:"cars"`
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "walk every catalog page, load each car and write JSON and HTML snapshots",
		Flags: append(filterFlags(),
			&cli.IntFlag{Name: "workers", Value: defaultWorkers, Usage: "concurrent car detail requests"},
			&cli.IntFlag{Name: "max-pages", Value: defaultMaxPages, Usage: "stop after this many listing pages"},
			&cli.StringFlag{Name: "json", Value: "inventory.json", Usage: "JSON output path, empty to skip"},
			&cli.StringFlag{Name: "html", Value: "inventory.html", Usage: "HTML output path, empty to skip"},
		),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = e.logger.Sync() }()

			q := queryFromFlags(c, catalog.MaxPerPage)
			snap, err := export(c.Context, e.client, q, exportOptions{
				Workers:  c.Int("workers"),
				MaxPages: c.Int("max-pages"),
				SiteURL:  e.cfg.Server.PublicURL,
				Logger:   e.logger,
			})
			if err != nil {
				return err
			}
			if path := c.String("json"); path != "" {
				if err := writeJSON(path, snap); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, "Dumping JSON to:", path)
			}
			if path := c.String("html"); path != "" {
				if err := os.WriteFile(path, []byte(snapshotPage(snap)), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, "Rendering to", path)
			}
			printSummary(c.App.Writer, snap.Summary)
			return nil
		},
	}
}

type exportOptions struct {
	Workers  int
	MaxPages int
	SiteURL  string
	Logger   *zap.Logger
	Now      func() time.Time
}

func export(ctx context.Context, client catalogAPI, q catalog.Query, opts exportOptions) (Snapshot, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	listed, err := collect(ctx, client, q, opts.MaxPages)
	if err != nil {
		return Snapshot{}, err
	}
	cars := fetchDetails(ctx, client, listed, opts.Workers, opts.Logger)
	return Snapshot{
		GeneratedAt: opts.Now().UTC(),
		SiteURL:     opts.SiteURL,
		Summary:     summarize(cars),
		Cars:        cars,
	}, nil
}

// collect walks the listing from page 1 until the last page or maxPages.
func collect(ctx context.Context, client catalogAPI, q catalog.Query, maxPages int) ([]api.Car, error) {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	var out []api.Car
	for n := 1; n <= maxPages; n++ {
		page, err := client.ListCars(ctx, q.WithPage(n).APIValues())
		if err != nil {
			return nil, fmt.Errorf("list page %d: %w", n, err)
		}
		out = append(out, page.Data...)
		if len(page.Data) == 0 || n >= page.Meta.LastPage {
			break
		}
	}
	return out, nil
}

// fetchDetails loads each car's full record on a worker pool. A car whose detail request
// fails keeps its listing summary.
func fetchDetails(ctx context.Context, client catalogAPI, listed []api.Car, workers int, logger *zap.Logger) []api.Car {
	if workers <= 0 {
		workers = defaultWorkers
	}
	out := make([]api.Car, len(listed))
	copy(out, listed)

	var (
		mu     sync.Mutex
		failed int
	)
	wp := workerpool.New(workers)
	for i := range listed {
		i := i
		wp.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			car, err := client.GetCar(ctx, listed[i].ID)
			if err != nil {
				logger.Warn("car detail failed", zap.Int64("car_id", listed[i].ID), zap.Error(err))
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			out[i] = car
		})
	}
	wp.StopWait()

	if failed > 0 {
		logger.Warn("some car details were not loaded", zap.Int("failed", failed), zap.Int("total", len(listed)))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func summarize(cars []api.Car) Summary {
	brands := sets.NewString()
	locations := sets.NewString()
	s := Summary{Cars: len(cars)}
	for _, c := range cars {
		if c.Brand.Name != "" {
			brands.Insert(c.Brand.Name)
		}
		if c.Location != "" {
			locations.Insert(c.Location)
		}
		if loan.Available(c.Loan) {
			s.Financed++
		}
	}
	s.Brands = brands.List()
	s.Locations = locations.List()
	return s
}

func writeJSON(path string, snap Snapshot) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func printSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "%d cars, %d on loan\n", s.Cars, s.Financed)
	fmt.Fprintln(w, "Brands:", strings.Join(s.Brands, ", "))
	fmt.Fprintln(w, "Locations:", strings.Join(s.Locations, ", "))
}
