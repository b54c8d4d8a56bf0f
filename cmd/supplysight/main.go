// cmd/supplysight/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rdearco/nuel-supply-sight-tw/internal/cache"
	"github.com/rdearco/nuel-supply-sight-tw/internal/config"
	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
	"github.com/rdearco/nuel-supply-sight-tw/internal/repository"
	"github.com/rdearco/nuel-supply-sight-tw/internal/service"
	"github.com/rdearco/nuel-supply-sight-tw/pkg/logger"
	"github.com/urfave/cli/v2"
)

type appKey struct{}

// app holds what every command needs once Before has run.
type app struct {
	cfg     *config.Config
	cache   cache.KPICache
	service *service.DashboardService
}

func newRangeFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "range",
		Usage: "Date range: 7d, 14d or 30d",
		Value: string(domain.DefaultDateRange),
	}
}

func newIDFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "id",
		Usage:    "Product id",
		Required: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "supplysight",
		Usage: "Inventory dashboard backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "seed-file",
				Usage:   "CSV file replacing the built-in products",
				EnvVars: []string{"APP_SEED_FILE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			serveCommand(),
			{
				Name:  "kpis",
				Usage: "Print the KPI totals for a date range",
				Flags: []cli.Flag{newRangeFlag()},
				Action: func(c *cli.Context) error {
					r, err := domain.ParseDateRange(c.String("range"))
					if err != nil {
						return err
					}
					kpis, err := fromContext(c).service.KPIs(c.Context, r)
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, kpis)
				},
			},
			{
				Name:  "trend",
				Usage: "Print the trend series for a date range",
				Flags: []cli.Flag{newRangeFlag()},
				Action: func(c *cli.Context) error {
					r, err := domain.ParseDateRange(c.String("range"))
					if err != nil {
						return err
					}
					points, err := fromContext(c).service.TrendData(c.Context, r)
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, points)
				},
			},
			productsCommand(),
			updateCommand(),
			transferCommand(),
		},
	}
}

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "Print a filtered, sorted page of products",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "Match name, sku or id"},
			&cli.StringFlag{Name: "warehouse", Value: domain.AllWarehouses},
			&cli.StringFlag{Name: "status", Value: domain.AllStatus},
			&cli.StringFlag{Name: "sort-field", Usage: "id, name, sku, warehouse, stock, demand or status"},
			&cli.StringFlag{Name: "sort-direction", Value: domain.SortAsc},
			&cli.IntFlag{Name: "page", Value: domain.DefaultPage},
			&cli.IntFlag{Name: "page-size", Value: domain.DefaultPageSize},
		},
		Action: func(c *cli.Context) error {
			state := domain.NewViewState()
			state.Filters = domain.Filters{
				Search:    c.String("search"),
				Warehouse: c.String("warehouse"),
				Status:    c.String("status"),
				SortField: c.String("sort-field"),
				SortDir:   c.String("sort-direction"),
			}
			state.PageSize = c.Int("page-size")
			state.Page = c.Int("page")

			page, err := fromContext(c).service.ProductView(c.Context, state)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, page)
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Set demand, stock or warehouse of a product and print it",
		Flags: []cli.Flag{
			newIDFlag(),
			&cli.IntFlag{Name: "demand"},
			&cli.IntFlag{Name: "stock"},
			&cli.StringFlag{Name: "warehouse"},
		},
		Action: func(c *cli.Context) error {
			var patch domain.ProductUpdate
			if c.IsSet("demand") {
				patch.Demand = domain.IntPtr(c.Int("demand"))
			}
			if c.IsSet("stock") {
				patch.Stock = domain.IntPtr(c.Int("stock"))
			}
			if c.IsSet("warehouse") {
				patch.Warehouse = domain.StringPtr(c.String("warehouse"))
			}

			product, err := fromContext(c).service.UpdateProduct(c.Context, c.String("id"), patch)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, product)
		},
	}
}

func transferCommand() *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "Add a signed quantity to a product's stock and print it",
		Flags: []cli.Flag{
			newIDFlag(),
			&cli.IntFlag{Name: "delta", Required: true},
			&cli.StringFlag{Name: "warehouse", Usage: "Move the product to this warehouse"},
		},
		Action: func(c *cli.Context) error {
			product, err := fromContext(c).service.TransferStock(c.Context, c.String("id"), domain.StockTransfer{
				Delta:     c.Int("delta"),
				Warehouse: c.String("warehouse"),
			})
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, product)
		},
	}
}

// setup builds the store and service shared by all commands. Only serve
// applies the configured update delay; one-shot commands answer at once.
func setup(c *cli.Context) error {
	cfg := config.Load()

	level := c.String("log-level")
	if level == "" {
		level = cfg.Log.Level
	}
	logger.SetLevel(level)

	seedFile := cfg.App.SeedFile
	if c.IsSet("seed-file") {
		seedFile = c.String("seed-file")
	}
	seed, err := repository.LoadSeed(seedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}
	repo, err := repository.NewProductRepository(seed)
	if err != nil {
		return fmt.Errorf("failed to build product store: %w", err)
	}

	kpiCache := cache.NewNoopKPICache()
	opts := []service.Option{service.WithUpdateDelay(0)}
	if c.Args().First() == "serve" {
		kpiCache, err = cache.NewKPICache(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("KPI cache unavailable, continuing without it")
			kpiCache = cache.NewNoopKPICache()
		}
		opts = []service.Option{service.WithUpdateDelay(cfg.App.UpdateDelay())}
	}

	a := &app{
		cfg:     cfg,
		cache:   kpiCache,
		service: service.NewDashboardService(repo, kpiCache, opts...),
	}
	c.Context = context.WithValue(c.Context, appKey{}, a)
	return nil
}

func teardown(c *cli.Context) error {
	if a, ok := c.Context.Value(appKey{}).(*app); ok && a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

func fromContext(c *cli.Context) *app {
	return c.Context.Value(appKey{}).(*app)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("supplysight failed")
	}
}
