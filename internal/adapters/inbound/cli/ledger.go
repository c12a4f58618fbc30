package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/abdidvp/flooring/internal/adapters/outbound/audit"
	"github.com/abdidvp/flooring/internal/adapters/outbound/config"
	"github.com/abdidvp/flooring/internal/adapters/outbound/memory"
	"github.com/abdidvp/flooring/internal/adapters/outbound/reference"
	"github.com/abdidvp/flooring/internal/application"
	"github.com/abdidvp/flooring/internal/domain"
	"github.com/abdidvp/flooring/internal/logger"
	"github.com/spf13/cobra"
)

// now is replaced in tests that need a fixed "today".
var now = time.Now

// ledger is one fully wired order service plus the reference tables behind it.
type ledger struct {
	cfg      domain.Config
	taxes    *reference.TaxTable
	products *reference.Catalog
	service  *application.OrderService
	log      *slog.Logger
}

// openLedger loads config and reference tables, wires the repository and
// audit log, and restores previously recorded orders from disk.
func openLedger(cmd *cobra.Command, opts *rootOptions) (*ledger, error) {
	cfg, err := config.New().Load(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := logger.Init("flooring", level, cmd.ErrOrStderr())

	taxes, err := reference.LoadTaxes(cfg.TaxesFile)
	if err != nil {
		return nil, fmt.Errorf("loading taxes: %w", err)
	}
	products, err := reference.LoadProducts(cfg.ProductsFile)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}

	repo := memory.New(domain.NewPricer(taxes, products))
	svc := application.NewOrderService(repo, audit.New(cfg.OrdersDir, cfg.ExportFile))

	n, err := svc.Restore()
	if err != nil {
		return nil, err
	}
	log.Debug("ledger opened",
		slog.String("orders_dir", cfg.OrdersDir),
		slog.Int("states", len(taxes.States())),
		slog.Int("products", len(products.Products())),
		slog.Int("restored_orders", n),
	)

	return &ledger{cfg: cfg, taxes: taxes, products: products, service: svc, log: log}, nil
}

// today is the current local calendar date.
func today() domain.OrderDate {
	return domain.DateOf(now())
}
