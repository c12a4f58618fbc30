package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abdidvp/flooring/internal/adapters/outbound/tui"
	"github.com/abdidvp/flooring/internal/application"
	"github.com/abdidvp/flooring/internal/domain"
	"github.com/abdidvp/flooring/internal/logger"
	"github.com/spf13/cobra"
)

// orderFlags are the selectors shared by commands that address one date
// or one order.
type orderFlags struct {
	date        string
	orderNumber int
	jsonOutput  bool
}

func (f *orderFlags) bindDate(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Order date as MM/DD/YYYY")
	_ = cmd.MarkFlagRequired("date")
}

func (f *orderFlags) bindOrder(cmd *cobra.Command) {
	f.bindDate(cmd)
	cmd.Flags().IntVar(&f.orderNumber, "order", 0, "Order number")
	_ = cmd.MarkFlagRequired("order")
}

func (f *orderFlags) bindJSON(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Output as JSON")
}

func (f *orderFlags) key() (application.OrderKey, error) {
	date, err := domain.ParseOrderDate(f.date)
	if err != nil {
		return application.OrderKey{}, err
	}
	if err := domain.ValidateOrderNumber(f.orderNumber); err != nil {
		return application.OrderKey{}, err
	}
	return application.OrderKey{Date: date, OrderNumber: f.orderNumber}, nil
}

func newDisplayCmd(opts *rootOptions) *cobra.Command {
	var flags orderFlags

	cmd := &cobra.Command{
		Use:   "display",
		Short: "List the orders placed for a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := domain.ParseOrderDate(flags.date)
			if err != nil {
				return err
			}
			l, err := openLedger(cmd, opts)
			if err != nil {
				return err
			}

			orders := l.service.ListOrders(date)
			if flags.jsonOutput {
				return renderJSON(cmd, orders)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrders(date, orders))
			return nil
		},
	}
	flags.bindDate(cmd)
	flags.bindJSON(cmd)
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	var flags orderFlags

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show one order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := flags.key()
			if err != nil {
				return err
			}
			l, err := openLedger(cmd, opts)
			if err != nil {
				return err
			}

			order, err := l.service.GetOrder(key)
			if err != nil {
				return err
			}
			return renderOrder(cmd, flags.jsonOutput, key.Date, order)
		},
	}
	flags.bindOrder(cmd)
	flags.bindJSON(cmd)
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		flags                       orderFlags
		name, state, product, areaS string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Price and record a new order",
		Long:  "Add an order for a future date. The order is priced from the tax and product tables and appended to that date's audit file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := newAddRequest(flags.date, name, state, product, areaS)
			if err != nil {
				return err
			}
			l, err := openLedger(cmd, opts)
			if err != nil {
				return err
			}

			order, err := l.service.AddOrder(req)
			if err != nil {
				return reportFailure(l.log, "add", req.Date, order.OrderNumber, err)
			}
			l.log.Info("order added", logger.OrderAttrs(req.Date, order.OrderNumber)...)
			return renderOrder(cmd, flags.jsonOutput, req.Date, order)
		},
	}
	flags.bindDate(cmd)
	flags.bindJSON(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Customer name")
	cmd.Flags().StringVar(&state, "state", "", "State abbreviation, e.g. TX")
	cmd.Flags().StringVar(&product, "product", "", "Product type, e.g. Tile")
	cmd.Flags().StringVar(&areaS, "area", "", "Area, at least 100")
	for _, f := range []string{"name", "state", "product", "area"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var (
		flags                       orderFlags
		name, state, product, areaS string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change an order and reprice it",
		Long:  "Edit an order's customer, state, product or area. Omitted fields keep their value; the order is always repriced against the current tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := flags.key()
			if err != nil {
				return err
			}
			set := func(flag string, v *string) *string {
				if cmd.Flags().Changed(flag) {
					return v
				}
				return nil
			}
			edits, err := newOrderEdits(set("name", &name), set("state", &state), set("product", &product), set("area", &areaS))
			if err != nil {
				return err
			}
			l, err := openLedger(cmd, opts)
			if err != nil {
				return err
			}

			order, err := l.service.EditAnOrder(application.EditOrderRequest{OrderKey: key, Edits: edits})
			if err != nil {
				return reportFailure(l.log, "edit", key.Date, key.OrderNumber, err)
			}
			l.log.Info("order edited", logger.OrderAttrs(key.Date, key.OrderNumber)...)
			return renderOrder(cmd, flags.jsonOutput, key.Date, order)
		},
	}
	flags.bindOrder(cmd)
	flags.bindJSON(cmd)
	cmd.Flags().StringVar(&name, "name", "", "New customer name")
	cmd.Flags().StringVar(&state, "state", "", "New state abbreviation")
	cmd.Flags().StringVar(&product, "product", "", "New product type")
	cmd.Flags().StringVar(&areaS, "area", "", "New area, at least 100")
	return cmd
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	var flags orderFlags

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := flags.key()
			if err != nil {
				return err
			}
			l, err := openLedger(cmd, opts)
			if err != nil {
				return err
			}

			order, err := l.service.RemoveOrder(key)
			if err != nil {
				return reportFailure(l.log, "remove", key.Date, key.OrderNumber, err)
			}
			l.log.Info("order removed", logger.OrderAttrs(key.Date, key.OrderNumber)...)
			if flags.jsonOutput {
				return renderJSON(cmd, order)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderSuccess(fmt.Sprintf("Order %d removed from %s", order.OrderNumber, key.Date)))
			return nil
		},
	}
	flags.bindOrder(cmd)
	flags.bindJSON(cmd)
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every recorded order into one export file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(cmd, opts)
			if err != nil {
				return err
			}
			if err := l.service.ExportAll(); err != nil {
				l.log.Error("export failed", slog.Any("error", err))
				return err
			}
			l.log.Info("orders exported", slog.String("path", l.cfg.ExportFile))
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderSuccess("Exported to "+l.cfg.ExportFile))
			return nil
		},
	}
}

// newAddRequest validates raw add input the way both the flags and the
// interactive shell receive it.
func newAddRequest(dateS, name, state, product, areaS string) (application.AddOrderRequest, error) {
	date, err := domain.ParseOrderDate(dateS)
	if err != nil {
		return application.AddOrderRequest{}, err
	}
	if err := domain.ValidateFutureDate(date, today()); err != nil {
		return application.AddOrderRequest{}, err
	}
	if err := domain.ValidateCustomerName(name); err != nil {
		return application.AddOrderRequest{}, err
	}
	area, err := domain.ParseArea(areaS)
	if err != nil {
		return application.AddOrderRequest{}, err
	}
	return application.AddOrderRequest{Date: date, CustomerName: name, State: state, ProductType: product, Area: area}, nil
}

// newOrderEdits turns optional raw values into OrderEdits; nil means unchanged.
func newOrderEdits(name, state, product, areaS *string) (domain.OrderEdits, error) {
	var edits domain.OrderEdits
	if name != nil {
		if err := domain.ValidateCustomerName(*name); err != nil {
			return edits, err
		}
		edits.CustomerName = name
	}
	edits.State = state
	edits.ProductType = product
	if areaS != nil {
		area, err := domain.ParseArea(*areaS)
		if err != nil {
			return edits, err
		}
		edits.Area = &area
	}
	return edits, nil
}

// reportFailure logs a failed mutation. Audit failures are logged as a
// divergence because the in-memory change already happened.
func reportFailure(log *slog.Logger, op string, date domain.OrderDate, orderNumber int, err error) error {
	attrs := append(logger.OrderAttrs(date, orderNumber), slog.String("op", op), slog.Any("error", err))
	if errors.Is(err, domain.ErrIOFailure) {
		log.Error("audit file out of sync with ledger", attrs...)
	} else {
		log.Debug("order rejected", attrs...)
	}
	return err
}

func renderOrder(cmd *cobra.Command, jsonOutput bool, date domain.OrderDate, order domain.Order) error {
	if jsonOutput {
		return renderJSON(cmd, order)
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrder(date, order))
	return nil
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
